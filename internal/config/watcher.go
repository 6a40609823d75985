package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce coalesces the write bursts editors produce when
// saving a file.
const defaultDebounce = 100 * time.Millisecond

// Watcher reloads a Resolver when its TOML file changes on disk. The
// parent directory is watched rather than the file itself so that
// rename-over-save (the common editor save strategy) keeps working.
type Watcher struct {
	mu sync.Mutex

	resolver *Resolver
	path     string
	fsw      *fsnotify.Watcher

	debounce time.Duration
	timer    *time.Timer

	errs   chan error
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides the reload debounce interval.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// NewWatcher starts watching the resolver's config file. The resolver
// must have been created with WithPath.
func NewWatcher(resolver *Resolver, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		resolver: resolver,
		path:     filepath.Clean(resolver.Path()),
		fsw:      fsw,
		debounce: defaultDebounce,
		errs:     make(chan error, 8),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Errors delivers reload failures. The channel is buffered; errors are
// dropped when nobody drains it.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.done)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

// schedule arms the debounce timer, restarting it on every new event.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}
	if err := w.resolver.Load(); err != nil {
		w.report(err)
	}
}

func (w *Watcher) report(err error) {
	select {
	case w.errs <- err:
	default:
	}
}
