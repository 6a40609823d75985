package config

import (
	"sync"

	"github.com/dshills/indentguide/internal/core"
)

// BufferFunc returns per-buffer option overrides, or nil for none. It
// sits between the file layer and buffer-local overrides in precedence.
type BufferFunc func(buf core.BufferID) map[string]any

// Resolver merges the option layers for any buffer. Precedence, lowest
// to highest: built-in defaults, the TOML file, the per-buffer resolver
// function, buffer-local overrides.
type Resolver struct {
	mu sync.RWMutex

	defaults Options
	path     string

	fileLayer   map[string]any
	bufferFn    BufferFunc
	bufferLocal map[core.BufferID]map[string]any

	// base is defaults with the file layer applied.
	base Options

	gen      uint64
	notifier *Notifier

	// loadErrs holds per-key rejections from the last Load.
	loadErrs []error
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithPath sets the TOML file consulted by Load.
func WithPath(path string) ResolverOption {
	return func(r *Resolver) { r.path = path }
}

// WithDefaults replaces the built-in defaults.
func WithDefaults(o Options) ResolverOption {
	return func(r *Resolver) { r.defaults = o }
}

// WithBufferFunc sets the per-buffer resolver function.
func WithBufferFunc(fn BufferFunc) ResolverOption {
	return func(r *Resolver) { r.bufferFn = fn }
}

// NewResolver creates a resolver. Call Load to read the file layer.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		defaults:    Defaults(),
		bufferLocal: make(map[core.BufferID]map[string]any),
		notifier:    NewNotifier(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.base = r.defaults
	return r
}

// Load reads the TOML file layer, rebuilds the base options, bumps the
// generation, and notifies subscribers. A missing file leaves only the
// defaults. Per-key value rejections do not fail the load; they are
// available through LoadErrors.
func (r *Resolver) Load() error {
	var file map[string]any
	if r.path != "" {
		m, err := LoadFile(r.path)
		if err != nil {
			return err
		}
		file = section(m, "guide")
	}

	r.mu.Lock()
	r.fileLayer = file
	base := r.defaults
	r.loadErrs = base.apply(file)
	r.base = base
	r.gen++
	gen := r.gen
	path := r.path
	r.mu.Unlock()

	r.notifier.Publish(Change{Generation: gen, Path: path})
	return nil
}

// LoadErrors returns the per-key rejections from the last Load.
func (r *Resolver) LoadErrors() []error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]error, len(r.loadErrs))
	copy(out, r.loadErrs)
	return out
}

// SetBufferFunc installs the per-buffer resolver function.
func (r *Resolver) SetBufferFunc(fn BufferFunc) {
	r.mu.Lock()
	r.bufferFn = fn
	r.gen++
	gen := r.gen
	r.mu.Unlock()
	r.notifier.Publish(Change{Generation: gen})
}

// SetBufferLocal sets one buffer-local override key. Map values are
// deep-copied so later caller mutations cannot leak into the layer.
func (r *Resolver) SetBufferLocal(buf core.BufferID, key string, val any) {
	r.mu.Lock()
	r.bufferLocal[buf] = deepMerge(r.bufferLocal[buf], map[string]any{key: val})
	r.gen++
	gen := r.gen
	r.mu.Unlock()
	r.notifier.Publish(Change{Generation: gen})
}

// ClearBufferLocal drops all buffer-local overrides for buf.
func (r *Resolver) ClearBufferLocal(buf core.BufferID) {
	r.mu.Lock()
	delete(r.bufferLocal, buf)
	r.gen++
	gen := r.gen
	r.mu.Unlock()
	r.notifier.Publish(Change{Generation: gen})
}

// Options resolves the effective options for buf.
func (r *Resolver) Options(buf core.BufferID) Options {
	r.mu.RLock()
	out := r.base
	fn := r.bufferFn
	local := r.bufferLocal[buf]
	r.mu.RUnlock()

	if fn != nil {
		if m := fn(buf); m != nil {
			out.apply(m)
		}
	}
	if local != nil {
		out.apply(local)
	}
	return out
}

// Generation returns a counter that advances on every configuration
// change. Consumers compare it to decide whether cached option
// snapshots are stale.
func (r *Resolver) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gen
}

// Notifier exposes the change-subscription surface.
func (r *Resolver) Notifier() *Notifier {
	return r.notifier
}

// Path returns the TOML file path Load consults.
func (r *Resolver) Path() string {
	return r.path
}
