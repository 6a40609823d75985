// Package state owns the per-buffer and per-window state of the guide
// engine. All state lives in an explicit registry keyed by host
// identifiers; there is no package-level mutable state. Lifecycle is
// driven by the host's buffer and window signals.
package state

import (
	"sync"

	"github.com/dshills/indentguide/internal/config"
	"github.com/dshills/indentguide/internal/contain"
	"github.com/dshills/indentguide/internal/core"
	"github.com/dshills/indentguide/internal/indent"
	"github.com/dshills/indentguide/internal/region"
	"github.com/dshills/indentguide/internal/scope"
)

// Buffer is the engine's cached view of one buffer. It is created
// lazily on the first redraw pass touching the buffer, reset wholesale
// on content reload, and destroyed when the buffer closes.
type Buffer struct {
	// Indents memoizes per-line indent values.
	Indents *indent.Cache

	// Contain memoizes nearest-smaller-indent pointers over Indents.
	Contain *contain.Index

	// Scopes answers scope queries over the two caches.
	Scopes *scope.Resolver

	// Cleared records that overlays were wiped after the guide was
	// disabled, so the wipe happens exactly once.
	Cleared bool

	// Opts is the option snapshot line passes read. It is refreshed by
	// the viewport pass so per-line work never re-resolves config.
	Opts config.Options

	// OptsGen is the configuration generation the caches were built
	// against.
	OptsGen uint64
}

// Reset discards the indent cache and contain index together. Partial
// invalidation is unsafe: pointers encode relationships between
// indents, and a stale pointer is not detectably wrong.
func (b *Buffer) Reset() {
	b.Indents.Reset()
	b.Contain.Reset()
}

// Window is the engine's per-window state: the last seen viewport
// metadata and the last resolved cursor scope.
type Window struct {
	// TopLine is the first visible line from the last viewport pass.
	TopLine int

	// LeftCol is the horizontal scroll offset from the last pass.
	LeftCol int

	// Scope is the last resolved cursor scope.
	Scope region.LineRange

	// ScopeIndent is the highlighted column of Scope.
	ScopeIndent int

	// HasScope is false when no cursor scope is active.
	HasScope bool
}

// DropScope forgets the active cursor scope.
func (w *Window) DropScope() {
	w.Scope = region.LineRange{}
	w.ScopeIndent = 0
	w.HasScope = false
}

// Registry holds all buffer and window state. The engine's callbacks
// run single-threaded, but the config watcher goroutine can trigger
// resets, so access is guarded.
type Registry struct {
	mu      sync.RWMutex
	buffers map[core.BufferID]*Buffer
	windows map[core.WindowID]*Window
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		buffers: make(map[core.BufferID]*Buffer),
		windows: make(map[core.WindowID]*Window),
	}
}

// Buffer returns the state for id, if present.
func (r *Registry) Buffer(id core.BufferID) (*Buffer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.buffers[id]
	return b, ok
}

// EnsureBuffer returns the state for id, creating it with create on
// first sight.
func (r *Registry) EnsureBuffer(id core.BufferID, create func() *Buffer) *Buffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.buffers[id]; ok {
		return b
	}
	b := create()
	r.buffers[id] = b
	return b
}

// DropBuffer destroys the state for id.
func (r *Registry) DropBuffer(id core.BufferID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.buffers, id)
}

// Window returns the state for id, if present.
func (r *Registry) Window(id core.WindowID) (*Window, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.windows[id]
	return w, ok
}

// EnsureWindow returns the state for id, creating it on first sight.
func (r *Registry) EnsureWindow(id core.WindowID) *Window {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.windows[id]; ok {
		return w
	}
	w := &Window{}
	r.windows[id] = w
	return w
}

// DropWindow destroys the state for id.
func (r *Registry) DropWindow(id core.WindowID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.windows, id)
}

// Windows returns a snapshot of all window IDs.
func (r *Registry) Windows() []core.WindowID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.WindowID, 0, len(r.windows))
	for id := range r.windows {
		out = append(out, id)
	}
	return out
}

// BufferCount returns the number of tracked buffers.
func (r *Registry) BufferCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.buffers)
}

// WindowCount returns the number of tracked windows.
func (r *Registry) WindowCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.windows)
}
