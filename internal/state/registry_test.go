package state

import (
	"testing"

	"github.com/dshills/indentguide/internal/config"
	"github.com/dshills/indentguide/internal/contain"
	"github.com/dshills/indentguide/internal/core"
	"github.com/dshills/indentguide/internal/indent"
	"github.com/dshills/indentguide/internal/region"
	"github.com/dshills/indentguide/internal/scope"
)

type sliceSource struct {
	lines []string
}

func (s *sliceSource) Lines(start, end int) []string {
	if start < 0 || start >= len(s.lines) {
		return nil
	}
	if end > len(s.lines) {
		end = len(s.lines)
	}
	return s.lines[start:end]
}

func newTestBuffer(lines []string) *Buffer {
	cache := indent.NewCache(&sliceSource{lines: lines}, 4, 10)
	index := contain.NewIndex(cache)
	return &Buffer{
		Indents: cache,
		Contain: index,
		Scopes:  scope.NewResolver(cache, index, scope.PolicyRelaxed, 1),
		Opts:    config.Defaults(),
	}
}

func TestRegistryEnsureBuffer(t *testing.T) {
	r := NewRegistry()
	created := 0
	factory := func() *Buffer {
		created++
		return newTestBuffer([]string{"a"})
	}

	first := r.EnsureBuffer(core.BufferID(1), factory)
	again := r.EnsureBuffer(core.BufferID(1), factory)
	if first != again {
		t.Error("EnsureBuffer returned different state for the same ID")
	}
	if created != 1 {
		t.Errorf("factory ran %d times, want 1", created)
	}
	if r.BufferCount() != 1 {
		t.Errorf("BufferCount() = %d, want 1", r.BufferCount())
	}
}

func TestRegistryDropBuffer(t *testing.T) {
	r := NewRegistry()
	r.EnsureBuffer(core.BufferID(1), func() *Buffer { return newTestBuffer(nil) })
	r.DropBuffer(core.BufferID(1))
	if _, ok := r.Buffer(core.BufferID(1)); ok {
		t.Error("buffer state survived DropBuffer")
	}
}

func TestRegistryWindows(t *testing.T) {
	r := NewRegistry()
	w := r.EnsureWindow(core.WindowID(7))
	if w2 := r.EnsureWindow(core.WindowID(7)); w2 != w {
		t.Error("EnsureWindow returned different state for the same ID")
	}
	if r.WindowCount() != 1 {
		t.Errorf("WindowCount() = %d, want 1", r.WindowCount())
	}
	r.DropWindow(core.WindowID(7))
	if _, ok := r.Window(core.WindowID(7)); ok {
		t.Error("window state survived DropWindow")
	}
}

// Reload must drop indents and contain pointers in the same step.
func TestBufferReset(t *testing.T) {
	b := newTestBuffer([]string{"def f():", "    x = 1"})

	if _, ok := b.Indents.Get(1); !ok {
		t.Fatal("Get(1) reported out of range")
	}
	b.Contain.Prev(1)
	if b.Contain.Stats().Resolved == 0 {
		t.Fatal("no pointers resolved before reset")
	}

	b.Reset()
	if b.Indents.Cached(1) {
		t.Error("indent cache survived Reset")
	}
	if b.Contain.Stats().Resolved != 0 {
		t.Error("contain pointers survived Reset")
	}
}

func TestWindowDropScope(t *testing.T) {
	w := &Window{
		Scope:       region.LineRange{Start: 2, End: 9},
		ScopeIndent: 4,
		HasScope:    true,
	}
	w.DropScope()
	if w.HasScope || w.ScopeIndent != 0 || !w.Scope.Equals(region.LineRange{}) {
		t.Errorf("DropScope left %+v", w)
	}
}
