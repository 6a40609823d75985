package config

import (
	"errors"
	"testing"

	"github.com/dshills/indentguide/internal/core"
)

func TestLuaResolverResolve(t *testing.T) {
	r, err := NewLuaResolverFromSource(`
function resolve(buf)
	if buf == 2 then
		return { shiftwidth = 2, glyph = "¦", enabled = false }
	end
	return nil
end
`)
	if err != nil {
		t.Fatalf("NewLuaResolverFromSource() error: %v", err)
	}
	defer r.Close()

	m, err := r.Resolve(core.BufferID(2))
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if m["shiftwidth"] != int64(2) {
		t.Errorf("shiftwidth = %v (%T), want int64(2)", m["shiftwidth"], m["shiftwidth"])
	}
	if m["glyph"] != "¦" || m["enabled"] != false {
		t.Errorf("Resolve() = %v", m)
	}

	m, err = r.Resolve(core.BufferID(3))
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if m != nil {
		t.Errorf("Resolve() for an unmatched buffer = %v, want nil", m)
	}
}

func TestLuaResolverMissingHook(t *testing.T) {
	_, err := NewLuaResolverFromSource(`local x = 1`)
	if !errors.Is(err, ErrNoResolveFn) {
		t.Errorf("error = %v, want ErrNoResolveFn", err)
	}
}

func TestLuaResolverBadChunk(t *testing.T) {
	if _, err := NewLuaResolverFromSource(`function resolve(`); err == nil {
		t.Error("syntax error not reported")
	}
}

func TestLuaResolverNonTableResult(t *testing.T) {
	r, err := NewLuaResolverFromSource(`function resolve(buf) return "nope" end`)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if _, err := r.Resolve(core.BufferID(1)); err == nil {
		t.Error("string result accepted")
	}
}

func TestLuaResolverRuntimeError(t *testing.T) {
	r, err := NewLuaResolverFromSource(`function resolve(buf) error("boom") end`)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if _, err := r.Resolve(core.BufferID(1)); err == nil {
		t.Error("runtime error not propagated")
	}
}

func TestLuaResolverClosed(t *testing.T) {
	r, err := NewLuaResolverFromSource(`function resolve(buf) return nil end`)
	if err != nil {
		t.Fatal(err)
	}
	r.Close()
	r.Close() // idempotent
	if _, err := r.Resolve(core.BufferID(1)); !errors.Is(err, ErrResolverClosed) {
		t.Errorf("error = %v, want ErrResolverClosed", err)
	}
}

// Hook failures degrade to "no overrides" so a broken user script never
// breaks rendering.
func TestLuaBufferFuncDegradesOnError(t *testing.T) {
	r, err := NewLuaResolverFromSource(`function resolve(buf) error("boom") end`)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	var reported error
	fn := r.BufferFunc(func(err error) { reported = err })
	if m := fn(core.BufferID(1)); m != nil {
		t.Errorf("BufferFunc returned %v on error, want nil", m)
	}
	if reported == nil {
		t.Error("error callback not invoked")
	}
}

func TestLuaResolverFeedsResolver(t *testing.T) {
	lr, err := NewLuaResolverFromSource(`
function resolve(buf)
	if buf == 5 then
		return { max_indent_level = 3 }
	end
	return nil
end
`)
	if err != nil {
		t.Fatal(err)
	}
	defer lr.Close()

	r := NewResolver(WithBufferFunc(lr.BufferFunc(nil)))
	if got := r.Options(core.BufferID(5)).MaxIndentLevel; got != 3 {
		t.Errorf("MaxIndentLevel = %d, want 3", got)
	}
	if got := r.Options(core.BufferID(6)).MaxIndentLevel; got != Defaults().MaxIndentLevel {
		t.Errorf("unmatched buffer got %d, want default", got)
	}
}

func TestTableToMapSkipsNonStringKeys(t *testing.T) {
	r, err := NewLuaResolverFromSource(`
function resolve(buf)
	return { shiftwidth = 2, [1] = "positional", nested = { a = 1.5 } }
end
`)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	m, err := r.Resolve(core.BufferID(1))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m["1"]; ok {
		t.Error("positional key converted")
	}
	nested, ok := m["nested"].(map[string]any)
	if !ok {
		t.Fatalf("nested = %v (%T), want map", m["nested"], m["nested"])
	}
	if nested["a"] != 1.5 {
		t.Errorf("nested fractional = %v, want 1.5", nested["a"])
	}
}
