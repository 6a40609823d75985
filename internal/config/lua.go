package config

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/indentguide/internal/core"
)

// resolveFn is the global the Lua chunk must define.
const resolveFn = "resolve"

// LuaResolver runs a user-supplied Lua hook that returns per-buffer
// option overrides. The chunk must define a global
//
//	function resolve(buf) ... end
//
// returning a table of option keys, or nil for no overrides. The state
// is sandboxed: only the base, table, string, and math libraries are
// opened, and Resolve is serialized because a single LState is not
// goroutine safe.
type LuaResolver struct {
	mu     sync.Mutex
	state  *lua.LState
	closed bool
}

// NewLuaResolver loads the Lua chunk at path.
func NewLuaResolver(path string) (*LuaResolver, error) {
	r := newLuaState()
	if err := r.state.DoFile(path); err != nil {
		r.Close()
		return nil, fmt.Errorf("loading lua resolver %s: %w", path, err)
	}
	return r.checkHook()
}

// NewLuaResolverFromSource loads a Lua chunk from a string.
func NewLuaResolverFromSource(src string) (*LuaResolver, error) {
	r := newLuaState()
	if err := r.state.DoString(src); err != nil {
		r.Close()
		return nil, fmt.Errorf("loading lua resolver: %w", err)
	}
	return r.checkHook()
}

func newLuaState() *LuaResolver {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(open.fn))
		L.Push(lua.LString(open.name))
		L.Call(1, 0)
	}
	return &LuaResolver{state: L}
}

func (r *LuaResolver) checkHook() (*LuaResolver, error) {
	if _, ok := r.state.GetGlobal(resolveFn).(*lua.LFunction); !ok {
		r.Close()
		return nil, ErrNoResolveFn
	}
	return r, nil
}

// Resolve calls the hook for buf and converts its table result.
func (r *LuaResolver) Resolve(buf core.BufferID) (map[string]any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrResolverClosed
	}

	fn, ok := r.state.GetGlobal(resolveFn).(*lua.LFunction)
	if !ok {
		return nil, ErrNoResolveFn
	}

	err := r.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(buf))
	if err != nil {
		return nil, fmt.Errorf("lua resolve(%d): %w", buf, err)
	}

	ret := r.state.Get(-1)
	r.state.Pop(1)

	switch v := ret.(type) {
	case *lua.LNilType:
		return nil, nil
	case *lua.LTable:
		return tableToMap(v), nil
	default:
		return nil, fmt.Errorf("lua resolve(%d): want table or nil, got %s", buf, ret.Type())
	}
}

// BufferFunc adapts the resolver to the Resolver's per-buffer layer.
// Hook errors degrade to no overrides; onErr, when non-nil, observes
// them.
func (r *LuaResolver) BufferFunc(onErr func(error)) BufferFunc {
	return func(buf core.BufferID) map[string]any {
		m, err := r.Resolve(buf)
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return nil
		}
		return m
	}
}

// Close releases the Lua state.
func (r *LuaResolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.state.Close()
}

// tableToMap converts a Lua table to the map shape the option layers
// use. Nested tables convert recursively; functions and userdata are
// dropped.
func tableToMap(t *lua.LTable) map[string]any {
	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok {
			return
		}
		if gv := toGoValue(v); gv != nil {
			m[string(key)] = gv
		}
	})
	return m
}

func toGoValue(lv lua.LValue) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		return tableToMap(v)
	default:
		return nil
	}
}
