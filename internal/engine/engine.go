// Package engine drives indent-guide rendering from the host's redraw
// callbacks. It decides per viewport what to recompute, per line which
// glyphs to emit, and diffs cursor scopes so the host redraws the
// smallest possible region. The engine never calls host primitives
// directly; everything flows through the interfaces in internal/core.
package engine

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/dshills/indentguide/internal/config"
	"github.com/dshills/indentguide/internal/contain"
	"github.com/dshills/indentguide/internal/core"
	"github.com/dshills/indentguide/internal/indent"
	"github.com/dshills/indentguide/internal/region"
	"github.com/dshills/indentguide/internal/scope"
	"github.com/dshills/indentguide/internal/state"
)

// Errors returned by engine setup.
var (
	// ErrMissingCollaborator indicates a required host interface is nil.
	ErrMissingCollaborator = errors.New("missing collaborator")

	// ErrAlreadyStarted indicates Start was called twice.
	ErrAlreadyStarted = errors.New("engine already started")
)

// State is the engine lifecycle state.
type State uint8

const (
	// StatePreSetup is the state before Start. Callbacks are ignored.
	StatePreSetup State = iota

	// StateNormal is the running state.
	StateNormal

	// StateError is terminal: entered on the first callback failure.
	// Callbacks keep running, but further failures go unreported.
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePreSetup:
		return "pre-setup"
	case StateNormal:
		return "normal"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Stats counts engine work for one session.
type Stats struct {
	ViewportPasses int
	LinePasses     int
	Redraws        int
	Clears         int
	GlyphsDrawn    int
}

// Engine is the redraw scheduler. All On* callbacks must run on the
// host's single redraw-driving goroutine; they are never safe to call
// concurrently.
type Engine struct {
	cfg    *config.Resolver
	src    core.LineSource
	sink   core.OverlaySink
	redraw core.Redrawer

	registry  *state.Registry
	trigger   *Trigger
	lifecycle State
	stats     Stats
}

// Option configures an Engine.
type Option func(*Engine)

// WithReporter sets the destination of the session's single failure
// report. Tests inject a counting reporter here.
func WithReporter(r Reporter) Option {
	return func(e *Engine) { e.trigger = NewTrigger(r) }
}

// New creates an engine in the pre-setup state.
func New(cfg *config.Resolver, src core.LineSource, sink core.OverlaySink, redraw core.Redrawer, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		src:      src,
		sink:     sink,
		redraw:   redraw,
		registry: state.NewRegistry(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.trigger == nil {
		e.trigger = NewTrigger(nil)
	}
	return e
}

// Start validates the collaborators and moves the engine to normal
// operation.
func (e *Engine) Start() error {
	if e.lifecycle != StatePreSetup {
		return ErrAlreadyStarted
	}
	switch {
	case e.cfg == nil:
		return fmt.Errorf("%w: config resolver", ErrMissingCollaborator)
	case e.src == nil:
		return fmt.Errorf("%w: line source", ErrMissingCollaborator)
	case e.sink == nil:
		return fmt.Errorf("%w: overlay sink", ErrMissingCollaborator)
	case e.redraw == nil:
		return fmt.Errorf("%w: redrawer", ErrMissingCollaborator)
	}
	e.lifecycle = StateNormal
	return nil
}

// Lifecycle returns the current lifecycle state.
func (e *Engine) Lifecycle() State {
	return e.lifecycle
}

// Stats returns the session counters.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Registry exposes the state registry for inspection.
func (e *Engine) Registry() *state.Registry {
	return e.registry
}

// OnBufferEvent consumes a host lifecycle signal.
func (e *Engine) OnBufferEvent(ev core.BufferEvent) {
	if e.lifecycle == StatePreSetup {
		return
	}
	e.protect(Context{Pass: "buffer", Buffer: ev.Buffer, Window: ev.Window, Line: -1}, func() {
		e.bufferEvent(ev)
	})
}

// OnViewportEvent runs the once-per-window-per-cycle pass.
func (e *Engine) OnViewportEvent(vp core.Viewport) {
	if e.lifecycle == StatePreSetup {
		return
	}
	e.protect(Context{Pass: "viewport", Buffer: vp.Buffer, Window: vp.Window, Line: -1}, func() {
		e.viewportPass(vp)
	})
}

// OnLineEvent runs the once-per-visible-line pass.
func (e *Engine) OnLineEvent(win core.WindowID, buf core.BufferID, line int) {
	if e.lifecycle == StatePreSetup {
		return
	}
	e.protect(Context{Pass: "line", Buffer: buf, Window: win, Line: line}, func() {
		e.linePass(win, buf, line)
	})
}

// protect runs fn under the session's one-shot failure gate. A failing
// pass emits nothing for its line or window this round; the next redraw
// starts fresh from current state.
func (e *Engine) protect(ctx Context, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			ctx.Stack = debug.Stack()
			e.trigger.Fire(fmt.Errorf("callback panic: %v", r), ctx)
			if e.lifecycle == StateNormal {
				e.lifecycle = StateError
			}
		}
	}()
	fn()
}

func (e *Engine) bufferEvent(ev core.BufferEvent) {
	switch ev.Kind {
	case core.BufferReloaded:
		// Stale contain pointers are not detectably wrong; both caches
		// must go before any further query.
		if bs, ok := e.registry.Buffer(ev.Buffer); ok {
			bs.Reset()
		}
	case core.BufferClosed:
		e.registry.DropBuffer(ev.Buffer)
	case core.WindowClosed:
		e.registry.DropWindow(ev.Window)
	}
}

// newBuffer builds the cache stack for one buffer.
func (e *Engine) newBuffer(buf core.BufferID, opts config.Options, gen uint64) *state.Buffer {
	cache := indent.NewCache(bufferLines{src: e.src, buf: buf}, opts.Shiftwidth, opts.Overscan)
	index := contain.NewIndex(cache)
	return &state.Buffer{
		Indents: cache,
		Contain: index,
		Scopes:  scope.NewResolver(cache, index, opts.ScopePolicy, opts.MaxIncreaseLevel),
		Opts:    opts,
		OptsGen: gen,
	}
}

// bufferLines adapts the host's buffer-addressed line source to the
// per-buffer source the indent cache expects.
type bufferLines struct {
	src core.LineSource
	buf core.BufferID
}

func (b bufferLines) Lines(start, end int) []string {
	return b.src.Lines(b.buf, start, end)
}

func (e *Engine) viewportPass(vp core.Viewport) {
	e.stats.ViewportPasses++
	opts := e.cfg.Options(vp.Buffer)
	gen := e.cfg.Generation()

	bs := e.registry.EnsureBuffer(vp.Buffer, func() *state.Buffer {
		return e.newBuffer(vp.Buffer, opts, gen)
	})

	if !opts.Enabled {
		// Line passes read the snapshot, so it must go stale-free even
		// on the early return.
		bs.Opts = opts
		if !bs.Cleared {
			e.sink.Clear(vp.Buffer, 0, core.EndOfBuffer)
			e.stats.Clears++
			bs.Cleared = true
			if ws, ok := e.registry.Window(vp.Window); ok {
				ws.DropScope()
			}
		}
		return
	}

	if bs.OptsGen != gen {
		// Options feed the caches (shiftwidth, overscan, policy), so a
		// config change rebuilds the buffer and repaints the viewport.
		fresh := e.newBuffer(vp.Buffer, opts, gen)
		bs.Indents, bs.Contain, bs.Scopes = fresh.Indents, fresh.Contain, fresh.Scopes
		bs.Opts, bs.OptsGen = opts, gen
		e.sink.Clear(vp.Buffer, 0, core.EndOfBuffer)
		e.stats.Clears++
		e.redraw.Redraw(vp.Buffer, vp.TopLine, vp.BottomLine)
		e.stats.Redraws++
	}
	bs.Cleared = false
	bs.Opts = opts

	ws := e.registry.EnsureWindow(vp.Window)
	ws.TopLine = vp.TopLine
	ws.LeftCol = vp.LeftCol

	e.prewarm(bs, vp.TopLine, vp.BottomLine, opts.Overscan)

	if vp.Focused && opts.ShowCursorScope {
		e.updateCursorScope(vp, bs, ws)
		return
	}
	if ws.HasScope && (!opts.ShowCursorScope || opts.AutoClearCursorScope) {
		// A stale highlight in an unfocused window clears with exactly
		// one redraw of its old range.
		e.redraw.Redraw(vp.Buffer, ws.Scope.Start, ws.Scope.End)
		e.stats.Redraws++
		ws.DropScope()
	}
}

// prewarm fetches the estimated visible range into the indent cache.
// The estimate may undershoot; line passes re-fetch on demand.
func (e *Engine) prewarm(bs *state.Buffer, top, bottom, overscan int) {
	step := overscan
	if step < 1 {
		step = 1
	}
	for line := top; line <= bottom; line += step {
		if _, ok := bs.Indents.Get(line); !ok {
			return
		}
	}
}

func (e *Engine) updateCursorScope(vp core.Viewport, bs *state.Buffer, ws *state.Window) {
	next, found := bs.Scopes.CursorScope(vp.CursorLine)

	ranges := region.Diff(ws.Scope, next.Lines, ws.HasScope, found)
	if len(ranges) == 0 && ws.HasScope && found && ws.ScopeIndent != next.Indent {
		// Same lines, different highlighted column: repaint in place.
		ranges = []region.LineRange{next.Lines}
	}
	for _, rg := range ranges {
		e.redraw.Redraw(vp.Buffer, rg.Start, rg.End)
		e.stats.Redraws++
	}

	if found {
		ws.Scope = next.Lines
		ws.ScopeIndent = next.Indent
		ws.HasScope = true
	} else {
		ws.DropScope()
	}
}

func (e *Engine) linePass(win core.WindowID, buf core.BufferID, line int) {
	e.stats.LinePasses++
	bs, ok := e.registry.Buffer(buf)
	if !ok {
		return
	}
	ws, ok := e.registry.Window(win)
	if !ok {
		return
	}
	opts := bs.Opts
	if !opts.Enabled {
		return
	}

	iv, ok := bs.Indents.Get(line)
	if !ok {
		return
	}
	sw := opts.Shiftwidth

	// One step past the previous contain line is as deep as a guide may
	// honestly claim; deeper jumps are capped.
	depthCap := sw
	if prev := bs.Contain.Prev(line); prev.Found {
		depthCap = prev.Indent.Columns() + sw
	}

	blank := iv.IsBlank()
	shown := 0
	if blank {
		if next := bs.Contain.Next(line); next.Found {
			shown = next.Indent.Columns()
		}
	} else {
		shown = int(iv)
	}
	if shown > depthCap {
		shown = depthCap
	}

	// Blank lines keep a guide at their own level too, so a gap reads
	// as part of the surrounding block.
	limit := shown
	if blank {
		limit = shown + 1
	}

	start := 0
	if opts.SkipFirstIndent {
		start = sw
	}
	if blank && shown == 0 {
		// A lone blank line between two top-level statements keeps a
		// guide regardless.
		start = sw
		limit = sw + 1
	}
	if start < ws.LeftCol {
		// First shiftwidth multiple at or beyond the scrolled-out area.
		start = ((ws.LeftCol + sw - 1) / sw) * sw
	}

	scopeActive := ws.HasScope && ws.Scope.Contains(line)
	for col := start; col < limit; col += sw {
		if col/sw >= opts.MaxIndentLevel {
			break
		}
		hl := opts.GlyphHighlight
		if scopeActive && col == ws.ScopeIndent {
			hl = opts.CursorScopeHighlight
		}
		e.sink.Draw(buf, line, col-ws.LeftCol, opts.Glyph, hl, opts.Priority)
		e.stats.GlyphsDrawn++
	}
}
