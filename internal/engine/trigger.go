package engine

import (
	"fmt"
	"os"
	"sync"

	"github.com/dshills/indentguide/internal/core"
)

// Context identifies where a callback failure happened.
type Context struct {
	// Pass names the callback: "buffer", "viewport", or "line".
	Pass string

	// Buffer and Window are the host identifiers in play.
	Buffer core.BufferID
	Window core.WindowID

	// Line is the line being drawn, or -1 outside a line pass.
	Line int

	// Stack is the goroutine stack captured at the failure point.
	Stack []byte
}

// Reporter receives the single failure report of a session.
type Reporter interface {
	Report(err error, ctx Context)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(err error, ctx Context)

// Report implements Reporter.
func (f ReporterFunc) Report(err error, ctx Context) {
	f(err, ctx)
}

// Trigger is a one-shot failure gate. The first Fire delivers the error
// to the reporter; every later Fire is swallowed for the remainder of
// the session. This keeps a failure inside the redraw loop from
// flooding the host with one report per drawn line, at the accepted
// cost of hiding later distinct failures.
type Trigger struct {
	mu       sync.Mutex
	fired    bool
	reporter Reporter
}

// NewTrigger creates a trigger delivering to reporter. A nil reporter
// falls back to stderr.
func NewTrigger(reporter Reporter) *Trigger {
	if reporter == nil {
		reporter = stderrReporter{}
	}
	return &Trigger{reporter: reporter}
}

// Fire reports err unless the trigger already fired. It returns true
// when this call delivered the report.
func (t *Trigger) Fire(err error, ctx Context) bool {
	t.mu.Lock()
	if t.fired {
		t.mu.Unlock()
		return false
	}
	t.fired = true
	reporter := t.reporter
	t.mu.Unlock()

	reporter.Report(err, ctx)
	return true
}

// Fired reports whether the trigger has delivered its report.
func (t *Trigger) Fired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}

// stderrReporter is the default failure destination.
type stderrReporter struct{}

func (stderrReporter) Report(err error, ctx Context) {
	fmt.Fprintf(os.Stderr, "indentguide: %s pass failed (buf=%d win=%d line=%d): %v\n%s",
		ctx.Pass, ctx.Buffer, ctx.Window, ctx.Line, err, ctx.Stack)
}
