// Package core provides shared identifier and host-facing types for the
// guide engine. This package breaks import cycles between the engine and
// the packages it coordinates.
package core

// BufferID identifies a buffer in the host editor.
type BufferID int

// WindowID identifies a window in the host editor.
type WindowID int

// Viewport describes one window's visible slice of a buffer for a single
// redraw cycle.
type Viewport struct {
	// Window is the window being drawn.
	Window WindowID

	// Buffer is the buffer displayed in the window.
	Buffer BufferID

	// TopLine is the first visible buffer line (0-based).
	TopLine int

	// BottomLine is the estimated last visible buffer line (inclusive).
	// Hosts with folding may report an underestimate; consumers must
	// tolerate lines beyond it.
	BottomLine int

	// LeftCol is the horizontal scroll offset in screen columns.
	LeftCol int

	// CursorLine is the buffer line holding the cursor. Only meaningful
	// when Focused is true.
	CursorLine int

	// Focused indicates this window holds the cursor.
	Focused bool
}

// LineSource supplies raw buffer text on demand. Implementations must
// reflect current buffer content and are never mutated by the engine.
type LineSource interface {
	// Lines returns the lines [start, end) of the buffer, 0-based.
	// Fewer lines than requested may be returned at the buffer tail;
	// an empty result means start is at or past the end.
	Lines(buf BufferID, start, end int) []string
}

// OverlaySink receives glyph draw and clear instructions. Draw calls are
// additive and idempotent within one redraw cycle.
type OverlaySink interface {
	// Draw places a single guide glyph at a screen column of a line.
	Draw(buf BufferID, line, col int, glyph, highlight string, priority int)

	// Clear removes previously drawn glyphs on the inclusive line range.
	// An end of EndOfBuffer clears through the last line.
	Clear(buf BufferID, start, end int)
}

// Redrawer asks the host to redraw an inclusive line range. The host is
// expected to re-invoke the engine's line callbacks for that range.
type Redrawer interface {
	Redraw(buf BufferID, start, end int)
}

// EndOfBuffer is the range end meaning "through the last line".
const EndOfBuffer = -1

// BufferEventKind enumerates lifecycle signals consumed by the engine.
type BufferEventKind uint8

const (
	// BufferReloaded indicates buffer content was replaced wholesale.
	// Cached indent data for the buffer must be discarded.
	BufferReloaded BufferEventKind = iota

	// BufferClosed indicates the buffer was closed.
	BufferClosed

	// WindowClosed indicates a window was closed.
	WindowClosed
)

// String returns the event kind name.
func (k BufferEventKind) String() string {
	switch k {
	case BufferReloaded:
		return "reloaded"
	case BufferClosed:
		return "buffer-closed"
	case WindowClosed:
		return "window-closed"
	default:
		return "unknown"
	}
}

// BufferEvent is a lifecycle signal from the host.
type BufferEvent struct {
	Kind   BufferEventKind
	Buffer BufferID
	Window WindowID
}
