// Package indent computes and caches per-line indentation widths.
// Indents are derived purely from leading whitespace, which keeps the
// cost of a lookup independent of file type or syntax state.
package indent

import "math"

// Indent is the leading-whitespace width of a line in screen columns.
type Indent int

// Blank marks a line that is empty or contains only whitespace. Blank
// sorts above every real indent, so scope searches always defer blank
// lines to their non-blank neighbors.
const Blank Indent = math.MaxInt32

// IsBlank returns true for the blank-line sentinel.
func (i Indent) IsBlank() bool {
	return i == Blank
}

// Round returns i rounded down to a multiple of step. Blank is preserved.
func (i Indent) Round(step int) Indent {
	if i.IsBlank() || step <= 0 {
		return i
	}
	return i - i%Indent(step)
}

// Columns returns the indent as a plain column count. Blank maps to 0.
func (i Indent) Columns() int {
	if i.IsBlank() {
		return 0
	}
	return int(i)
}

// Of computes the indent of a single line of text. Each tab advances by
// shiftwidth columns, each space by one. A line with no non-whitespace
// content yields Blank.
func Of(text string, shiftwidth int) Indent {
	cols := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case ' ':
			cols++
		case '\t':
			cols += shiftwidth
		default:
			return Indent(cols)
		}
	}
	return Blank
}
