// Package scope derives the indentation scope enclosing a line: the
// contiguous range between two contain lines plus the indent column that
// represents the block's nesting level. Scope selection uses only
// whitespace-derived indents, never syntax.
package scope

import (
	"github.com/dshills/indentguide/internal/contain"
	"github.com/dshills/indentguide/internal/indent"
	"github.com/dshills/indentguide/internal/region"
)

// maxBlankDepth caps the blank-line recursion in IndentScope. Each step
// moves strictly toward a non-blank neighbor so a cycle is impossible,
// but buffer size is otherwise the only bound.
const maxBlankDepth = 64

// Range is the resolved scope of a line: inclusive bounds strictly
// inside the two contain lines, plus the indent column to highlight.
type Range struct {
	Lines  region.LineRange
	Indent int
}

// Resolver answers scope queries on top of an indent cache and contain
// index pair.
type Resolver struct {
	cache       *indent.Cache
	index       *contain.Index
	policy      Policy
	maxIncrease int
}

// NewResolver creates a resolver. maxIncrease is the strict policy's
// widening budget in indent steps; values below 1 are clamped to 1.
func NewResolver(cache *indent.Cache, index *contain.Index, policy Policy, maxIncrease int) *Resolver {
	if maxIncrease < 1 {
		maxIncrease = 1
	}
	return &Resolver{
		cache:       cache,
		index:       index,
		policy:      policy,
		maxIncrease: maxIncrease,
	}
}

// IndentScope finds the contain lines bracketing line. A blank line
// inherits the scope of whichever adjacent block is deeper, since that
// is almost always the block it visually belongs to; ties prefer the
// downward neighbor. The last return is false when neither direction
// yields a contain line.
func (r *Resolver) IndentScope(line int) (prev, next contain.Result, ok bool) {
	return r.indentScope(line, 0)
}

func (r *Resolver) indentScope(line, depth int) (contain.Result, contain.Result, bool) {
	prev := r.index.Prev(line)
	next := r.index.Next(line)

	if iv, inRange := r.cache.Get(line); inRange && iv.IsBlank() && depth < maxBlankDepth {
		switch {
		case prev.Found && next.Found:
			if next.Indent >= prev.Indent {
				return r.indentScope(next.Line, depth+1)
			}
			return r.indentScope(prev.Line, depth+1)
		case next.Found:
			return r.indentScope(next.Line, depth+1)
		case prev.Found:
			return r.indentScope(prev.Line, depth+1)
		default:
			return prev, next, false
		}
	}

	if !prev.Found && !next.Found {
		return prev, next, false
	}
	return prev, next, true
}

// CursorScope resolves the scope the cursor on line logically belongs
// to. It first selects a base line by comparing the rounded indents of
// the line and its neighbors, then brackets the base with contain lines.
// The returned range always satisfies Start <= End.
func (r *Resolver) CursorScope(line int) (Range, bool) {
	sw := r.cache.Shiftwidth()
	prev := r.roundedAt(line - 1)
	cur := r.roundedAt(line)
	next := r.roundedAt(line + 1)

	var base int
	var baseIndent indent.Indent
	switch {
	case prev <= cur && next <= cur:
		// Local plateau, opener, or closer: the line speaks for itself.
		base, baseIndent = line, r.indentAt(line)
	case next > cur && (next <= prev || prev <= cur):
		// The line just above a deeper child block.
		base, baseIndent = line+1, r.indentAt(line+1)
	case prev >= cur:
		base, baseIndent = line-1, r.indentAt(line-1)
	default:
		// Outermost level; nothing encloses the cursor.
		return Range{}, false
	}

	cPrev, cNext, ok := r.indentScope(base, 0)
	if !ok {
		return Range{}, false
	}

	if baseIndent.IsBlank() {
		baseIndent = neighborIndent(cPrev, cNext)
	}

	start := cPrev.Line + 1
	end := cNext.Line - 1
	hi := int(baseIndent.Round(sw)) - sw
	if hi < 0 {
		hi = 0
	}

	if r.policy == PolicyStrict {
		prevCols := indent.Indent(0)
		if cPrev.Found {
			prevCols = cPrev.Indent.Round(sw)
		}
		if int(baseIndent.Round(sw)) > int(prevCols)+r.maxIncrease*sw {
			// A jump deeper than the budget: include the closing
			// contain line and highlight at the outer level instead.
			end = cNext.Line
			hi = int(prevCols)
		}
	}

	if start > end {
		return Range{}, false
	}
	return Range{Lines: region.LineRange{Start: start, End: end}, Indent: hi}, true
}

// roundedAt returns the indent of line rounded down to a shiftwidth
// multiple, with out-of-range lines treated as indent zero.
func (r *Resolver) roundedAt(line int) indent.Indent {
	return r.indentAt(line).Round(r.cache.Shiftwidth())
}

// indentAt returns the indent of line, with out-of-range lines treated
// as indent zero.
func (r *Resolver) indentAt(line int) indent.Indent {
	iv, ok := r.cache.Get(line)
	if !ok {
		return 0
	}
	return iv
}

// neighborIndent substitutes a blank base indent with the larger of the
// two contain-line indents.
func neighborIndent(prev, next contain.Result) indent.Indent {
	switch {
	case prev.Found && next.Found:
		if next.Indent >= prev.Indent {
			return next.Indent
		}
		return prev.Indent
	case next.Found:
		return next.Indent
	case prev.Found:
		return prev.Indent
	default:
		return 0
	}
}
