// Package contain locates the structural boundaries of indentation
// blocks: for a reference line, the nearest line in a given direction
// whose indent is strictly smaller. Results are memoized as per-line
// pointers so that repeat queries into an already-searched region
// resolve in O(1) scan steps.
package contain

import (
	"github.com/dshills/indentguide/internal/indent"
)

// Direction selects which way a contain search scans.
type Direction int8

const (
	// Up scans toward the start of the buffer.
	Up Direction = -1

	// Down scans toward the end of the buffer.
	Down Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// BoundaryAbove is the pointer value for a scan that left the top of the
// buffer. Scans that leave the bottom point at the line count.
const BoundaryAbove = -1

// Result is the outcome of a contain search.
type Result struct {
	// Line is the contain line, or a boundary sentinel when Found is
	// false (BoundaryAbove going up, the line count going down).
	Line int

	// Indent is the contain line's indent. Only valid when Found.
	Indent indent.Indent

	// Found is false when the scan reached the buffer boundary without
	// finding a strictly smaller indent.
	Found bool
}

// Stats counts the work performed by an index, for diagnostics and for
// verifying the pointer-compression behavior.
type Stats struct {
	// ScanSteps is the number of lines visited across all searches,
	// counting a pointer shortcut as a single step.
	ScanSteps int

	// MemoHits is the number of times a memoized pointer answered a
	// query or shortcut a scan.
	MemoHits int

	// Resolved is the number of pointers memoized so far.
	Resolved int
}

// pending is a stack entry awaiting its contain line.
type pending struct {
	indent indent.Indent
	line   int
}

// Index memoizes contain pointers per line per direction on top of an
// indent cache. Pointers are valid only against the indent snapshot they
// were computed from; Reset both together.
type Index struct {
	cache *indent.Cache
	up    map[int]int
	down  map[int]int
	stats Stats
}

// NewIndex creates an index over the given indent cache.
func NewIndex(cache *indent.Cache) *Index {
	return &Index{
		cache: cache,
		up:    make(map[int]int),
		down:  make(map[int]int),
	}
}

// Prev finds the nearest line above with strictly smaller indent.
func (x *Index) Prev(line int) Result {
	return x.Find(line, Up)
}

// Next finds the nearest line below with strictly smaller indent.
func (x *Index) Next(line int) Result {
	return x.Find(line, Down)
}

// Find locates the first line in dir whose indent is strictly smaller
// than line's. A query that cannot resolve (line out of range, or the
// scan hits the buffer boundary) returns Found false, never an error.
//
// The search keeps a stack of lines still awaiting their contain line.
// Every visited line pops and resolves all deeper pending entries in one
// pass, so each line's pointer is computed at most once per direction.
func (x *Index) Find(line int, dir Direction) Result {
	seed, ok := x.cache.Get(line)
	if !ok {
		return Result{Line: x.boundary(dir, line), Found: false}
	}

	memo := x.table(dir)
	if p, hit := memo[line]; hit {
		x.stats.MemoHits++
		return x.lookup(p)
	}

	stack := []pending{{indent: seed, line: line}}
	pos := line

	for len(stack) > 0 {
		// A resolved pointer on the top entry skips every line that
		// could not satisfy anything still pending.
		next := pos + int(dir)
		if p, hit := memo[stack[len(stack)-1].line]; hit {
			next = p
			x.stats.MemoHits++
		}
		x.stats.ScanSteps++

		iv, inRange := x.cache.Get(next)
		if !inRange {
			// Boundary: everything still pending resolves to it.
			b := x.boundary(dir, next)
			for _, e := range stack {
				memo[e.line] = b
				x.stats.Resolved++
			}
			break
		}

		for len(stack) > 0 && stack[len(stack)-1].indent > iv {
			memo[stack[len(stack)-1].line] = next
			x.stats.Resolved++
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			stack = append(stack, pending{indent: iv, line: next})
		}
		pos = next
	}

	return x.lookup(memo[line])
}

// Reset discards all memoized pointers and counters. Call whenever the
// underlying indent cache is reset.
func (x *Index) Reset() {
	x.up = make(map[int]int)
	x.down = make(map[int]int)
	x.stats = Stats{}
}

// Stats returns cumulative search counters.
func (x *Index) Stats() Stats {
	return x.stats
}

// lookup builds a Result for a memoized pointer value. Boundary pointers
// fail the indent fetch and come back not-found.
func (x *Index) lookup(p int) Result {
	iv, ok := x.cache.Get(p)
	if !ok {
		return Result{Line: p, Found: false}
	}
	return Result{Line: p, Indent: iv, Found: true}
}

func (x *Index) table(dir Direction) map[int]int {
	if dir == Up {
		return x.up
	}
	return x.down
}

// boundary returns the sentinel pointer for a scan leaving the buffer at
// or past probe.
func (x *Index) boundary(dir Direction, probe int) int {
	if dir == Up {
		return BoundaryAbove
	}
	if n := x.cache.LineCount(); n >= 0 {
		return n
	}
	return probe
}
