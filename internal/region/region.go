// Package region provides inclusive buffer line ranges and the diffing
// used to turn a cursor-scope change into the minimal set of host redraw
// requests.
package region

// LineRange is an inclusive range of 0-based buffer lines.
type LineRange struct {
	Start int
	End   int
}

// New creates a range, swapping the bounds if reversed.
func New(start, end int) LineRange {
	if end < start {
		start, end = end, start
	}
	return LineRange{Start: start, End: end}
}

// IsEmpty returns true if the range covers no lines.
func (r LineRange) IsEmpty() bool {
	return r.Start > r.End
}

// LineCount returns the number of lines covered.
func (r LineRange) LineCount() int {
	if r.IsEmpty() {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains returns true if the range covers line.
func (r LineRange) Contains(line int) bool {
	return line >= r.Start && line <= r.End
}

// Overlaps returns true if the two ranges share at least one line.
func (r LineRange) Overlaps(other LineRange) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return r.Start <= other.End && other.Start <= r.End
}

// Union returns the smallest range covering both.
func (r LineRange) Union(other LineRange) LineRange {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	out := r
	if other.Start < out.Start {
		out.Start = other.Start
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

// Equals returns true if the ranges are identical.
func (r LineRange) Equals(other LineRange) bool {
	return r.Start == other.Start && r.End == other.End
}

// Diff computes the minimal redraw set for a scope transition. Absent
// sides are flagged false. The result is nil when nothing changed, one
// range when the scopes overlap (their union) or only one side exists,
// and two ranges when old and new are disjoint.
func Diff(old, new LineRange, hadOld, haveNew bool) []LineRange {
	switch {
	case !hadOld && !haveNew:
		return nil
	case hadOld && !haveNew:
		return []LineRange{old}
	case !hadOld && haveNew:
		return []LineRange{new}
	case old.Equals(new):
		return nil
	case old.Overlaps(new):
		return []LineRange{old.Union(new)}
	default:
		return []LineRange{old, new}
	}
}
