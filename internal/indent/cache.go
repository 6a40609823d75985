package indent

// LineSource supplies raw buffer lines on demand. It is the cache's only
// view of the buffer; implementations must reflect current content.
type LineSource interface {
	// Lines returns lines [start, end), 0-based. Fewer lines than
	// requested may be returned at the buffer tail.
	Lines(start, end int) []string
}

// Cache lazily memoizes per-line indent values against a fixed buffer
// snapshot. A miss fetches a bounded overscan window from the source and
// caches every fetched line, so nearby lookups stay cheap.
type Cache struct {
	src        LineSource
	shiftwidth int
	overscan   int

	indents map[int]Indent

	// lineCount is the discovered end of buffer, -1 while unknown.
	// A fetch that comes back short pins it.
	lineCount int
}

// NewCache creates an indent cache over the given source.
// Shiftwidth is clamped to a minimum of 1, overscan to a minimum of 0.
func NewCache(src LineSource, shiftwidth, overscan int) *Cache {
	if shiftwidth < 1 {
		shiftwidth = 1
	}
	if overscan < 0 {
		overscan = 0
	}
	return &Cache{
		src:        src,
		shiftwidth: shiftwidth,
		overscan:   overscan,
		indents:    make(map[int]Indent),
		lineCount:  -1,
	}
}

// Shiftwidth returns the shiftwidth indents are computed against.
func (c *Cache) Shiftwidth() int {
	return c.shiftwidth
}

// Get returns the indent of line, fetching and caching an overscan window
// on a miss. The second return is false when line is out of range.
func (c *Cache) Get(line int) (Indent, bool) {
	if line < 0 {
		return 0, false
	}
	if c.lineCount >= 0 && line >= c.lineCount {
		return 0, false
	}
	if iv, ok := c.indents[line]; ok {
		return iv, true
	}

	want := c.overscan
	if want < 1 {
		want = 1
	}
	end := line + want
	if c.lineCount >= 0 && end > c.lineCount {
		end = c.lineCount
	}

	got := c.src.Lines(line, end)
	for i, text := range got {
		c.indents[line+i] = Of(text, c.shiftwidth)
	}
	if len(got) < end-line {
		// Short read: the buffer ends here.
		c.lineCount = line + len(got)
	}

	iv, ok := c.indents[line]
	return iv, ok
}

// LineCount returns the discovered line count, or -1 while unknown.
func (c *Cache) LineCount() int {
	return c.lineCount
}

// Cached reports whether line's indent is already memoized.
func (c *Cache) Cached(line int) bool {
	_, ok := c.indents[line]
	return ok
}

// Reset discards all cached indents and the discovered line count.
// Callers must reset any contain-pointer tables built on this cache at
// the same time; pointers encode indent relationships, not raw text.
func (c *Cache) Reset() {
	c.indents = make(map[int]Indent)
	c.lineCount = -1
}
