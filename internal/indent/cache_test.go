package indent

import "testing"

// sliceSource serves lines from a slice and counts fetches.
type sliceSource struct {
	lines []string
	calls int
}

func (s *sliceSource) Lines(start, end int) []string {
	s.calls++
	if start < 0 || start >= len(s.lines) {
		return nil
	}
	if end > len(s.lines) {
		end = len(s.lines)
	}
	return s.lines[start:end]
}

func testLines() []string {
	return []string{
		"def f():",
		"    x = 1",
		"    y = 2",
		"",
		"    z = 3",
	}
}

func TestCacheGet(t *testing.T) {
	src := &sliceSource{lines: testLines()}
	c := NewCache(src, 4, 2)

	got, ok := c.Get(1)
	if !ok {
		t.Fatal("Get(1) reported out of range")
	}
	if got != 4 {
		t.Errorf("Get(1) = %v, want 4", got)
	}

	if got, ok := c.Get(3); !ok || !got.IsBlank() {
		t.Errorf("Get(3) = %v, %v, want Blank, true", got, ok)
	}
}

func TestCacheGetIdempotent(t *testing.T) {
	src := &sliceSource{lines: testLines()}
	c := NewCache(src, 4, 3)

	first, ok := c.Get(2)
	if !ok {
		t.Fatal("Get(2) reported out of range")
	}
	calls := src.calls

	for i := 0; i < 5; i++ {
		again, ok := c.Get(2)
		if !ok || again != first {
			t.Fatalf("repeat Get(2) = %v, %v, want %v, true", again, ok, first)
		}
	}
	if src.calls != calls {
		t.Errorf("repeat Get hit the source %d extra times", src.calls-calls)
	}
}

func TestCacheOverscanWindow(t *testing.T) {
	src := &sliceSource{lines: testLines()}
	c := NewCache(src, 4, 3)

	if _, ok := c.Get(0); !ok {
		t.Fatal("Get(0) reported out of range")
	}
	// Lines 0-2 were fetched in one window.
	for line := 0; line <= 2; line++ {
		if !c.Cached(line) {
			t.Errorf("line %d not cached after overscan fetch", line)
		}
	}
	if src.calls != 1 {
		t.Errorf("overscan fetch hit the source %d times, want 1", src.calls)
	}
}

func TestCacheOutOfRange(t *testing.T) {
	src := &sliceSource{lines: testLines()}
	c := NewCache(src, 4, 2)

	if _, ok := c.Get(-1); ok {
		t.Error("Get(-1) should report out of range")
	}
	if _, ok := c.Get(99); ok {
		t.Error("Get(99) should report out of range")
	}
	// A far probe pins a provisional end; an in-range short read
	// corrects it downward.
	if c.LineCount() != 99 {
		t.Errorf("LineCount() = %d after far probe, want provisional 99", c.LineCount())
	}
	if _, ok := c.Get(4); !ok {
		t.Fatal("Get(4) reported out of range")
	}
	if c.LineCount() != 5 {
		t.Errorf("LineCount() = %d after tail read, want 5", c.LineCount())
	}
}

func TestCacheShortReadPinsLineCount(t *testing.T) {
	src := &sliceSource{lines: testLines()}
	c := NewCache(src, 4, 10)

	if _, ok := c.Get(3); !ok {
		t.Fatal("Get(3) reported out of range")
	}
	if c.LineCount() != 5 {
		t.Errorf("LineCount() = %d, want 5", c.LineCount())
	}
	// Anything at or past the discovered end misses without a fetch.
	calls := src.calls
	if _, ok := c.Get(5); ok {
		t.Error("Get(5) should report out of range")
	}
	if src.calls != calls {
		t.Error("Get past discovered end should not hit the source")
	}
}

func TestCacheReset(t *testing.T) {
	src := &sliceSource{lines: testLines()}
	c := NewCache(src, 4, 2)

	if _, ok := c.Get(1); !ok {
		t.Fatal("Get(1) reported out of range")
	}
	c.Reset()

	if c.Cached(1) {
		t.Error("line 1 still cached after Reset")
	}
	if c.LineCount() != -1 {
		t.Errorf("LineCount() = %d after Reset, want -1", c.LineCount())
	}

	src.lines = []string{"a", "  b"}
	if got, ok := c.Get(1); !ok || got != 2 {
		t.Errorf("Get(1) after Reset = %v, %v, want 2, true", got, ok)
	}
}

func TestCacheClampsArguments(t *testing.T) {
	src := &sliceSource{lines: testLines()}
	c := NewCache(src, 0, -5)
	if c.Shiftwidth() != 1 {
		t.Errorf("Shiftwidth() = %d, want clamp to 1", c.Shiftwidth())
	}
	if _, ok := c.Get(0); !ok {
		t.Error("Get(0) with zero overscan should still fetch one line")
	}
}
