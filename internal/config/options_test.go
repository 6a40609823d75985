package config

import (
	"errors"
	"testing"

	"github.com/dshills/indentguide/internal/scope"
)

func TestDefaults(t *testing.T) {
	o := Defaults()
	if !o.Enabled {
		t.Error("Enabled should default to true")
	}
	if o.Shiftwidth != 4 {
		t.Errorf("Shiftwidth = %d, want 4", o.Shiftwidth)
	}
	if o.Glyph != "│" {
		t.Errorf("Glyph = %q, want %q", o.Glyph, "│")
	}
	if o.ScopePolicy != scope.PolicyRelaxed {
		t.Errorf("ScopePolicy = %v, want relaxed", o.ScopePolicy)
	}
	if o.MaxIndentLevel <= 0 || o.MaxIncreaseLevel <= 0 {
		t.Errorf("level bounds must be positive, got %d/%d", o.MaxIndentLevel, o.MaxIncreaseLevel)
	}
}

func TestApplyOverlaysKeys(t *testing.T) {
	o := Defaults()
	errs := o.apply(map[string]any{
		"enabled":                 false,
		"shiftwidth":              int64(2),
		"overscan":                float64(50),
		"skip_first_indent":       true,
		"glyph":                   "¦",
		"glyph_highlight":         "Whitespace",
		"show_cursor_scope":       false,
		"cursor_scope_highlight":  "CursorLine",
		"auto_clear_cursor_scope": false,
		"priority":                -5,
		"max_indent_level":        8,
		"max_increase_level":      3,
		"scope_policy":            "strict",
	})
	if len(errs) != 0 {
		t.Fatalf("apply returned errors: %v", errs)
	}
	if o.Enabled || o.Shiftwidth != 2 || o.Overscan != 50 {
		t.Errorf("numeric keys not applied: %+v", o)
	}
	if !o.SkipFirstIndent || o.Glyph != "¦" || o.GlyphHighlight != "Whitespace" {
		t.Errorf("glyph keys not applied: %+v", o)
	}
	if o.ShowCursorScope || o.CursorScopeHighlight != "CursorLine" || o.AutoClearCursorScope {
		t.Errorf("scope keys not applied: %+v", o)
	}
	if o.Priority != -5 || o.MaxIndentLevel != 8 || o.MaxIncreaseLevel != 3 {
		t.Errorf("level keys not applied: %+v", o)
	}
	if o.ScopePolicy != scope.PolicyStrict {
		t.Errorf("ScopePolicy = %v, want strict", o.ScopePolicy)
	}
}

// Rejected values keep the value from the layer below and are reported.
func TestApplyRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		m    map[string]any
	}{
		{"shiftwidth zero", map[string]any{"shiftwidth": 0}},
		{"shiftwidth negative", map[string]any{"shiftwidth": -4}},
		{"shiftwidth wrong type", map[string]any{"shiftwidth": "four"}},
		{"shiftwidth fractional", map[string]any{"shiftwidth": 2.5}},
		{"overscan negative", map[string]any{"overscan": -1}},
		{"enabled wrong type", map[string]any{"enabled": 1}},
		{"glyph empty", map[string]any{"glyph": ""}},
		{"glyph wide", map[string]any{"glyph": "ab"}},
		{"glyph double cell", map[string]any{"glyph": "世"}},
		{"highlight empty", map[string]any{"glyph_highlight": ""}},
		{"max_indent_level zero", map[string]any{"max_indent_level": 0}},
		{"policy unknown", map[string]any{"scope_policy": "loose"}},
		{"policy wrong type", map[string]any{"scope_policy": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Defaults()
			errs := o.apply(tt.m)
			if len(errs) != 1 {
				t.Fatalf("apply() returned %d errors, want 1", len(errs))
			}
			var ve *ValueError
			if !errors.As(errs[0], &ve) {
				t.Fatalf("error %v is not a *ValueError", errs[0])
			}
			if o != Defaults() {
				t.Errorf("rejected value mutated options: %+v", o)
			}
		})
	}
}

func TestApplyIgnoresUnknownKeys(t *testing.T) {
	o := Defaults()
	if errs := o.apply(map[string]any{"no_such_key": true}); len(errs) != 0 {
		t.Errorf("unknown key produced errors: %v", errs)
	}
	if o != Defaults() {
		t.Errorf("unknown key mutated options: %+v", o)
	}
}

func TestAsInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
		ok   bool
	}{
		{3, 3, true},
		{int64(7), 7, true},
		{float64(12), 12, true},
		{2.5, 0, false},
		{"3", 0, false},
		{true, 0, false},
	}
	for _, tt := range tests {
		got, ok := asInt(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("asInt(%v) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
