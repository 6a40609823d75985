// Package config resolves the guide engine's options from layered
// sources: built-in defaults, a TOML file, an optional per-buffer
// resolver function, and buffer-local overrides. Later layers win
// per key; invalid values fall back to the layer below.
package config

import (
	"github.com/mattn/go-runewidth"

	"github.com/dshills/indentguide/internal/scope"
)

// Options is the fully resolved configuration for one buffer.
type Options struct {
	// Enabled turns guide rendering on or off.
	Enabled bool

	// Shiftwidth is the width of one indent step in columns.
	Shiftwidth int

	// Overscan is the number of extra lines fetched past a requested
	// line to pre-warm the indent cache.
	Overscan int

	// SkipFirstIndent suppresses the first-level guide column.
	SkipFirstIndent bool

	// Glyph is the guide character. It must occupy exactly one
	// terminal cell.
	Glyph string

	// GlyphHighlight is the highlight group for ordinary guides.
	GlyphHighlight string

	// ShowCursorScope enables highlighting the scope under the cursor.
	ShowCursorScope bool

	// CursorScopeHighlight is the highlight group for the scope guide.
	CursorScopeHighlight string

	// AutoClearCursorScope clears a window's stale scope highlight
	// when the window loses focus.
	AutoClearCursorScope bool

	// Priority is the overlay priority passed to the host.
	Priority int

	// MaxIndentLevel bounds the number of glyphs emitted per line.
	MaxIndentLevel int

	// MaxIncreaseLevel is the strict policy's widening budget in
	// indent steps.
	MaxIncreaseLevel int

	// ScopePolicy selects cursor-scope widening behavior.
	ScopePolicy scope.Policy
}

// Defaults returns the built-in option values.
func Defaults() Options {
	return Options{
		Enabled:              true,
		Shiftwidth:           4,
		Overscan:             20,
		SkipFirstIndent:      false,
		Glyph:                "│",
		GlyphHighlight:       "IndentGuide",
		ShowCursorScope:      true,
		CursorScopeHighlight: "IndentGuideScope",
		AutoClearCursorScope: true,
		Priority:             100,
		MaxIndentLevel:       32,
		MaxIncreaseLevel:     1,
		ScopePolicy:          scope.PolicyRelaxed,
	}
}

// apply overlays the values in m onto o. Unknown keys are ignored;
// invalid values keep o's current value and are reported.
func (o *Options) apply(m map[string]any) []error {
	var errs []error
	reject := func(key string, val any, msg string) {
		errs = append(errs, &ValueError{Key: key, Value: val, Message: msg})
	}

	for key, val := range m {
		switch key {
		case "enabled":
			if b, ok := val.(bool); ok {
				o.Enabled = b
			} else {
				reject(key, val, "want bool")
			}
		case "shiftwidth":
			if n, ok := asInt(val); ok && n > 0 {
				o.Shiftwidth = n
			} else {
				reject(key, val, "want integer > 0")
			}
		case "overscan":
			if n, ok := asInt(val); ok && n >= 0 {
				o.Overscan = n
			} else {
				reject(key, val, "want integer >= 0")
			}
		case "skip_first_indent":
			if b, ok := val.(bool); ok {
				o.SkipFirstIndent = b
			} else {
				reject(key, val, "want bool")
			}
		case "glyph":
			if s, ok := val.(string); ok && runewidth.StringWidth(s) == 1 {
				o.Glyph = s
			} else {
				reject(key, val, "want a string one cell wide")
			}
		case "glyph_highlight":
			if s, ok := val.(string); ok && s != "" {
				o.GlyphHighlight = s
			} else {
				reject(key, val, "want non-empty string")
			}
		case "show_cursor_scope":
			if b, ok := val.(bool); ok {
				o.ShowCursorScope = b
			} else {
				reject(key, val, "want bool")
			}
		case "cursor_scope_highlight":
			if s, ok := val.(string); ok && s != "" {
				o.CursorScopeHighlight = s
			} else {
				reject(key, val, "want non-empty string")
			}
		case "auto_clear_cursor_scope":
			if b, ok := val.(bool); ok {
				o.AutoClearCursorScope = b
			} else {
				reject(key, val, "want bool")
			}
		case "priority":
			if n, ok := asInt(val); ok {
				o.Priority = n
			} else {
				reject(key, val, "want integer")
			}
		case "max_indent_level":
			if n, ok := asInt(val); ok && n > 0 {
				o.MaxIndentLevel = n
			} else {
				reject(key, val, "want integer > 0")
			}
		case "max_increase_level":
			if n, ok := asInt(val); ok && n > 0 {
				o.MaxIncreaseLevel = n
			} else {
				reject(key, val, "want integer > 0")
			}
		case "scope_policy":
			s, ok := val.(string)
			if !ok {
				reject(key, val, "want string")
				break
			}
			p, err := scope.ParsePolicy(s)
			if err != nil {
				reject(key, val, err.Error())
				break
			}
			o.ScopePolicy = p
		}
	}
	return errs
}

// asInt normalizes the integer encodings produced by TOML and Lua.
func asInt(val any) (int, bool) {
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}
