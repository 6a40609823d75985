package config

// deepMerge recursively merges src into dst. Values in src win; nested
// maps merge key by key, everything else is replaced.
func deepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = deepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = cloneValue(srcVal)
	}
	return dst
}

// cloneValue deep-copies maps and slices so layers never alias.
func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return val
	}
}

// section returns the named sub-table of m, or m itself when absent so
// flat files keep working.
func section(m map[string]any, name string) map[string]any {
	if m == nil {
		return nil
	}
	if sub, ok := m[name].(map[string]any); ok {
		return sub
	}
	return m
}
