package schemacompat

import "fmt"

// DefaultIgnoredKeys are documentation-only keys removed before comparison.
var DefaultIgnoredKeys = []string{"description", "$comment"}

// Sanitize deletes every key listed in ignored from every mapping found at any
// depth of the given trees, in place. The walk is purely structural: mappings
// under properties, inside arrays and in unrelated keywords are all visited, so a
// property whose name is an ignored key is removed too. Running it twice is a no-op.
func Sanitize(ignored []string, trees ...any) {
	if len(ignored) == 0 {
		return
	}
	set := make(map[string]struct{}, len(ignored))
	for _, k := range ignored {
		set[k] = struct{}{}
	}
	for _, t := range trees {
		removeKeys(set, t)
	}
}

func removeKeys(set map[string]struct{}, v any) {
	switch t := v.(type) {
	case map[string]any:
		for k, vv := range t {
			if _, ok := set[k]; ok {
				delete(t, k)
				continue
			}
			removeKeys(set, vv)
		}
	case map[any]any:
		for k, vv := range t {
			if ks, ok := k.(string); ok {
				if _, ok := set[ks]; ok {
					delete(t, k)
					continue
				}
			}
			removeKeys(set, vv)
		}
	case []any:
		for _, vv := range t {
			removeKeys(set, vv)
		}
	}
}

// deepCopy clones the JSON-like containers of v; scalars are shared.
func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = deepCopy(vv)
		}
		return out
	case map[any]any:
		// YAML decoders may produce map[any]any; the copy is keyed by string.
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = deepCopy(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = deepCopy(t[i])
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
