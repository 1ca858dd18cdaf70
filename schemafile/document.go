package schemafile

import (
	"strings"
)

// keyOrder maps the dotted path of every mapping ("$", "$.properties",
// "$.allOf[0]") to its keys in document order.
type keyOrder map[string][]string

func (o keyOrder) add(path, key string) {
	o[path] = append(o[path], key)
}

// Document is a loaded schema together with the key order of its source text.
type Document struct {
	Schema map[string]any

	order keyOrder
	// base is the source path of Schema when a selector picked a sub-document.
	base string
}

// Keys returns the keys of the mapping at path, relative to Schema, in the order
// they appear in the source. It returns nil when the order is unknown. The method
// value fits schemacompat.WithPropertyOrder.
func (d *Document) Keys(path string) []string {
	if d == nil || d.order == nil {
		return nil
	}
	if d.base != "" {
		path = d.base + strings.TrimPrefix(path, "$")
	}
	return d.order[path]
}

// selectorBase converts a plain gjson path ("definitions.User", "allOf.0") to the
// dotted source path of the match. Paths using gjson syntax beyond plain keys and
// indexes return false.
func selectorBase(selector string) (string, bool) {
	var sb strings.Builder
	sb.WriteString("$")
	for _, seg := range strings.Split(selector, ".") {
		if seg == "" {
			return "", false
		}
		for _, c := range seg {
			if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-') {
				return "", false
			}
		}
		if isIndex(seg) {
			sb.WriteString("[" + seg + "]")
			continue
		}
		sb.WriteString("." + seg)
	}
	return sb.String(), true
}

func isIndex(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
