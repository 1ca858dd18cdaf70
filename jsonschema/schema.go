package jsonschema

import (
	"fmt"
	"sort"
)

// Kind is one of the primitive JSON Schema type names.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
	KindNull    Kind = "null"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
)

// Kinds lists every supported kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindString, KindNumber, KindInteger, KindBoolean, KindNull, KindArray, KindObject}
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindString, KindNumber, KindInteger, KindBoolean, KindNull, KindArray, KindObject:
		return true
	}
	return false
}

// Schema is the typed view of one schema fragment used by the compatibility checker.
// Only type, properties and required are interpreted; Raw keeps the whole fragment
// so that keys the checker does not understand still take part in equality.
type Schema struct {
	// Type is empty when the fragment declares no type.
	Type Kind
	// TypeValue holds the declared "type" value as found in the document.
	TypeValue any

	Properties    map[string]*Schema
	HasProperties bool
	Required      []string

	Raw any

	names []string
}

// HasType reports whether the fragment declares a type.
func (s *Schema) HasType() bool { return s != nil && s.TypeValue != nil }

// PropertyNames returns the declared property names, in document order when it
// was supplied and sorted otherwise.
func (s *Schema) PropertyNames() []string {
	if s == nil {
		return nil
	}
	return s.names
}

// Property returns the named property schema.
func (s *Schema) Property(name string) (*Schema, bool) {
	if s == nil || s.Properties == nil {
		return nil, false
	}
	p, ok := s.Properties[name]
	return p, ok
}

// IsRequired reports whether name is listed in required.
func (s *Schema) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// TypeName renders the declared type for messages. A missing type renders as "undefined".
func (s *Schema) TypeName() string {
	if !s.HasType() {
		return "undefined"
	}
	if str, ok := s.TypeValue.(string); ok {
		return str
	}
	return fmt.Sprint(s.TypeValue)
}

// KeyOrder reports the keys of the mapping at a dotted document path ("$",
// "$.properties", "$.properties.a.properties") in document order. It returns nil
// when the order is unknown.
type KeyOrder func(path string) []string

// FromValue builds a Schema tree from a decoded JSON value. Mapping values become
// schema nodes; any other value (true, false, a stray scalar) becomes an untyped
// node that carries the value in Raw. A "type" whose value is not a supported kind
// leaves Type empty while TypeValue still records it. A falsy type ("", false, 0,
// null) counts as absent. Property names are sorted.
func FromValue(v any) *Schema {
	return build(v, "$", nil)
}

// FromValueWithOrder is FromValue with property names listed in the order reported
// by order. Names the order does not know about follow in sorted order.
func FromValueWithOrder(v any, order KeyOrder) *Schema {
	return build(v, "$", order)
}

func build(v any, path string, order KeyOrder) *Schema {
	m, ok := v.(map[string]any)
	if !ok {
		return &Schema{Raw: v}
	}
	s := &Schema{Raw: m}
	if tv, ok := m["type"]; ok && !falsy(tv) {
		s.TypeValue = tv
		if str, ok := tv.(string); ok && Kind(str).Valid() {
			s.Type = Kind(str)
		}
	}
	if pv, ok := m["properties"]; ok && pv != nil {
		s.HasProperties = true
		s.Properties = map[string]*Schema{}
		if pm, ok := pv.(map[string]any); ok {
			propsPath := path + ".properties"
			for name, sub := range pm {
				s.Properties[name] = build(sub, propsPath+"."+name, order)
			}
			s.names = orderedNames(pm, order, propsPath)
		}
	}
	if rv, ok := m["required"].([]any); ok {
		for _, it := range rv {
			if name, ok := it.(string); ok {
				s.Required = append(s.Required, name)
			}
		}
	}
	if rv, ok := m["required"].([]string); ok {
		s.Required = append(s.Required, rv...)
	}
	return s
}

func orderedNames(pm map[string]any, order KeyOrder, path string) []string {
	names := make([]string, 0, len(pm))
	seen := make(map[string]struct{}, len(pm))
	if order != nil {
		for _, k := range order(path) {
			if _, ok := pm[k]; !ok {
				continue
			}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			names = append(names, k)
		}
	}
	rest := make([]string, 0, len(pm)-len(names))
	for k := range pm {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

func falsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case int:
		return t == 0
	case int64:
		return t == 0
	case float64:
		return t == 0
	}
	return false
}
