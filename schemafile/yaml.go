package schemafile

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DuplicateKeyError reports a key that appears twice in one mapping. Line and
// column positions are only known for YAML input.
type DuplicateKeyError struct {
	Key       string
	Path      string // dotted location of the mapping, root is "$"
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("duplicate key %q in %s at %d:%d (first at %d:%d)", e.Key, e.Path, e.Line, e.Col, e.FirstLine, e.FirstCol)
	}
	return fmt.Sprintf("duplicate key %q in %s", e.Key, e.Path)
}

// StrictYAMLReader decodes a multi-document YAML stream using yaml.Node to detect
// duplicate keys (with positions). It returns JSON-like Go values (map[string]any, []any, primitives).
type StrictYAMLReader struct {
	dec *yaml.Decoder
	// order of the mapping keys of the last document read
	order keyOrder
}

// NewStrictYAMLReader constructs a StrictYAMLReader.
func NewStrictYAMLReader(r io.Reader) *StrictYAMLReader {
	return &StrictYAMLReader{dec: yaml.NewDecoder(r)}
}

// Next returns the next YAML document converted into a JSON-compatible Go value.
// It returns (nil, io.EOF) when the stream is exhausted. Duplicate keys cause an error.
func (s *StrictYAMLReader) Next() (any, error) {
	var root yaml.Node
	if err := s.dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	s.order = keyOrder{}
	if len(root.Content) == 0 {
		return nil, nil
	}
	return nodeToValue(root.Content[0], "$", s.order)
}

func nodeToValue(n *yaml.Node, path string, order keyOrder) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeToValue(n.Content[0], path, order)
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, nil
		}
		return nodeToValue(n.Alias, path, order)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			v := n.Content[i+1]
			key := k.Value
			if pos, dup := first[key]; dup {
				return nil, &DuplicateKeyError{Key: key, Path: path, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
			}
			first[key] = [2]int{k.Line, k.Column}
			order.add(path, key)
			val, err := nodeToValue(v, path+"."+key, order)
			if err != nil {
				return nil, err
			}
			m[key] = val
		}
		return m, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for i, c := range n.Content {
			v, err := nodeToValue(c, path+"["+strconv.Itoa(i)+"]", order)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return nil, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err == nil {
				return b, nil
			}
			return n.Value, nil
		case "!!int":
			// int64 avoids overflow surprises; canonical encoding treats 1 and 1.0 alike
			if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
				return i, nil
			}
			return n.Value, nil
		case "!!float":
			var f float64
			if err := n.Decode(&f); err == nil {
				return f, nil
			}
			return n.Value, nil
		default:
			return n.Value, nil
		}
	default:
		return nil, nil
	}
}
