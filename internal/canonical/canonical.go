// Package canonical produces key-order independent JSON encodings used for
// structural equality between schema fragments.
package canonical

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// ErrUnsupported is returned for values that have no JSON representation.
var ErrUnsupported = errors.New("canonical: unsupported value")

// Marshal encodes v compactly with object members sorted by key. Maps decoded from
// YAML with non-string keys are normalized first; other non-JSON values fail.
func Marshal(v any) ([]byte, error) {
	nv, err := normalize(v)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(nv)
	if err != nil {
		return nil, fmt.Errorf("canonical: %w", err)
	}
	return b, nil
}

// Equal reports whether a and b have identical canonical encodings. Any encoding
// failure yields false.
func Equal(a, b any) bool {
	ab, err := Marshal(a)
	if err != nil {
		return false
	}
	bb, err := Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}

func normalize(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			n, err := normalize(vv)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("%w: non-string key %v", ErrUnsupported, k)
			}
			n, err := normalize(vv)
			if err != nil {
				return nil, err
			}
			out[ks] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i := range t {
			n, err := normalize(t[i])
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case []string:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, nil
	case nil, bool, string, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return t, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupported, v)
	}
}
