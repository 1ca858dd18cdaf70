package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
)

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	path         string
	keys         map[string]struct{}
	expectingKey bool
	index        int
}

// DetectJSONDuplicateKeys scans data token by token and returns the first
// duplicate object key as a *DuplicateKeyError. Syntax errors are returned as is.
func DetectJSONDuplicateKeys(data []byte) error {
	_, err := scanJSON(data)
	return err
}

// scanJSON checks data for duplicate keys and records the key order of every object.
func scanJSON(data []byte) (keyOrder, error) {
	order := keyOrder{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var stack []frame

	// childPath returns the path of the value about to be read in the top container.
	childPath := func() string {
		if len(stack) == 0 {
			return "$"
		}
		top := &stack[len(stack)-1]
		if top.kind == kindArray {
			p := top.path + "[" + strconv.Itoa(top.index) + "]"
			top.index++
			return p
		}
		return top.path
	}
	// valueDone marks the end of a member value inside an object.
	valueDone := func() {
		if len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.kind == kindObject && !top.expectingKey {
				top.expectingKey = true
			}
		}
	}

	var pendingKey string
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return order, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}

		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{', '[':
				p := childPath()
				if len(stack) > 0 && stack[len(stack)-1].kind == kindObject {
					p = p + "." + pendingKey
				}
				f := frame{kind: kindArray, path: p}
				if v == '{' {
					f = frame{kind: kindObject, path: p, keys: map[string]struct{}{}, expectingKey: true}
				}
				stack = append(stack, f)
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				valueDone()
			}
		case string:
			if len(stack) > 0 {
				top := &stack[len(stack)-1]
				if top.kind == kindObject && top.expectingKey {
					if _, ok := top.keys[v]; ok {
						return nil, &DuplicateKeyError{Key: v, Path: top.path}
					}
					top.keys[v] = struct{}{}
					order.add(top.path, v)
					top.expectingKey = false
					pendingKey = v
					continue
				}
				if top.kind == kindArray {
					top.index++
				}
			}
			valueDone()
		default:
			if len(stack) > 0 && stack[len(stack)-1].kind == kindArray {
				stack[len(stack)-1].index++
			}
			valueDone()
		}
	}
}

// decodeJSON decodes a JSON document into JSON-like Go values.
func decodeJSON(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return v, nil
}
