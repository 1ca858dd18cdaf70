// Package schemafile loads JSON Schema documents from JSON or YAML files into the
// map[string]any trees the compatibility checker consumes.
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// Format identifies the encoding of a schema document.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	// ErrNotObject is returned when the (selected) document root is not a mapping.
	ErrNotObject = errors.New("schemafile: schema document must be an object")
	// ErrSelectorNotFound is returned when a selector matches nothing.
	ErrSelectorNotFound = errors.New("schemafile: selector matched nothing")
	// ErrMultipleDocuments is returned for a YAML stream with more than one document.
	ErrMultipleDocuments = errors.New("schemafile: expected a single YAML document")
)

// Options controls how a document is loaded.
type Options struct {
	// Format overrides detection from the file extension.
	Format Format
	// Selector is a gjson path picking a sub-document, e.g. "definitions.User".
	Selector string
	// MetaValidate compiles the document as a JSON Schema and rejects invalid ones.
	MetaValidate bool
}

// Option mutates Options.
type Option func(*Options)

// WithFormat forces the document format.
func WithFormat(f Format) Option { return func(o *Options) { o.Format = f } }

// WithSelector picks a sub-document with a gjson path.
func WithSelector(path string) Option { return func(o *Options) { o.Selector = path } }

// WithMetaValidation enables JSON Schema meta-validation of the loaded document.
func WithMetaValidation() Option { return func(o *Options) { o.MetaValidate = true } }

// Load reads the file at path and returns its schema document.
func Load(path string, opts ...Option) (map[string]any, error) {
	doc, err := LoadDocument(path, opts...)
	if err != nil {
		return nil, err
	}
	return doc.Schema, nil
}

// LoadDocument is Load that also keeps the key order of the file.
func LoadDocument(path string, opts ...Option) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Format == FormatAuto {
		o.Format = DetectFormat(path)
	}
	doc, err := DecodeDocument(data, o)
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", path, err)
	}
	return doc, nil
}

// DetectFormat guesses the format from the file extension; anything that is not
// .yaml or .yml is treated as JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses data according to o. Duplicate keys are rejected in both formats.
func Decode(data []byte, o Options) (map[string]any, error) {
	doc, err := DecodeDocument(data, o)
	if err != nil {
		return nil, err
	}
	return doc.Schema, nil
}

// DecodeDocument is Decode that also keeps the key order of data.
func DecodeDocument(data []byte, o Options) (*Document, error) {
	var (
		v     any
		order keyOrder
		err   error
	)
	switch o.Format {
	case FormatYAML:
		if v, order, err = decodeYAML(data); err != nil {
			return nil, err
		}
	case FormatJSON, FormatAuto:
		if order, err = scanJSON(data); err == nil {
			v, err = decodeJSON(data)
		}
	default:
		return nil, fmt.Errorf("schemafile: unknown format %q", o.Format)
	}
	if err != nil {
		return nil, err
	}
	var base string
	if o.Selector != "" {
		if v, err = selectPath(v, o.Selector); err != nil {
			return nil, err
		}
		var ok bool
		if base, ok = selectorBase(o.Selector); !ok {
			order = nil
		}
	}
	schema, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w, got %T", ErrNotObject, v)
	}
	if o.MetaValidate {
		if err := MetaValidate(schema); err != nil {
			return nil, err
		}
	}
	return &Document{Schema: schema, order: order, base: base}, nil
}

// decodeYAML reads the single document of a YAML stream. Empty documents are
// ignored; a second non-empty document is an error.
func decodeYAML(data []byte) (any, keyOrder, error) {
	r := NewStrictYAMLReader(bytes.NewReader(data))
	var (
		v     any
		order keyOrder
		found bool
	)
	for {
		doc, err := r.Next()
		if errors.Is(err, io.EOF) {
			return v, order, nil
		}
		if err != nil {
			return nil, nil, err
		}
		if doc == nil {
			continue
		}
		if found {
			return nil, nil, ErrMultipleDocuments
		}
		v, order, found = doc, r.order, true
	}
}

// selectPath evaluates a gjson path against v and decodes the match.
func selectPath(v any, path string) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document for selector: %w", err)
	}
	res := gjson.GetBytes(raw, path)
	if !res.Exists() {
		return nil, fmt.Errorf("%w: %q", ErrSelectorNotFound, path)
	}
	return decodeJSON([]byte(res.Raw))
}
