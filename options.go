package schemacompat

import "github.com/reoring/schemacompat/jsonschema"

// Option configures a check.
type Option func(*options)

type options struct {
	ignoredKeys []string
	oldOrder    jsonschema.KeyOrder
	newOrder    jsonschema.KeyOrder
}

func defaultOptions() options {
	return options{ignoredKeys: append([]string(nil), DefaultIgnoredKeys...)}
}

// WithIgnoredKeys replaces the set of documentation-only keys stripped before
// comparison. Passing no keys disables sanitization.
func WithIgnoredKeys(keys ...string) Option {
	return func(o *options) { o.ignoredKeys = append([]string(nil), keys...) }
}

// WithPropertyOrder supplies the document key order of the old and new schemas,
// for example from schemafile.Document.Keys. Properties are then visited in
// document order, which decides which violation is reported first. Either may
// be nil; without it names are visited in sorted order.
func WithPropertyOrder(oldOrder, newOrder jsonschema.KeyOrder) Option {
	return func(o *options) {
		o.oldOrder = oldOrder
		o.newOrder = newOrder
	}
}
