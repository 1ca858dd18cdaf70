package schemacompat

import (
	"fmt"

	"github.com/reoring/schemacompat/jsonschema"
)

// Check reports how newSchema violates the compatibility contract ct relative to
// oldSchema. Both schemas must be JSON objects decoded as map[string]any. A zero ct
// means Forward. Full requires both Backward and Forward to hold and returns the
// Backward violations followed by the Forward ones.
//
// The caller's trees are not modified: documentation keys are stripped from
// private copies. Within one direction only the first violation found is
// reported. Properties are visited old names first, then names only in the new
// schema, in sorted order unless WithPropertyOrder supplies document order.
//
// An allowed property addition or removal does not end the comparison of its
// object: the remaining properties are still checked. For example, under Forward
// {a, b: string} -> {b: integer} reports a type change at $.b, where a check that
// stopped at the first allowed change (a removed) would call it compatible.
func Check(oldSchema, newSchema any, ct CompatibilityType, opts ...Option) (Violations, error) {
	if err := validateParams(oldSchema, newSchema); err != nil {
		return nil, err
	}
	ct, err := ct.resolve()
	if err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return check(oldSchema, newSchema, ct, o)
}

// Compatible is the boolean form of Check.
func Compatible(oldSchema, newSchema any, ct CompatibilityType, opts ...Option) (bool, error) {
	vs, err := Check(oldSchema, newSchema, ct, opts...)
	if err != nil {
		return false, err
	}
	return vs.Compatible(), nil
}

// CheckNodes runs the walker on already built schema trees. No sanitization is
// applied.
func CheckNodes(oldSchema, newSchema *jsonschema.Schema, ct CompatibilityType) (Violations, error) {
	if oldSchema == nil || newSchema == nil {
		return nil, fmt.Errorf("%w: schema must not be nil", ErrInvalidArgument)
	}
	ct, err := ct.resolve()
	if err != nil {
		return nil, err
	}
	if ct == Full {
		back, err := CheckNodes(oldSchema, newSchema, Backward)
		if err != nil {
			return nil, err
		}
		fwd, err := CheckNodes(oldSchema, newSchema, Forward)
		if err != nil {
			return nil, err
		}
		return joinViolations(back, fwd), nil
	}
	vs, err := newWalker().apply(oldSchema, newSchema, traversal{ct: ct, path: Root()})
	if err != nil {
		return nil, err
	}
	if vs == nil {
		vs = Violations{}
	}
	return vs, nil
}

func check(oldSchema, newSchema any, ct CompatibilityType, o options) (Violations, error) {
	if ct == Full {
		back, err := check(oldSchema, newSchema, Backward, o)
		if err != nil {
			return nil, err
		}
		fwd, err := check(oldSchema, newSchema, Forward, o)
		if err != nil {
			return nil, err
		}
		return joinViolations(back, fwd), nil
	}
	oldCopy, newCopy := deepCopy(oldSchema), deepCopy(newSchema)
	Sanitize(o.ignoredKeys, oldCopy, newCopy)
	return CheckNodes(jsonschema.FromValueWithOrder(oldCopy, o.oldOrder), jsonschema.FromValueWithOrder(newCopy, o.newOrder), ct)
}

func joinViolations(a, b Violations) Violations {
	out := make(Violations, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func validateParams(oldSchema, newSchema any) error {
	checkParam := func(v any, name string) error {
		if m, ok := v.(map[string]any); !ok || m == nil {
			return fmt.Errorf("%w: %s must be an object, got %T", ErrInvalidArgument, name, v)
		}
		return nil
	}
	if err := checkParam(oldSchema, "oldSchema"); err != nil {
		return err
	}
	return checkParam(newSchema, "newSchema")
}
