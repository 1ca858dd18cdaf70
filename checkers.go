package schemacompat

import (
	"fmt"

	"github.com/reoring/schemacompat/jsonschema"
)

// traversal is the immutable context of one walker step.
type traversal struct {
	ct   CompatibilityType // Backward or Forward, never Full
	path PathRef
}

func (t traversal) child(name string) traversal {
	return traversal{ct: t.ct, path: t.path.Field(name)}
}

func (t traversal) violation(code string) Violations {
	return Violations{t.path.Violation(t.ct, code)}
}

// typeChecker compares two subschemas that both declare the checker's kind.
type typeChecker func(w *walker, oldS, newS *jsonschema.Schema, t traversal) (Violations, error)

// defaultCheckers returns the dispatch table keyed by the agreed-upon type.
// Array item schemas are not compared.
func defaultCheckers() map[jsonschema.Kind]typeChecker {
	return map[jsonschema.Kind]typeChecker{
		jsonschema.KindString:  scalarChecker(jsonschema.KindString),
		jsonschema.KindNumber:  scalarChecker(jsonschema.KindNumber),
		jsonschema.KindInteger: scalarChecker(jsonschema.KindInteger),
		jsonschema.KindBoolean: scalarChecker(jsonschema.KindBoolean),
		jsonschema.KindNull:    scalarChecker(jsonschema.KindNull),
		jsonschema.KindArray:   scalarChecker(jsonschema.KindArray),
		jsonschema.KindObject:  checkObject,
	}
}

// verifyKind fails when a checker is dispatched on a node of another type.
func verifyKind(k jsonschema.Kind, schemas ...*jsonschema.Schema) error {
	for _, s := range schemas {
		if s == nil || s.Type != k {
			got := "undefined"
			if s != nil {
				got = s.TypeName()
			}
			return fmt.Errorf("%w: %s type checker used for %s type", ErrInternal, k, got)
		}
	}
	return nil
}

// scalarChecker has no rules beyond type equality, which the walker already
// enforced. Added constraints such as minLength or enum are not detected.
func scalarChecker(k jsonschema.Kind) typeChecker {
	return func(_ *walker, oldS, newS *jsonschema.Schema, _ traversal) (Violations, error) {
		if err := verifyKind(k, oldS, newS); err != nil {
			return nil, err
		}
		return nil, nil
	}
}

func checkObject(w *walker, oldS, newS *jsonschema.Schema, t traversal) (Violations, error) {
	if err := verifyKind(jsonschema.KindObject, oldS, newS); err != nil {
		return nil, err
	}

	switch t.ct {
	case Forward:
		if oldS.HasProperties && !newS.HasProperties {
			return t.violation(CodePropertiesRemoved), nil
		}
	case Backward:
		if !oldS.HasProperties && newS.HasProperties {
			return t.violation(CodePropertiesAdded), nil
		}
	}
	// Nothing symmetric to compare when either side leaves properties open.
	if !oldS.HasProperties || !newS.HasProperties {
		return nil, nil
	}

	for _, name := range propertyUnion(oldS, newS) {
		pt := t.child(name)
		oldRequired := oldS.IsRequired(name)
		newRequired := newS.IsRequired(name)
		oldProp, inOld := oldS.Property(name)
		newProp, inNew := newS.Property(name)
		added := !inOld && inNew
		removed := inOld && !inNew

		switch t.ct {
		case Forward:
			if oldRequired && !newRequired {
				return pt.violation(CodeNoLongerRequired), nil
			}
			if added {
				// Any new property is accepted by the old schema.
				continue
			}
			if removed {
				if oldRequired {
					return pt.violation(CodeRequiredRemoved), nil
				}
				continue
			}
		case Backward:
			if newRequired && !oldRequired {
				return pt.violation(CodeNowRequired), nil
			}
			if removed {
				// Old data that carries it is still accepted.
				continue
			}
			if added {
				if newRequired {
					return pt.violation(CodeRequiredAdded), nil
				}
				continue
			}
		}

		vs, err := w.apply(oldProp, newProp, pt)
		if err != nil || len(vs) > 0 {
			return vs, err
		}
	}
	return nil, nil
}

// propertyUnion lists old's property names followed by new's names not already seen.
func propertyUnion(oldS, newS *jsonschema.Schema) []string {
	oldNames := oldS.PropertyNames()
	newNames := newS.PropertyNames()
	out := make([]string, 0, len(oldNames)+len(newNames))
	seen := make(map[string]struct{}, len(oldNames)+len(newNames))
	for _, names := range [][]string{oldNames, newNames} {
		for _, n := range names {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}
