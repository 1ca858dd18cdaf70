package schemacompat

import (
	"fmt"

	"github.com/reoring/schemacompat/jsonschema"
)

type walker struct {
	checkers map[jsonschema.Kind]typeChecker
}

func newWalker() *walker {
	return &walker{checkers: defaultCheckers()}
}

// apply compares one pair of subschemas and recurses through the type checkers.
func (w *walker) apply(oldS, newS *jsonschema.Schema, t traversal) (Violations, error) {
	if !oldS.HasType() && !newS.HasType() {
		return nil, nil
	}
	// TODO: integer -> number widening and type arrays are still reported as type changes.
	if oldS.TypeName() != newS.TypeName() {
		return Violations{typeChanged(t.path, t.ct, oldS.TypeName(), newS.TypeName())}, nil
	}
	check, ok := w.checkers[oldS.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s at %s", ErrUnknownType, oldS.TypeName(), t.path)
	}
	if StructurallyEqual(oldS.Raw, newS.Raw) {
		return nil, nil
	}
	return check(w, oldS, newS, t)
}
