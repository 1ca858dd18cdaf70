package schemacompat

import "github.com/reoring/schemacompat/internal/canonical"

// StructurallyEqual reports whether two schema trees serialize identically once
// object keys are put in canonical order. Values that cannot be serialized compare
// unequal.
func StructurallyEqual(a, b any) bool {
	return canonical.Equal(a, b)
}
