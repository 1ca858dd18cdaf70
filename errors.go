package schemacompat

import (
	"errors"
	"fmt"
	"strings"
)

// Violation codes.
const (
	CodeTypeChanged       = "type_changed"
	CodePropertiesRemoved = "properties_removed"
	CodePropertiesAdded   = "properties_added"
	CodeNoLongerRequired  = "no_longer_required"
	CodeRequiredRemoved   = "required_removed"
	CodeNowRequired       = "now_required"
	CodeRequiredAdded     = "required_added"
)

var (
	// ErrInvalidArgument reports misuse by the caller: a schema argument that is not
	// an object or an unrecognized compatibility type.
	ErrInvalidArgument = errors.New("schemacompat: invalid argument")
	// ErrUnknownType reports a schema type the checker has no rule for.
	ErrUnknownType = errors.New("schemacompat: unknown schema type")
	// ErrInternal reports a type checker invoked on a node of another type.
	ErrInternal = errors.New("schemacompat: internal error")
)

// Violation describes one incompatibility at one location.
type Violation struct {
	Code              string            `json:"code"`
	Message           string            `json:"message"`
	CompatibilityType CompatibilityType `json:"compatibilityType"`
	Path              string            `json:"path"` // dotted, root is "$"
}

// Violations is the result of a check. It implements error so callers can
// return it directly; an empty list means compatible.
type Violations []Violation

// Error summarizes the first few violations.
func (vs Violations) Error() string {
	if len(vs) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(vs)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		v := vs[i]
		// e.g. required_removed at $.id (FORWARD)
		fmt.Fprintf(b, "%s at %s (%s)", v.Code, v.Path, v.CompatibilityType)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Compatible reports whether no violation was found.
func (vs Violations) Compatible() bool { return len(vs) == 0 }

// AsViolations extracts Violations from an error using errors.As internally.
func AsViolations(err error) (Violations, bool) {
	if err == nil {
		return nil, false
	}
	var vs Violations
	if errors.As(err, &vs) {
		return vs, true
	}
	return nil, false
}
