package schemacompat

import (
	"github.com/reoring/schemacompat/i18n"
)

// rootPath is the path of the document root.
const rootPath = "$"

// PathRef builds dotted schema paths and creates Violations at them.
type PathRef interface {
	Field(name string) PathRef
	String() string
	Violation(ct CompatibilityType, code string) Violation
}

type pathRef struct {
	path string
}

// Root returns the PathRef of the document root ("$").
func Root() PathRef { return pathRef{path: rootPath} }

func (p pathRef) Field(name string) PathRef {
	return pathRef{path: p.path + "." + name}
}

func (p pathRef) String() string { return p.path }

// Violation creates a "Not <TYPE> compatible, <path> <reason>" violation where the
// reason is the translated message for code.
func (p pathRef) Violation(ct CompatibilityType, code string) Violation {
	msg := i18n.T("not_compatible", map[string]string{
		"type":   ct.String(),
		"path":   p.path,
		"reason": i18n.T(code, nil),
	})
	return Violation{Code: code, Message: msg, CompatibilityType: ct, Path: p.path}
}

// typeChanged creates the violation reported when old and new declare different types.
func typeChanged(p PathRef, ct CompatibilityType, from, to string) Violation {
	msg := i18n.T(CodeTypeChanged, map[string]string{"path": p.String(), "from": from, "to": to})
	return Violation{Code: CodeTypeChanged, Message: msg, CompatibilityType: ct, Path: p.String()}
}
