package schemacompat

import (
	"fmt"
	"strings"
)

// CompatibilityType selects the compatibility contract a check enforces.
// The zero value means "not specified" and is treated as Forward.
type CompatibilityType int

const (
	Backward CompatibilityType = 1
	Forward  CompatibilityType = 2
	Full                       = Backward | Forward
)

// CompatibilityTypes returns the recognized compatibility types.
func CompatibilityTypes() []CompatibilityType {
	return []CompatibilityType{Backward, Forward, Full}
}

// Valid reports whether ct is one of Backward, Forward or Full.
func (ct CompatibilityType) Valid() bool {
	switch ct {
	case Backward, Forward, Full:
		return true
	}
	return false
}

// resolve applies the Forward default for the zero value.
func (ct CompatibilityType) resolve() (CompatibilityType, error) {
	if ct == 0 {
		return Forward, nil
	}
	if !ct.Valid() {
		return 0, fmt.Errorf("%w: compatibility type %d, must be one of BACKWARD, FORWARD, FULL", ErrInvalidArgument, int(ct))
	}
	return ct, nil
}

func (ct CompatibilityType) String() string {
	switch ct {
	case Backward:
		return "BACKWARD"
	case Forward:
		return "FORWARD"
	case Full:
		return "FULL"
	case 0:
		return "UNSPECIFIED"
	}
	return fmt.Sprintf("CompatibilityType(%d)", int(ct))
}

// MarshalText encodes the type by name.
func (ct CompatibilityType) MarshalText() ([]byte, error) {
	if !ct.Valid() {
		return nil, fmt.Errorf("%w: compatibility type %d", ErrInvalidArgument, int(ct))
	}
	return []byte(ct.String()), nil
}

// UnmarshalText decodes a type name; see ParseCompatibilityType.
func (ct *CompatibilityType) UnmarshalText(b []byte) error {
	v, err := ParseCompatibilityType(string(b))
	if err != nil {
		return err
	}
	*ct = v
	return nil
}

// ParseCompatibilityType parses BACKWARD, FORWARD or FULL (case-insensitive).
// The empty string yields Forward.
func ParseCompatibilityType(s string) (CompatibilityType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return Forward, nil
	case "BACKWARD":
		return Backward, nil
	case "FORWARD":
		return Forward, nil
	case "FULL":
		return Full, nil
	}
	return 0, fmt.Errorf("%w: unknown compatibility type %q", ErrInvalidArgument, s)
}
