package registry

import (
	"time"

	schemacompat "github.com/reoring/schemacompat"
)

// VersionCheck is the outcome of comparing the new schema with one stored version.
type VersionCheck struct {
	ID         string                  `json:"id"`
	Version    string                  `json:"version"`
	Violations schemacompat.Violations `json:"violations"`
}

// Report summarizes the compatibility of a newly registered schema.
type Report struct {
	Subject       string                         `json:"subject"`
	OldVersion    string                         `json:"old_version"`
	NewVersion    string                         `json:"new_version"`
	Compatibility schemacompat.CompatibilityType `json:"compatibility"`
	Compatible    bool                           `json:"compatible"`
	Stored        bool                           `json:"stored"`
	Checks        []VersionCheck                 `json:"checks"`
	Timestamp     time.Time                      `json:"timestamp"`
}

// Violations flattens the violations of every check.
func (r *Report) Violations() schemacompat.Violations {
	if r == nil {
		return nil
	}
	var out schemacompat.Violations
	for _, c := range r.Checks {
		out = append(out, c.Violations...)
	}
	return out
}
