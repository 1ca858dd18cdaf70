// Package registry keeps a versioned history of schemas per subject and gates
// each new version on compatibility with the stored ones.
package registry

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	schemacompat "github.com/reoring/schemacompat"
	"github.com/reoring/schemacompat/internal/logging"
)

// ErrIncompatible is returned by Register in block mode when the schema breaks
// the configured compatibility contract.
var ErrIncompatible = errors.New("registry: incompatible schema")

// Registry checks and stores schema versions.
type Registry struct {
	store   *Store
	cfg     Config
	logger  *zap.Logger
	mu      sync.RWMutex
	reports map[string]*Report
}

// New creates a registry from cfg. A nil logger disables logging.
func New(cfg Config, logger *zap.Logger) (*Registry, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	store, err := NewStore(cfg.StoreDir, cfg.MaxVersions)
	if err != nil {
		return nil, fmt.Errorf("create schema store: %w", err)
	}
	return &Registry{
		store:   store,
		cfg:     cfg,
		logger:  logging.OrNop(logger),
		reports: make(map[string]*Report),
	}, nil
}

// Config returns the effective configuration.
func (r *Registry) Config() Config { return r.cfg }

// Store returns the underlying version store.
func (r *Registry) Store() *Store { return r.store }

// Register checks schema against the stored versions of subject and stores it.
// The first version of a subject is stored without a check and yields a nil
// report. In block mode an incompatible schema is not stored and the error wraps
// ErrIncompatible; in warn mode it is stored and only logged.
func (r *Registry) Register(subject, version string, schema map[string]any) (*Report, error) {
	if subject == "" {
		return nil, fmt.Errorf("%w: empty subject", schemacompat.ErrInvalidArgument)
	}
	if schema == nil {
		return nil, fmt.Errorf("%w: schema must be an object", schemacompat.ErrInvalidArgument)
	}
	log := r.logger.With(zap.String("subject", subject), zap.String("version", version))

	previous, err := r.previous(subject)
	if err != nil {
		return nil, err
	}
	if len(previous) == 0 {
		if _, err := r.store.Put(subject, version, schema); err != nil {
			return nil, err
		}
		log.Info("registry: first version stored")
		return nil, nil
	}

	report := &Report{
		Subject:       subject,
		OldVersion:    previous[len(previous)-1].Version,
		NewVersion:    version,
		Compatibility: r.cfg.Compatibility,
		Compatible:    true,
		Timestamp:     time.Now(),
	}
	for _, prev := range previous {
		vs, err := schemacompat.Check(prev.Schema, schema, r.cfg.Compatibility)
		if err != nil {
			return nil, fmt.Errorf("check %s against version %q: %w", subject, prev.Version, err)
		}
		report.Checks = append(report.Checks, VersionCheck{ID: prev.ID, Version: prev.Version, Violations: vs})
		if len(vs) > 0 {
			report.Compatible = false
		}
	}

	if !report.Compatible {
		for _, c := range report.Checks {
			for _, v := range c.Violations {
				log.Warn("registry: compatibility violation",
					zap.String("against", c.Version),
					zap.String("code", v.Code),
					zap.String("path", v.Path),
					zap.Stringer("compatibility", v.CompatibilityType),
					zap.String("detail", v.Message),
				)
			}
		}
	}

	if report.Compatible || r.cfg.Mode == ModeWarn {
		if _, err := r.store.Put(subject, version, schema); err != nil {
			return nil, err
		}
		report.Stored = true
		log.Info("registry: version stored", zap.Bool("compatible", report.Compatible))
	}

	r.mu.Lock()
	r.reports[subject] = report
	r.mu.Unlock()

	if !report.Stored {
		return report, fmt.Errorf("%w: %d violation(s) for subject %q under %s", ErrIncompatible, len(report.Violations()), subject, r.cfg.Compatibility)
	}
	return report, nil
}

func (r *Registry) previous(subject string) ([]Record, error) {
	if r.cfg.Transitive {
		return r.store.List(subject)
	}
	latest, err := r.store.Latest(subject)
	if err != nil || latest == nil {
		return nil, err
	}
	return []Record{*latest}, nil
}

// Report returns the most recent compatibility report for subject.
func (r *Registry) Report(subject string) *Report {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reports[subject]
}

// Reports returns all compatibility reports.
func (r *Registry) Reports() map[string]*Report {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(map[string]*Report, len(r.reports))
	for k, v := range r.reports {
		result[k] = v
	}
	return result
}
