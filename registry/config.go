package registry

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	schemacompat "github.com/reoring/schemacompat"
)

// Mode decides what happens to an incompatible schema.
type Mode string

const (
	// ModeWarn stores the schema anyway and logs the violations.
	ModeWarn Mode = "warn"
	// ModeBlock rejects the schema.
	ModeBlock Mode = "block"
)

const (
	defaultStoreDir    = ".schemacompat"
	defaultMaxVersions = 10
)

// Config configures a Registry.
type Config struct {
	Compatibility schemacompat.CompatibilityType `yaml:"compatibility"`
	Mode          Mode                           `yaml:"mode"`
	StoreDir      string                         `yaml:"store_dir"`
	MaxVersions   int                            `yaml:"max_versions"`
	// Transitive checks a new schema against every retained version instead of
	// only the latest one.
	Transitive bool `yaml:"transitive"`
}

// LoadConfig reads a YAML config file. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read registry config: %w", err)
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse registry config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) withDefaults() (Config, error) {
	if c.Compatibility == 0 {
		c.Compatibility = schemacompat.Forward
	}
	if !c.Compatibility.Valid() {
		return c, fmt.Errorf("%w: compatibility %d", schemacompat.ErrInvalidArgument, int(c.Compatibility))
	}
	switch c.Mode {
	case "":
		c.Mode = ModeWarn
	case ModeWarn, ModeBlock:
	default:
		return c, fmt.Errorf("registry: unknown mode %q, must be warn or block", c.Mode)
	}
	if c.StoreDir == "" {
		c.StoreDir = defaultStoreDir
	}
	if c.MaxVersions <= 0 {
		c.MaxVersions = defaultMaxVersions
	}
	return c, nil
}
