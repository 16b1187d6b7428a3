// Package config loads leapstore configuration from defaults, a YAML file,
// LEAPSTORE_ environment variables and command-line flags.
package config

import (
	"fmt"
	"maps"
	"strings"

	"github.com/leapstack-labs/leapstore/pkg/adapter"
	"github.com/leapstack-labs/leapstore/pkg/core"
)

// Config file names, in lookup order.
const (
	ConfigFileName    = "leapstore.yaml"
	ConfigFileNameAlt = "leapstore.yml"
)

// Default configuration values.
const (
	DefaultTargetType = "sqlite"
	DefaultDatabase   = "book.db"
	DefaultStateFile  = ".leapstore/state.db"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// Config holds all configuration options.
type Config struct {
	Target    *TargetConfig `koanf:"target" yaml:"target"`
	StatePath string        `koanf:"state_path" yaml:"state_path"`
	Verbose   bool          `koanf:"verbose" yaml:"verbose"`
	Output    string        `koanf:"output" yaml:"output"`
	// LoadOrder lists entity types loaded after the fixed order on an initial load.
	LoadOrder []string `koanf:"load_order" yaml:"load_order,omitempty"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-" yaml:"-"`
	// ConfigFile is the file the configuration was read from, if any.
	ConfigFile string `koanf:"-" yaml:"-"`
}

// TargetConfig describes the storage target.
type TargetConfig struct {
	Type     string            `koanf:"type" yaml:"type"`
	Database string            `koanf:"database" yaml:"database"`
	Host     string            `koanf:"host" yaml:"host,omitempty"`
	Port     int               `koanf:"port" yaml:"port,omitempty"`
	User     string            `koanf:"user" yaml:"user,omitempty"`
	Password string            `koanf:"password" yaml:"password,omitempty"`
	Schema   string            `koanf:"schema" yaml:"schema,omitempty"`
	Options  map[string]string `koanf:"options" yaml:"options,omitempty"`
	Params   map[string]any    `koanf:"params" yaml:"params,omitempty"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Target: &TargetConfig{
			Type:     DefaultTargetType,
			Database: DefaultDatabase,
		},
		StatePath: DefaultStateFile,
		Output:    DefaultOutput,
	}
}

// ApplyDefaults fills type-specific defaults.
func (t *TargetConfig) ApplyDefaults() {
	t.Type = strings.ToLower(t.Type)
	if t.Type == "postgres" {
		if t.Port == 0 {
			t.Port = 5432
		}
		if t.Schema == "" {
			t.Schema = "public"
		}
	}
}

// Validate checks that the target names a registered adapter and carries
// what that adapter needs.
func (t *TargetConfig) Validate() error {
	if err := adapter.CheckDriver(t.Type); err != nil {
		return err
	}
	if strings.EqualFold(t.Type, "postgres") && t.Host == "" {
		return fmt.Errorf("%w: postgres target requires a host", core.ErrConfiguration)
	}
	return nil
}

// AdapterConfig converts the target into the adapter connection settings.
func (t *TargetConfig) AdapterConfig() core.AdapterConfig {
	return core.AdapterConfig{
		Type:     t.Type,
		Path:     t.Database,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  maps.Clone(t.Options),
		Params:   maps.Clone(t.Params),
	}
}

// String identifies the target in logs and run history without credentials.
func (t *TargetConfig) String() string {
	if t.Host != "" {
		return fmt.Sprintf("%s://%s:%d/%s", t.Type, t.Host, t.Port, t.Database)
	}
	return t.Type + ":" + t.Database
}
