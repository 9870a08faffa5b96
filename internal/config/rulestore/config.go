// Package rulestore provides configuration for user rule persistence.
package rulestore

import "fmt"

// Backends supported for the user rule store.
const (
	// BackendFile persists rules as a JSON file.
	BackendFile = "file"
	// BackendSQLite persists rules in a SQLite database.
	BackendSQLite = "sqlite"
)

// Default configuration values
const (
	DefaultBackend = BackendFile
	DefaultPath    = "chronoclip-rules.json"
)

// Config holds rule persistence settings.
type Config struct {
	// Backend is file or sqlite
	Backend string `yaml:"backend" mapstructure:"backend"`
	// Path is the JSON file path or SQLite DSN, depending on Backend
	Path string `yaml:"path" mapstructure:"path"`
}

// New creates a Config with defaults applied.
func New() *Config {
	return &Config{
		Backend: DefaultBackend,
		Path:    DefaultPath,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown rule store backend %q", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("rule store path must not be empty")
	}
	return nil
}
