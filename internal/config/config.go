// Package config loads the tool configuration. It is consumed, not
// owned: the datasources section only carries the introspection
// toggles the registry reads once per call.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/leapstack-labs/sqldeps/pkg/engine"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "sqldeps.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "sqldeps.yml"

// Config is the top-level configuration.
type Config struct {
	Datasources DatasourcesConfig `koanf:"datasources"`
	Target      *TargetConfig     `koanf:"target"`
}

// DatasourcesConfig carries the introspection toggles. Each accepts
// true, false, or "auto".
type DatasourcesConfig struct {
	IncludeSchemas      string `koanf:"include_schemas"`
	IncludeTables       string `koanf:"include_tables"`
	IncludeTableDetails string `koanf:"include_table_details"`
}

// Options converts the config toggles into engine options. Invalid
// values fall back to the defaults: schemas on, tables off, details off.
func (c DatasourcesConfig) Options() engine.DatabaseOptions {
	return engine.DatabaseOptions{
		IncludeSchemas:      toggleOr(c.IncludeSchemas, engine.ToggleOn),
		IncludeTables:       toggleOr(c.IncludeTables, engine.ToggleOff),
		IncludeTableDetails: toggleOr(c.IncludeTableDetails, engine.ToggleOff),
	}
}

func toggleOr(s string, fallback engine.Toggle) engine.Toggle {
	if s == "" {
		return fallback
	}
	t, err := engine.ParseToggle(s)
	if err != nil {
		return fallback
	}
	return t
}

// TargetConfig describes the database the CLI opens for introspection.
type TargetConfig struct {
	Type string `koanf:"type"` // duckdb, postgres, mysql, sqlite, clickhouse

	// File-based databases (DuckDB, SQLite)
	Path string `koanf:"path"`

	// Network databases
	DSN string `koanf:"dsn"`
}

// Load reads a config file. A missing path is not an error: the zero
// config applies.
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// LoadFromDir looks for sqldeps.yaml or sqldeps.yml in dir. Returns
// the zero config when neither exists.
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return &Config{}, nil
}
