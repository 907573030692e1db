// Package config loads the tool's own defaults from .nestling.yaml and
// NESTLING_* environment variables.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/nestling/internal/templates"
)

const (
	FileName  = ".nestling.yaml"
	EnvPrefix = "NESTLING"
)

// Defaults are used by `nestling new` when a flag is not given.
type Defaults struct {
	DBType string `yaml:"db_type"`
	Async  bool   `yaml:"async"`
	Docker bool   `yaml:"docker"`
}

// Config is the merged result of defaults, config file and environment.
type Config struct {
	Defaults Defaults `yaml:"defaults"`
	Verbose  bool     `yaml:"verbose"`

	Path string `yaml:"-"` // file that was read, empty if none
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{Defaults: Defaults{DBType: string(templates.PostgreSQL)}}
}

// Load reads explicit if given, otherwise .nestling.yaml in dir when present.
// Environment variables override the file: NESTLING_DEFAULTS_DB_TYPE,
// NESTLING_DEFAULTS_ASYNC, NESTLING_DEFAULTS_DOCKER, NESTLING_VERBOSE.
func Load(fsys afero.Fs, dir, explicit string) (*Config, error) {
	def := Default()

	v := viper.New()
	v.SetFs(fsys)
	v.SetConfigType("yaml")
	v.SetDefault("defaults.db_type", def.Defaults.DBType)
	v.SetDefault("defaults.async", def.Defaults.Async)
	v.SetDefault("defaults.docker", def.Defaults.Docker)
	v.SetDefault("verbose", def.Verbose)

	// Enable environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := explicit
	if path == "" {
		candidate := filepath.Join(dir, FileName)
		if ok, _ := afero.Exists(fsys, candidate); ok {
			path = candidate
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	cfg := &Config{
		Defaults: Defaults{
			DBType: v.GetString("defaults.db_type"),
			Async:  v.GetBool("defaults.async"),
			Docker: v.GetBool("defaults.docker"),
		},
		Verbose: v.GetBool("verbose"),
		Path:    path,
	}

	if _, err := cfg.Dialect(); err != nil {
		return nil, fmt.Errorf("defaults.db_type: %w", err)
	}
	return cfg, nil
}

// Dialect parses Defaults.DBType.
func (c *Config) Dialect() (templates.Dialect, error) {
	return templates.ParseDialect(c.Defaults.DBType)
}

// Marshal encodes c in the .nestling.yaml format.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Write saves c to path, refusing to replace an existing file.
func (c *Config) Write(fsys afero.Fs, path string) error {
	if ok, _ := afero.Exists(fsys, path); ok {
		return fmt.Errorf("%s already exists", path)
	}
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
