// Package settings reads the settings.yaml that records a project's dialect
// and sync/async mode.
package settings

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/simonhull/nestling/internal/templates"
)

// FileName is written at the project root by the template set.
const FileName = templates.SettingsFile

// ErrMissingConfig means the project's settings or one of its registration
// files is missing or unusable.
var ErrMissingConfig = errors.New("missing project configuration")

// Settings is the parsed content of settings.yaml.
type Settings struct {
	Path    string // settings.yaml that was read
	Dialect templates.Dialect
	Async   bool
}

// Variant returns the template variant the project was generated with.
func (s *Settings) Variant() templates.Variant {
	return templates.Variant{Dialect: s.Dialect, Mode: templates.ModeOf(s.Async)}
}

// Root returns the project directory.
func (s *Settings) Root() string {
	return filepath.Dir(s.Path)
}

// Load reads settings.yaml from the project at root.
func Load(fsys afero.Fs, root string) (*Settings, error) {
	path := filepath.Join(root, FileName)

	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s not found. Are you in a project directory?", ErrMissingConfig, path)
	}

	v := viper.New()
	v.SetFs(fsys)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", ErrMissingConfig, path, err)
	}

	for _, key := range []string{"config.db_type", "config.is_async"} {
		if !v.IsSet(key) {
			return nil, fmt.Errorf("%w: %s not specified in %s", ErrMissingConfig, key, path)
		}
	}

	dialect, err := templates.ParseDialect(v.GetString("config.db_type"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Settings{
		Path:    path,
		Dialect: dialect,
		Async:   v.GetBool("config.is_async"),
	}, nil
}

// Detect looks for settings.yaml in dir and then in each parent, so module
// generation works from anywhere inside a project.
func Detect(fsys afero.Fs, dir string) (*Settings, error) {
	start := filepath.Clean(dir)
	for d := start; ; d = filepath.Dir(d) {
		if ok, _ := afero.Exists(fsys, filepath.Join(d, FileName)); ok {
			return Load(fsys, d)
		}
		if filepath.Dir(d) == d {
			break
		}
	}
	return nil, fmt.Errorf("%w: no %s found in %s or any parent directory", ErrMissingConfig, FileName, start)
}
