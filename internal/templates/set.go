package templates

import (
	"fmt"

	"github.com/simonhull/nestling/internal/naming"
)

// Context is the complete input of a render pass. Nothing else influences
// rendered output.
type Context struct {
	Project string            // project (directory) name
	Module  naming.Descriptor // zero value when rendering project files
	Variant Variant
}

// File is one rendered (path, content) pair. Path is project-relative and
// slash-separated.
type File struct {
	Kind    Kind
	Path    string
	Content []byte
}

// Set is the template family of one variant. Every kind maps to exactly one
// template; nothing is inherited from another family at render time.
type Set struct {
	variant  Variant
	files    map[Kind]string
	renderer *Renderer
}

// registry holds every supported variant. Each entry names a template for
// every kind.
var registry = map[Variant]map[Kind]string{
	{PostgreSQL, Sync}:  sqlFiles(PostgreSQL, Sync),
	{PostgreSQL, Async}: sqlFiles(PostgreSQL, Async),
	{MySQL, Sync}:       sqlFiles(MySQL, Sync),
	{MySQL, Async}:      sqlFiles(MySQL, Async),
	{SQLite, Sync}:      sqlFiles(SQLite, Sync),
	{SQLite, Async}:     sqlFiles(SQLite, Async),
	{MongoDB, Async}:    mongoFiles(),
}

// rejected lists the variants that are refused on purpose, with the reason.
var rejected = map[Variant]string{
	{MongoDB, Sync}: "the beanie/motor document store only has an async driver",
}

func sqlFiles(d Dialect, m Mode) map[Kind]string {
	family := "sql/" + m.String() + "/"
	dialect := string(d) + "/"
	return map[Kind]string{
		MainEntry:         "base/main.py.tmpl",
		Readme:            "base/readme.md.tmpl",
		AppEntry:          family + "app.py.tmpl",
		ProjectConfig:     dialect + "config_" + m.String() + ".py.tmpl",
		Requirements:      dialect + "requirements_" + m.String() + ".txt.tmpl",
		Gitignore:         "base/gitignore.tmpl",
		Settings:          family + "settings.yaml.tmpl",
		SourceMarker:      "base/empty.py.tmpl",
		Dockerfile:        "base/dockerfile.tmpl",
		Dockerignore:      "base/dockerignore.tmpl",
		PackageMarker:     "base/empty.py.tmpl",
		ModuleWiring:      "base/module.py.tmpl",
		HTTPController:    family + "controller.py.tmpl",
		ServiceLayer:      family + "service.py.tmpl",
		DataModel:         "base/model.py.tmpl",
		PersistenceEntity: family + "entity.py.tmpl",
	}
}

func mongoFiles() map[Kind]string {
	return map[Kind]string{
		MainEntry:         "base/main.py.tmpl",
		Readme:            "base/readme.md.tmpl",
		AppEntry:          "mongodb/app.py.tmpl",
		ProjectConfig:     "mongodb/config.py.tmpl",
		Requirements:      "mongodb/requirements.txt.tmpl",
		Gitignore:         "base/gitignore.tmpl",
		Settings:          "mongodb/settings.yaml.tmpl",
		SourceMarker:      "base/empty.py.tmpl",
		Dockerfile:        "base/dockerfile.tmpl",
		Dockerignore:      "base/dockerignore.tmpl",
		PackageMarker:     "base/empty.py.tmpl",
		ModuleWiring:      "base/module.py.tmpl",
		HTTPController:    "mongodb/controller.py.tmpl",
		ServiceLayer:      "mongodb/service.py.tmpl",
		DataModel:         "base/model.py.tmpl",
		PersistenceEntity: "mongodb/entity.py.tmpl",
	}
}

// Lookup returns the template family for v, or ErrUnsupportedDialect.
func Lookup(v Variant) (*Set, error) {
	if reason, ok := rejected[v]; ok {
		return nil, fmt.Errorf("%w: %s: %s", ErrUnsupportedDialect, v, reason)
	}
	paths, ok := registry[v]
	if !ok {
		return nil, fmt.Errorf("%w: no templates for %s", ErrUnsupportedDialect, v)
	}
	return &Set{variant: v, files: paths, renderer: NewRenderer()}, nil
}

// Variant returns the variant this set renders.
func (s *Set) Variant() Variant {
	return s.variant
}

// Render renders kinds in order. The context's variant must match the set,
// and module kinds need a module descriptor.
func (s *Set) Render(ctx Context, kinds ...Kind) ([]File, error) {
	if ctx.Variant != s.variant {
		return nil, fmt.Errorf("context variant %s does not match template set %s", ctx.Variant, s.variant)
	}

	out := make([]File, 0, len(kinds))
	for _, k := range kinds {
		if k.IsModule() && ctx.Module.Name == "" {
			return nil, fmt.Errorf("rendering %s requires a module", k)
		}
		path, ok := s.files[k]
		if !ok {
			return nil, fmt.Errorf("%w: %s has no template for %s", ErrUnsupportedDialect, s.variant, k)
		}
		content, err := s.renderer.Render(path, ctx)
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", k, err)
		}
		out = append(out, File{Kind: k, Path: k.Path(ctx.Module), Content: content})
	}
	return out, nil
}
