package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/simonhull/nestling/internal/generator"
	"github.com/simonhull/nestling/internal/naming"
	"github.com/simonhull/nestling/internal/output"
	"github.com/simonhull/nestling/internal/settings"
	"github.com/simonhull/nestling/internal/templates"
)

// ModuleOptions holds configuration for module generation
type ModuleOptions struct {
	Name     string
	Resolver *generator.Resolver // decides about existing files; rejects if nil
	DryRun   bool
}

// registrationTarget is a project file a new module depends on. Files with a
// patch get the module added to them; the rest only have to exist.
type registrationTarget struct {
	path  string
	label string
	patch generator.PatchFunc
}

// GenerateModule adds a module to the project that contains Dir and registers
// it in app.py (and, for document stores, in config.py).
//
// The module's files are written first and registered second, so a collision
// with an existing module never touches app.py.
func (g *Generator) GenerateModule(ctx context.Context, opts ModuleOptions) (*Result, error) {
	res := &Result{Stage: StageRequested, Root: g.dir}

	d, err := naming.Resolve(opts.Name)
	if err != nil {
		return res.fail(err)
	}
	res.Module = d

	s, err := settings.Detect(g.fs, g.dir)
	if err != nil {
		return res.fail(err)
	}
	res.Root, res.Variant = s.Root(), s.Variant()
	output.Verbose("loaded settings", "path", s.Path, "variant", res.Variant)

	set, err := templates.Lookup(res.Variant)
	if err != nil {
		return res.fail(err)
	}

	targets := g.registrationTargets(res.Root, d, res.Variant)
	if err := g.checkRegistration(targets); err != nil {
		return res.fail(err)
	}
	if err := g.checkClassName(res.Root, d); err != nil {
		return res.fail(err)
	}
	res.Stage = StageValidated

	files, err := set.Render(templates.Context{
		Project: filepath.Base(res.Root),
		Module:  d,
		Variant: res.Variant,
	}, templates.ModuleKinds()...)
	if err != nil {
		return res.fail(err)
	}
	res.Stage = StageRendered

	ops := []generator.Operation{
		&generator.CreateFolderOp{Fs: g.fs, Path: filepath.Join(res.Root, filepath.FromSlash(d.Dir()))},
	}
	ops = append(ops, g.writeOps(res.Root, files)...)

	execOpts := generator.ExecuteOptions{DryRun: opts.DryRun, Resolver: opts.Resolver, Writer: g.out}
	report, err := generator.Execute(ctx, ops, execOpts)
	res.merge(report)
	if err != nil {
		return res.fail(err)
	}
	res.Stage = StageMaterialized

	patches := make([]generator.Operation, 0, len(targets))
	for _, t := range targets {
		if t.patch == nil {
			continue
		}
		patches = append(patches, &generator.PatchFileOp{Fs: g.fs, Path: t.path, Label: t.label, Patch: t.patch})
	}
	report, err = generator.Execute(ctx, patches, execOpts)
	res.merge(report)
	if err != nil {
		return res.fail(err)
	}
	res.Stage = StageRegistered
	output.Verbose("registered module", "module", d.ModuleClass(), "files", len(res.Files()))

	res.Stage = StageDone
	return res, nil
}

func (g *Generator) registrationTargets(root string, d naming.Descriptor, v templates.Variant) []registrationTarget {
	targets := []registrationTarget{{
		path:  filepath.Join(root, templates.AppFile),
		label: "register " + d.ModuleClass(),
		patch: registerModule(d),
	}}
	config := registrationTarget{path: filepath.Join(root, templates.ConfigFile)}
	if v.Dialect == templates.MongoDB {
		config.label = "register document " + d.Type
		config.patch = registerDocument(d)
	}
	return append(targets, config)
}

// checkRegistration makes sure every registration file exists and can be
// patched, before any module file is written.
func (g *Generator) checkRegistration(targets []registrationTarget) error {
	for _, t := range targets {
		content, err := afero.ReadFile(g.fs, t.path)
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s not found", ErrMissingConfig, t.path)
		}
		if err != nil {
			return fmt.Errorf("%w: reading %s: %w", generator.ErrIO, t.path, err)
		}
		if t.patch == nil {
			continue
		}
		if _, err := t.patch(content); err != nil {
			return fmt.Errorf("%s: %w", t.path, err)
		}
	}
	return nil
}

// checkClassName rejects a module whose classes would shadow another
// module's, e.g. "item_2" next to an existing "item2" (both Item2Module).
func (g *Generator) checkClassName(root string, d naming.Descriptor) error {
	app := filepath.Join(root, templates.AppFile)
	content, err := afero.ReadFile(g.fs, app)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", generator.ErrIO, app, err)
	}
	for _, from := range importSources(string(content), d.ModuleClass()) {
		if from != d.Import("module") {
			return fmt.Errorf("%w: %q resolves to %s, which %s already imports from %s",
				naming.ErrInvalidName, d.Raw, d.ModuleClass(), templates.AppFile, from)
		}
	}

	src := filepath.Join(root, naming.SourceDir)
	entries, err := afero.ReadDir(g.fs, src)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", generator.ErrIO, src, err)
	}
	for _, e := range entries {
		if !e.IsDir() || e.Name() == d.Name {
			continue
		}
		if other, err := naming.Resolve(e.Name()); err == nil && other.Type == d.Type {
			return fmt.Errorf("%w: %q resolves to %s, the same classes as %s",
				naming.ErrInvalidName, d.Raw, d.Type, path.Join(naming.SourceDir, e.Name()))
		}
	}
	return nil
}

// ListModules returns the module classes registered in the app.py of the
// project that contains Dir, in registration order.
func (g *Generator) ListModules() ([]string, error) {
	s, err := settings.Detect(g.fs, g.dir)
	if err != nil {
		return nil, err
	}
	return g.registered(s.Root())
}

// UnregisteredModules returns module packages under src/ whose module class
// is missing from app.py, usually left behind by an interrupted run.
func (g *Generator) UnregisteredModules() ([]naming.Descriptor, error) {
	s, err := settings.Detect(g.fs, g.dir)
	if err != nil {
		return nil, err
	}
	registered, err := g.registered(s.Root())
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(registered))
	for _, m := range registered {
		known[m] = true
	}

	src := filepath.Join(s.Root(), naming.SourceDir)
	entries, err := afero.ReadDir(g.fs, src)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", generator.ErrIO, src, err)
	}

	var out []naming.Descriptor
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		d, err := naming.Resolve(e.Name())
		if err != nil || d.Name != e.Name() {
			continue // not a package this tool would have written
		}
		if ok, _ := afero.Exists(g.fs, filepath.Join(s.Root(), filepath.FromSlash(d.File("module")))); ok && !known[d.ModuleClass()] {
			out = append(out, d)
		}
	}
	return out, nil
}

func (g *Generator) registered(root string) ([]string, error) {
	path := filepath.Join(root, templates.AppFile)
	content, err := afero.ReadFile(g.fs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s not found", ErrMissingConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", generator.ErrIO, path, err)
	}

	modules, err := registeredModules(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return modules, nil
}
