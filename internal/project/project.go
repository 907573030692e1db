// Package project generates PyNest projects and the modules inside them.
//
// A Generator works on an afero filesystem rooted at a working directory:
//
//	g := project.New(afero.NewOsFs(), cwd, os.Stdout)
//	res, err := g.GenerateProject(ctx, project.ProjectOptions{Name: "shop", Dialect: templates.SQLite})
//	res, err = g.GenerateModule(ctx, project.ModuleOptions{Name: "item"})
//
// Every precondition is checked before the first write. A failure part way
// through a write leaves what was written and reports it in Result.Report.
package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/simonhull/nestling/internal/generator"
	"github.com/simonhull/nestling/internal/naming"
	"github.com/simonhull/nestling/internal/output"
	"github.com/simonhull/nestling/internal/settings"
	"github.com/simonhull/nestling/internal/templates"
)

var (
	// ErrProjectAlreadyExists means the target project directory is taken.
	ErrProjectAlreadyExists = errors.New("project already exists")

	// ErrMissingConfig means the project's settings.yaml, app.py or config.py
	// is missing or has no registration list.
	ErrMissingConfig = settings.ErrMissingConfig
)

// Stage is how far a generation got.
type Stage int

const (
	StageRequested Stage = iota
	StageValidated
	StageRendered
	StageMaterialized
	StageRegistered
	StageDone
	StageFailed
)

var stageNames = [...]string{"requested", "validated", "rendered", "materialized", "registered", "done", "failed"}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Result describes one generation. It is returned alongside errors so
// callers can report partial progress.
type Result struct {
	Stage   Stage
	Root    string // project directory
	Variant templates.Variant
	Module  naming.Descriptor // zero for projects
	Report  *generator.Report
}

// Files returns the paths that were written or kept, relative to Root.
func (r *Result) Files() []string {
	if r.Report == nil {
		return nil
	}
	var out []string
	for _, p := range r.Report.Succeeded() {
		if rel, err := filepath.Rel(r.Root, p); err == nil {
			out = append(out, filepath.ToSlash(rel))
		}
	}
	return out
}

func (r *Result) fail(err error) (*Result, error) {
	r.Stage = StageFailed
	return r, err
}

func (r *Result) merge(report *generator.Report) {
	if report == nil {
		return
	}
	if r.Report == nil {
		r.Report = &generator.Report{}
	}
	r.Report.Entries = append(r.Report.Entries, report.Entries...)
}

// Generator creates projects in Dir and modules in the project containing Dir.
type Generator struct {
	fs  afero.Fs
	dir string
	out io.Writer
}

// New creates a generator. out receives one line per written file; nil means
// os.Stdout.
func New(fsys afero.Fs, dir string, out io.Writer) *Generator {
	if out == nil {
		out = os.Stdout
	}
	return &Generator{fs: fsys, dir: dir, out: out}
}

// ProjectOptions holds configuration for project generation
type ProjectOptions struct {
	Name    string
	Dialect templates.Dialect
	Async   bool
	Docker  bool // also write Dockerfile and .dockerignore
	DryRun  bool
}

// GenerateProject writes a new project into Dir/Name.
func (g *Generator) GenerateProject(ctx context.Context, opts ProjectOptions) (*Result, error) {
	variant := templates.Variant{Dialect: opts.Dialect, Mode: templates.ModeOf(opts.Async)}
	res := &Result{Stage: StageRequested, Root: filepath.Join(g.dir, opts.Name), Variant: variant}

	if err := naming.ValidateProjectName(opts.Name); err != nil {
		return res.fail(err)
	}
	set, err := templates.Lookup(variant)
	if err != nil {
		return res.fail(err)
	}

	exists, err := afero.Exists(g.fs, res.Root)
	if err != nil {
		return res.fail(fmt.Errorf("%w: stat %s: %w", generator.ErrIO, res.Root, err))
	}
	if exists {
		return res.fail(fmt.Errorf("%w: %s", ErrProjectAlreadyExists, res.Root))
	}
	res.Stage = StageValidated
	output.Verbose("generating project", "root", res.Root, "variant", variant)

	files, err := set.Render(templates.Context{Project: opts.Name, Variant: variant}, templates.ProjectKinds(opts.Docker)...)
	if err != nil {
		return res.fail(err)
	}
	res.Stage = StageRendered

	ops := []generator.Operation{
		&generator.CreateFolderOp{Fs: g.fs, Path: res.Root},
		&generator.CreateFolderOp{Fs: g.fs, Path: filepath.Join(res.Root, naming.SourceDir)},
	}
	ops = append(ops, g.writeOps(res.Root, files)...)

	report, err := generator.Execute(ctx, ops, generator.ExecuteOptions{DryRun: opts.DryRun, Writer: g.out})
	res.merge(report)
	if err != nil {
		return res.fail(err)
	}

	res.Stage = StageDone
	return res, nil
}

func (g *Generator) writeOps(root string, files []templates.File) []generator.Operation {
	ops := make([]generator.Operation, 0, len(files))
	for _, f := range files {
		ops = append(ops, &generator.WriteFileOp{
			Fs:      g.fs,
			Path:    filepath.Join(root, filepath.FromSlash(f.Path)),
			Content: f.Content,
			Mode:    0o644,
		})
	}
	return ops
}
