package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simonhull/nestling/internal/input"
	"github.com/simonhull/nestling/internal/output"
	"github.com/simonhull/nestling/internal/project"
	"github.com/simonhull/nestling/internal/templates"
)

// NewCmd creates and returns the 'new' command for scaffolding projects
func NewCmd(app *App) *cobra.Command {
	var db, dir string
	var async, docker, dryRun bool

	cmd := &cobra.Command{
		Use:   "new [project-name]",
		Short: "Create a new PyNest project",
		Long: `Creates a new PyNest project with:
• main.py, app.py (module registry) and config.py
• requirements.txt for the chosen database driver
• settings.yaml recording the database and sync/async mode
• an empty src/ package for modules

Without a name, --db or --async you are asked for them when running in a
terminal; otherwise the configured defaults are used.

Example:
  nestling new shop --db postgresql --async`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config()
			interactive := app.Interactive != nil && app.Interactive()
			p := input.New(app.In, cmd.OutOrStdout())

			var name string
			switch {
			case len(args) == 1:
				name = args[0]
			case interactive:
				name = p.Prompt("Project name", "")
			}
			if name == "" {
				return errors.New("a project name is required")
			}

			dialect, err := chooseDialect(cmd, app, p, db, interactive)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("async") {
				async = cfg.Defaults.Async
				if interactive {
					async = p.Confirm("Generate async code?", async)
				}
			}
			if !cmd.Flags().Changed("docker") {
				docker = cfg.Defaults.Docker
			}

			target := app.Dir
			if dir != "" {
				target = dir
				if !filepath.IsAbs(dir) {
					target = filepath.Join(app.Dir, dir)
				}
			}

			output.Verbose("creating project", "name", name, "dir", target, "dialect", dialect, "async", async)

			g := project.New(app.Fs, target, cmd.OutOrStdout())
			if _, err := g.GenerateProject(cmd.Context(), project.ProjectOptions{
				Name:    name,
				Dialect: dialect,
				Async:   async,
				Docker:  docker,
				DryRun:  dryRun,
			}); err != nil {
				return err
			}
			if dryRun {
				return nil
			}

			output.Success(fmt.Sprintf("Created PyNest project: %s", name))
			output.Info("Next steps:")
			output.Step(fmt.Sprintf("cd %s", name))
			output.Step("pip install -r requirements.txt")
			output.Step("nestling generate module <name>")
			output.Step("python main.py")
			return nil
		},
	}

	cmd.Flags().StringVar(&db, "db", "", "Database: postgresql, mysql, sqlite or mongodb")
	cmd.Flags().BoolVar(&async, "async", false, "Generate async services and sessions")
	cmd.Flags().BoolVar(&docker, "docker", false, "Also write a Dockerfile and .dockerignore")
	cmd.Flags().StringVar(&dir, "dir", "", "Create the project inside this directory")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be generated without creating files")

	return cmd
}

// chooseDialect takes --db, then asks in a terminal, then falls back to the
// configured default.
func chooseDialect(cmd *cobra.Command, app *App, p *input.Prompter, flag string, interactive bool) (templates.Dialect, error) {
	if cmd.Flags().Changed("db") {
		return templates.ParseDialect(flag)
	}

	def, err := app.Config().Dialect()
	if err != nil {
		return "", err
	}
	if !interactive {
		return def, nil
	}

	options := make([]string, 0, len(templates.Dialects()))
	for _, d := range templates.Dialects() {
		options = append(options, d.String())
	}
	answer, err := p.Select("Database", options, def.String())
	if err != nil {
		return "", err
	}
	return templates.ParseDialect(answer)
}
