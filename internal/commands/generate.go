package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/nestling/internal/generator"
	"github.com/simonhull/nestling/internal/output"
	"github.com/simonhull/nestling/internal/project"
)

// GenerateCmd creates and returns the 'generate' command for code generation
func GenerateCmd(app *App) *cobra.Command {
	var force, skip, diff, interactive, dryRun bool

	cmd := &cobra.Command{
		Use:     "generate [type] [name]",
		Aliases: []string{"g"},
		Short:   "Generate code inside a PyNest project",
		Long: `Generate code inside the project that contains the current directory.

Available types:
  module   - Create src/<name>/ with module, controller, service, model and
             entity files, and register the module in app.py

Existing files are never overwritten by default: generation stops before
writing anything and lists the files in the way. Choose what to do with them:
  --skip         keep existing files and write only the missing ones
  --force        overwrite existing files
  --diff         show a diff of each existing file, then ask
  --interactive  ask about each existing file

Examples:
  nestling generate module item
  nestling g module OrderLine --dry-run
  nestling generate module item --skip   # finish an interrupted run`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, name := args[0], args[1]
			if kind != "module" {
				return fmt.Errorf("unknown type %q (available: module)", kind)
			}

			resolver, err := generator.NewResolver(generator.ResolverOptions{
				Force:       force,
				Skip:        skip,
				Diff:        diff,
				Interactive: interactive,
				Out:         cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}

			g := project.New(app.Fs, app.Dir, cmd.OutOrStdout())
			res, err := g.GenerateModule(cmd.Context(), project.ModuleOptions{
				Name:     name,
				Resolver: resolver,
				DryRun:   dryRun,
			})
			if err != nil {
				explain(err)
				return err
			}
			if dryRun {
				return nil
			}

			output.Success(fmt.Sprintf("Created module %s in %s", res.Module.ModuleClass(), res.Module.Dir()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be generated without creating files")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files without asking")
	cmd.Flags().BoolVar(&skip, "skip", false, "Keep existing files and write only missing ones")
	cmd.Flags().BoolVar(&diff, "diff", false, "Show diff of existing files before deciding")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Ask what to do with each existing file")
	cmd.MarkFlagsMutuallyExclusive("force", "skip", "diff", "interactive")

	return cmd
}

// explain prints hints for errors the user can act on.
func explain(err error) {
	var me *generator.MaterializeError
	switch {
	case errors.As(err, &me):
		for _, e := range me.Report.Incomplete() {
			output.Step(fmt.Sprintf("%s: %s", e.Status, e.Path))
		}
		output.Info("Fix the problem and re-run with --skip to write the missing files")
	case errors.Is(err, generator.ErrPathCollision):
		output.Info("Use --skip to keep existing files, --force to replace them or --diff to compare")
	case errors.Is(err, project.ErrMissingConfig):
		output.Info("Run this inside a project created with `nestling new`")
	}
}
