package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/nestling/internal/output"
	"github.com/simonhull/nestling/internal/project"
)

// ModuleCmd returns the module command with its subcommands
func ModuleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "module",
		Short: "Inspect the modules of a PyNest project",
	}

	cmd.AddCommand(moduleListCmd(app))

	return cmd
}

func moduleListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List modules registered in app.py",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := project.New(app.Fs, app.Dir, cmd.OutOrStdout())
			modules, err := g.ListModules()
			if err != nil {
				return err
			}

			if len(modules) == 0 {
				output.Info("No modules registered")
				output.Step("nestling generate module <name>")
			} else {
				output.Info(fmt.Sprintf("Registered modules (%d):", len(modules)))
				for _, m := range modules {
					output.Step(m)
				}
			}

			orphans, err := g.UnregisteredModules()
			if err != nil {
				return err
			}
			for _, d := range orphans {
				output.Warn("module folder is not registered in app.py", "dir", d.Dir(), "fix", "nestling generate module "+d.Name+" --skip")
			}
			return nil
		},
	}
}
