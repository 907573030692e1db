package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simonhull/nestling/internal/config"
	"github.com/simonhull/nestling/internal/output"
)

// ConfigCmd returns the config command for the tool's own defaults
func ConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create nestling defaults",
		Long: `nestling reads defaults for 'nestling new' from ./` + config.FileName + ` (or --config)
and from NESTLING_* environment variables, e.g. NESTLING_DEFAULTS_DB_TYPE=sqlite.
Flags always win over configured defaults.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.Config().Marshal()
			if err != nil {
				return err
			}
			if path := app.Config().Path; path != "" {
				output.Verbose("config file", "path", path)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write " + config.FileName + " with the current defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(app.Dir, config.FileName)
			if err := app.Config().Write(app.Fs, path); err != nil {
				return err
			}
			output.Success(fmt.Sprintf("Created %s", path))
			return nil
		},
	})

	return cmd
}
