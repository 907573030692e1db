package commands

import (
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/simonhull/nestling"
	"github.com/simonhull/nestling/internal/config"
	"github.com/simonhull/nestling/internal/input"
	"github.com/simonhull/nestling/internal/output"
)

// App is what the commands need from the process. Tests swap in an in-memory
// filesystem and canned input.
type App struct {
	Fs          afero.Fs
	Dir         string    // working directory
	In          io.Reader // answers to prompts
	Interactive func() bool

	cfg *config.Config
}

// NewApp returns an App bound to the real filesystem, cwd and terminal.
func NewApp() (*App, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return &App{Fs: afero.NewOsFs(), Dir: dir, In: os.Stdin, Interactive: input.IsInteractive}, nil
}

// Config returns the loaded tool configuration, or the defaults before the
// root command has run.
func (a *App) Config() *config.Config {
	if a.cfg == nil {
		return config.Default()
	}
	return a.cfg
}

// RootCmd creates and returns the root command for the nestling CLI
func RootCmd(app *App) *cobra.Command {
	var verbose bool
	var configPath string

	cmd := &cobra.Command{
		Use:   "nestling",
		Short: "Scaffold PyNest projects and modules",
		Long: `nestling generates PyNest applications: FastAPI controllers, services and
SQLAlchemy or Beanie entities, wired into a module registry.

• Create a project for postgresql, mysql, sqlite or mongodb, sync or async
• Add modules that are registered in app.py automatically
• Never overwrite your files unless asked to`,
		Version:       nestling.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(app.Fs, app.Dir, configPath)
			if err != nil {
				return err
			}
			app.cfg = cfg

			output.SetVerbose(verbose || cfg.Verbose)
			if cfg.Path != "" {
				output.Verbose("loaded config", "path", cfg.Path)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default is ./"+config.FileName+")")

	return cmd
}
