package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/simonhull/nestling/internal/commands"
	"github.com/simonhull/nestling/internal/output"
)

func main() {
	app, err := commands.NewApp()
	if err != nil {
		output.Error(err.Error())
		os.Exit(1)
	}

	rootCmd := commands.RootCmd(app)
	rootCmd.AddCommand(commands.NewCmd(app))
	rootCmd.AddCommand(commands.GenerateCmd(app))
	rootCmd.AddCommand(commands.ModuleCmd(app))
	rootCmd.AddCommand(commands.ConfigCmd(app))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output.Error(err.Error())
		stop()
		os.Exit(1)
	}
}
