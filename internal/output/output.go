// Package output provides styled terminal output for the nestling CLI.
//
// Success, Error, Info and Step print user-facing lines. Verbose diagnostics go
// through a leveled logger that only shows debug entries after SetVerbose(true).
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	out    io.Writer = os.Stdout
	errOut io.Writer = os.Stderr

	// Logger carries verbose diagnostics.
	Logger = newLogger(os.Stderr, false)
)

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "nestling",
		ReportTimestamp: verbose,
	})
}

// SetOutput redirects user-facing output and the logger. Tests use it to
// capture what a command prints.
func SetOutput(stdout, stderr io.Writer) {
	out, errOut = stdout, stderr
	Logger = newLogger(stderr, Logger.GetLevel() == log.DebugLevel)
}

// SetVerbose enables debug logging.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	Logger = newLogger(errOut, v)
}

// Success prints a completed operation.
//
//	output.Success("Created project: shop")
func Success(msg string) {
	fmt.Fprintln(out, successStyle.Render("🔥 "+msg))
}

// Error prints a failure that needs attention.
func Error(msg string) {
	fmt.Fprintln(errOut, errorStyle.Render("❌ "+msg))
}

// Info prints a status update.
func Info(msg string) {
	fmt.Fprintln(out, infoStyle.Render("ℹ️  "+msg))
}

// Step prints an indented sub-item, e.g. a next step.
//
//	output.Step("cd shop")
//	output.Step("pip install -r requirements.txt")
func Step(msg string) {
	fmt.Fprintln(out, stepStyle.Render("   "+msg))
}

// Verbose logs a debug message with key/value pairs. Hidden unless verbose.
//
//	output.Verbose("loaded settings", "path", s.Path, "variant", s.Variant())
func Verbose(msg string, keyvals ...any) {
	Logger.Debug(msg, keyvals...)
}

// Warn logs a warning.
func Warn(msg string, keyvals ...any) {
	Logger.Warn(msg, keyvals...)
}
