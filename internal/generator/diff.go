package generator

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/term"
)

const (
	diffContext  = 3
	diffMaxLines = 4000
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("22"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("52"))
)

// Diff returns a plain unified diff between the file on disk and the
// generated content. Identical inputs give "".
func Diff(path string, existing, generated []byte) string {
	if bytes.Equal(existing, generated) {
		return ""
	}
	if isBinary(existing) || isBinary(generated) {
		return "Binary files differ\n"
	}

	a, b := diffLines(existing), diffLines(generated)
	if len(a) > diffMaxLines || len(b) > diffMaxLines {
		return fmt.Sprintf("Files too large for diff (%d and %d lines)\n", len(a), len(b))
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        a,
		B:        b,
		FromFile: path + " (existing)",
		ToFile:   path + " (generated)",
		Context:  diffContext,
	})
	if err != nil {
		return fmt.Sprintf("Failed to diff %s: %v\n", path, err)
	}
	return diff
}

// Colorize styles a diff produced by Diff for the terminal, truncating lines
// wider than the terminal.
func Colorize(diff string) string {
	width := terminalWidth() - 2
	var buf strings.Builder
	for _, line := range splitLines([]byte(diff)) {
		line = truncateLine(line, width)
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			line = headerStyle.Render(line)
		case strings.HasPrefix(line, "@@"):
			line = hunkStyle.Render(line)
		case strings.HasPrefix(line, "+"):
			line = addedStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			line = removedStyle.Render(line)
		}
		buf.WriteString(line + "\n")
	}
	return buf.String()
}

// diffLines splits data into newline-terminated lines. A missing final
// newline is not reported as a change.
func diffLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	return difflib.SplitLines(strings.TrimSuffix(string(data), "\n"))
}

func isBinary(data []byte) bool {
	return bytes.IndexByte(data[:min(len(data), 8192)], 0) != -1
}

// splitLines drops the empty element a trailing newline would produce.
func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func truncateLine(s string, width int) string {
	if width <= 3 || utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width-3]) + "..."
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
