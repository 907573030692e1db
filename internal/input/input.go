// Package input asks the user for answers when a flag was left out.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Prompter reads answers from in and writes questions to out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a prompter. Stdin/stdout are used for nil arguments.
func New(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Prompt asks for text input. An empty answer returns defaultValue.
//
//	name := p.Prompt("Project name", "shop")
//	// Displays: Project name (shop): _
func (p *Prompter) Prompt(message, defaultValue string) string {
	if defaultValue != "" {
		fmt.Fprint(p.out, promptStyle.Render(message)+" "+hintStyle.Render(fmt.Sprintf("(%s)", defaultValue))+": ")
	} else {
		fmt.Fprint(p.out, promptStyle.Render(message)+": ")
	}

	answer, err := p.readLine()
	if err != nil || answer == "" {
		return defaultValue
	}
	return answer
}

// Confirm asks a yes/no question. An empty answer returns defaultYes.
func (p *Prompter) Confirm(message string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprint(p.out, promptStyle.Render(message)+" "+hintStyle.Render(hint)+": ")

	answer, err := p.readLine()
	if err != nil || answer == "" {
		return defaultYes
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

// Select shows a numbered list and returns the chosen option. The answer may
// be the number or the option itself; an empty answer picks defaultValue.
// Invalid answers are asked again until input runs out.
func (p *Prompter) Select(message string, options []string, defaultValue string) (string, error) {
	fmt.Fprintln(p.out, promptStyle.Render(message))
	for i, o := range options {
		marker := " "
		if o == defaultValue {
			marker = "*"
		}
		fmt.Fprintf(p.out, "  %s %d) %s\n", marker, i+1, o)
	}

	for {
		fmt.Fprint(p.out, hintStyle.Render(fmt.Sprintf("Choose 1-%d (%s)", len(options), defaultValue))+": ")
		answer, err := p.readLine()
		if err != nil {
			return "", fmt.Errorf("no selection made: %w", err)
		}
		if answer == "" {
			return defaultValue, nil
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		for _, o := range options {
			if strings.EqualFold(o, answer) {
				return o, nil
			}
		}
		fmt.Fprintln(p.out, hintStyle.Render(fmt.Sprintf("%q is not one of the options", answer)))
	}
}
