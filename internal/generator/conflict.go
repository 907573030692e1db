package generator

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConflictResolution is what to do with a target that already exists.
type ConflictResolution int

const (
	Skip ConflictResolution = iota
	Overwrite
	ShowDiff
	Cancel
)

// Conflict describes one existing target.
type Conflict struct {
	Path      string
	Existing  []byte
	Generated []byte
	ModTime   time.Time
}

// ConflictStrategy decides a single conflict.
type ConflictStrategy interface {
	Resolve(c Conflict) (ConflictResolution, error)
}

// Resolver applies a strategy to every conflict of a run.
type Resolver struct {
	strategy ConflictStrategy
}

// ResolverOptions mirrors the conflict flags of the generate command. At most
// one may be set; none means conflicts are rejected.
type ResolverOptions struct {
	Force       bool
	Skip        bool
	Diff        bool
	Interactive bool
	Out         io.Writer // where diffs are printed, os.Stdout if nil
}

var (
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	borderStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("white")).Bold(true)
)

// NewResolver builds a resolver from the conflict flags.
func NewResolver(opts ResolverOptions) (*Resolver, error) {
	set := 0
	for _, f := range []bool{opts.Force, opts.Skip, opts.Diff, opts.Interactive} {
		if f {
			set++
		}
	}
	if set > 1 {
		return nil, errors.New("only one of --force, --skip, --diff and --interactive may be given")
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	var s ConflictStrategy
	switch {
	case opts.Force:
		s = ForceStrategy{}
	case opts.Skip:
		s = SkipStrategy{}
	case opts.Diff:
		s = &DiffStrategy{Out: out, Then: &InteractiveStrategy{Out: out}}
	case opts.Interactive:
		s = &InteractiveStrategy{Out: out}
	default:
		s = RejectStrategy{}
	}
	return &Resolver{strategy: s}, nil
}

// RejectResolver is the default: every conflict is a collision.
func RejectResolver() *Resolver {
	return &Resolver{strategy: RejectStrategy{}}
}

// ResolveConflict decides what to do with an existing target.
func (r *Resolver) ResolveConflict(c Conflict) (ConflictResolution, error) {
	return r.strategy.Resolve(c)
}

// RejectStrategy cancels on every conflict.
type RejectStrategy struct{}

func (RejectStrategy) Resolve(Conflict) (ConflictResolution, error) { return Cancel, nil }

// ForceStrategy overwrites without asking.
type ForceStrategy struct{}

func (ForceStrategy) Resolve(Conflict) (ConflictResolution, error) { return Overwrite, nil }

// SkipStrategy keeps every existing file. Re-running a half-finished module
// with it fills in only the missing files.
type SkipStrategy struct{}

func (SkipStrategy) Resolve(Conflict) (ConflictResolution, error) { return Skip, nil }

// DiffStrategy prints the diff and hands the decision to Then.
type DiffStrategy struct {
	Out  io.Writer
	Then ConflictStrategy
}

func (s *DiffStrategy) Resolve(c Conflict) (ConflictResolution, error) {
	diff := Diff(c.Path, c.Existing, c.Generated)
	if diff == "" {
		fmt.Fprintf(s.Out, "%s is identical to the generated file\n", c.Path)
	} else if err := showDiff(s.Out, c.Path, diff); err != nil {
		return Cancel, err
	}
	return s.Then.Resolve(c)
}

// showDiff prints short diffs inline and pages long ones when Out is a terminal.
func showDiff(out io.Writer, path, diff string) error {
	if strings.Count(diff, "\n") <= 20 || out != os.Stdout || !isTerminal() {
		_, err := fmt.Fprintln(out, Colorize(diff))
		return err
	}

	if _, err := tea.NewProgram(newDiffViewerModel(path, Colorize(diff)), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to show diff: %w", err)
	}
	return nil
}

// InteractiveStrategy asks through a keyboard menu. Choosing "Show diff"
// prints the diff and asks again.
type InteractiveStrategy struct {
	Out io.Writer
}

func (s *InteractiveStrategy) Resolve(c Conflict) (ConflictResolution, error) {
	out := s.Out
	if out == nil {
		out = os.Stdout
	}

	for {
		final, err := tea.NewProgram(newConflictMenuModel(c), tea.WithOutput(out)).Run()
		if err != nil {
			return Cancel, fmt.Errorf("failed to show menu: %w", err)
		}

		result := final.(conflictMenuModel)
		if result.selected == nil {
			return Cancel, nil
		}
		if *result.selected != ShowDiff {
			return *result.selected, nil
		}
		if err := showDiff(out, c.Path, Diff(c.Path, c.Existing, c.Generated)); err != nil {
			return Cancel, err
		}
	}
}

type conflictMenuModel struct {
	conflict Conflict
	choices  []string
	cursor   int
	selected *ConflictResolution
}

func newConflictMenuModel(c Conflict) conflictMenuModel {
	return conflictMenuModel{
		conflict: c,
		choices: []string{
			"Show diff and decide",
			"Skip (keep existing file)",
			"Overwrite (replace with generated file)",
			"Cancel generation",
		},
	}
}

func (m conflictMenuModel) Init() tea.Cmd {
	return nil
}

func (m conflictMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter":
		resolution := []ConflictResolution{ShowDiff, Skip, Overwrite, Cancel}[m.cursor]
		m.selected = &resolution
		return m, tea.Quit
	}
	return m, nil
}

func (m conflictMenuModel) View() string {
	var b strings.Builder

	b.WriteString(warningStyle.Render("⚠️  File already exists: ") + titleStyle.Render(m.conflict.Path) + "\n")
	if !m.conflict.ModTime.IsZero() {
		b.WriteString(mutedStyle.Render("    Last modified: ") + formatRelativeTime(m.conflict.ModTime) + "\n")
	}
	b.WriteString(mutedStyle.Render("    Size: ") + formatFileSize(int64(len(m.conflict.Existing))) + "\n\n")
	b.WriteString(mutedStyle.Render("    [↑/↓] Navigate    [Enter] Select    [q] Cancel") + "\n\n")

	for i, choice := range m.choices {
		if m.cursor == i {
			b.WriteString("    " + selectedStyle.Render("> "+choice) + "\n")
		} else {
			b.WriteString("      " + choice + "\n")
		}
	}
	return b.String()
}

type diffViewerModel struct {
	path     string
	diff     string
	viewport viewport.Model
	ready    bool
}

func newDiffViewerModel(path, diff string) diffViewerModel {
	return diffViewerModel{path: path, diff: diff}
}

func (m diffViewerModel) Init() tea.Cmd {
	return nil
}

func (m diffViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		const chrome = 5 // header + footer rows
		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, msg.Height-chrome)
			m.viewport.SetContent(m.diff)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = msg.Height - chrome
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m diffViewerModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	title := fmt.Sprintf("─ Diff: %s ", m.path)
	b.WriteString(borderStyle.Render(fmt.Sprintf("┌%s%s┐", title, strings.Repeat("─", max(0, m.viewport.Width-len(title)+4)))) + "\n")
	for _, line := range strings.Split(m.viewport.View(), "\n") {
		pad := strings.Repeat(" ", max(0, m.viewport.Width-lipgloss.Width(line)-1))
		b.WriteString(borderStyle.Render("│") + " " + line + pad + borderStyle.Render("│") + "\n")
	}
	footer := " [↑/↓] Scroll    [q] Back to menu "
	b.WriteString(borderStyle.Render(fmt.Sprintf("└%s%s┘", strings.Repeat("─", max(0, m.viewport.Width-len(footer)+4)), footer)) + "\n")
	return b.String()
}

func formatRelativeTime(t time.Time) string {
	d := time.Since(t)
	unit := func(n int, name string) string {
		if n == 1 {
			return "1 " + name + " ago"
		}
		return fmt.Sprintf("%d %ss ago", n, name)
	}

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return unit(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return unit(int(d.Hours()), "hour")
	case d < 30*24*time.Hour:
		return unit(int(d.Hours()/24), "day")
	case d < 365*24*time.Hour:
		return unit(int(d.Hours()/24/30), "month")
	default:
		return unit(int(d.Hours()/24/365), "year")
	}
}

func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
