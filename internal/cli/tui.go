package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gitlanes/pkg/graph"
	"github.com/matzehuels/gitlanes/pkg/render/sink"
)

// View styles
var (
	viewCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewStatusStyle = lipgloss.NewStyle().Foreground(colorWhite).Background(lipgloss.Color("236")).Padding(0, 1)
	viewRefStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	viewHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// chromeLines is the status bar plus the help line.
const chromeLines = 2

// =============================================================================
// View Command
// =============================================================================

// viewCommand creates the interactive history viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var flags feedFlags

	cmd := &cobra.Command{
		Use:   "view [repo]",
		Short: "Browse a commit history in the terminal",
		Long: `Browse a commit history in the terminal.

The layout is computed once; scrolling only redraws the rows on screen, so
large histories stay responsive.

Keys: j/k or arrows move, pgup/pgdn page, g/G jump to the ends, q quits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			flags.apply(cmd, &opts, args)
			if opts.Input == "-" {
				return fmt.Errorf("view reads keys from the terminal; pass a feed file instead of -")
			}

			runner, err := c.newRunner(cmd.Context(), flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			ctx := cmd.Context()
			commits, err := runner.Load(ctx, opts)
			if err != nil {
				return err
			}
			l, err := runner.Layout(ctx, commits, opts)
			if err != nil {
				return err
			}
			return runViewer(ctx, l)
		},
	}
	flags.register(cmd)
	return cmd
}

func runViewer(ctx context.Context, l graph.Layout) error {
	if l.Rows == 0 {
		printInfo("No commits to show")
		return nil
	}
	p := tea.NewProgram(newHistoryModel(l), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// =============================================================================
// HistoryModel - Virtualized history viewer
// =============================================================================

// HistoryModel is the bubbletea model for the history viewer. Only rows
// Top through Top+visibleRows()-1 are rendered on each frame.
type HistoryModel struct {
	Layout graph.Layout
	Cursor int
	Top    int
	Height int
	Width  int
}

func newHistoryModel(l graph.Layout) HistoryModel {
	return HistoryModel{Layout: l, Height: 24, Width: 80}
}

func (m HistoryModel) Init() tea.Cmd {
	return nil
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "down", "j":
			m.move(1)
		case "up", "k":
			m.move(-1)
		case "pgdown", "ctrl+f", " ":
			m.move(m.visibleRows())
		case "pgup", "ctrl+b":
			m.move(-m.visibleRows())
		case "home", "g":
			m.move(-m.Cursor)
		case "end", "G":
			m.move(m.Layout.Rows - 1 - m.Cursor)
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height
		m.Width = msg.Width
		m.move(0)
	}
	return m, nil
}

// visibleRows is how many commits fit; each takes two text lines.
func (m HistoryModel) visibleRows() int {
	return max((m.Height-chromeLines)/2, 1)
}

// move shifts the cursor by delta and scrolls to keep it on screen.
func (m *HistoryModel) move(delta int) {
	m.Cursor = min(max(m.Cursor+delta, 0), max(m.Layout.Rows-1, 0))
	rows := m.visibleRows()
	switch {
	case m.Cursor < m.Top:
		m.Top = m.Cursor
	case m.Cursor >= m.Top+rows:
		m.Top = m.Cursor - rows + 1
	}
	m.Top = min(m.Top, max(m.Layout.Rows-rows, 0))
}

func (m HistoryModel) View() string {
	rows := m.visibleRows()
	text := string(sink.RenderText(m.Layout,
		sink.WithTextWindow(m.Top, rows),
		sink.WithTextColors(nil),
		sink.WithTextFixedRows()))
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	var b strings.Builder
	for i := 0; i < 2*rows; i++ {
		gutter := "  "
		if i == 2*(m.Cursor-m.Top) {
			gutter = viewCursorStyle.Render("▸ ")
		}
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		b.WriteString(gutter + line + "\n")
	}
	b.WriteString(m.statusBar() + "\n")
	b.WriteString(viewHelpStyle.Render("j/k move  pgup/pgdn page  g/G ends  q quit"))
	return b.String()
}

// statusBar describes the commit under the cursor.
func (m HistoryModel) statusBar() string {
	if m.Cursor >= len(m.Layout.Commits) {
		return viewStatusStyle.Render("no commit")
	}
	c := m.Layout.Commits[m.Cursor]

	parts := []string{shortHash(c.SHA)}
	if c.Author != "" {
		parts = append(parts, c.Author)
	}
	if !c.When.IsZero() {
		parts = append(parts, c.When.Format("2006-01-02 15:04"))
	}
	for _, ref := range c.Refs {
		parts = append(parts, viewRefStyle.Render(ref.Name))
	}
	parts = append(parts, fmt.Sprintf("%d/%d", m.Cursor+1, m.Layout.Rows))

	bar := viewStatusStyle
	if m.Width > 0 {
		bar = bar.Width(m.Width)
	}
	return bar.Render(strings.Join(parts, "  "))
}

func shortHash(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
