// Package results shows the post-session report: per-task statistics,
// repeated confusions, attention stability, and export shortcuts.
package results

import (
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexiscreen/internal/export"
	"github.com/abhisek/lexiscreen/internal/metrics"
	"github.com/abhisek/lexiscreen/internal/router"
	"github.com/abhisek/lexiscreen/internal/screen"
	"github.com/abhisek/lexiscreen/internal/ui/layout"
	"github.com/abhisek/lexiscreen/internal/ui/theme"
)

type exportDoneMsg struct {
	Path string
	Err  error
}

// ResultsScreen displays one finished session.
type ResultsScreen struct {
	session metrics.SessionData
	saveErr error
	status  string
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates the results view. saveErr, when non-nil, is the failure to
// persist the session; it is surfaced but does not block the report.
func New(session metrics.SessionData, saveErr error) *ResultsScreen {
	return &ResultsScreen{session: session, saveErr: saveErr}
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "J", Description: "Export JSON"},
		{Key: "C", Description: "Export CSV"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case exportDoneMsg:
		if msg.Err != nil {
			s.status = fmt.Sprintf("Export failed: %v", msg.Err)
		} else {
			s.status = fmt.Sprintf("Saved %s", msg.Path)
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "j", "J":
			return s, s.export("json")
		case "c", "C":
			return s, s.export("csv")
		}
	}
	return s, nil
}

// export writes the report next to the working directory, named after the
// session id.
func (s *ResultsScreen) export(format string) tea.Cmd {
	session := s.session
	return func() tea.Msg {
		id := session.ID
		if len(id) > 8 {
			id = id[:8]
		}
		path := fmt.Sprintf("lexiscreen-%s.%s", id, format)

		f, err := os.Create(path)
		if err != nil {
			return exportDoneMsg{Err: err}
		}
		defer f.Close()

		if format == "csv" {
			err = export.WriteCSV(f, session)
		} else {
			err = export.WriteJSON(f, session)
		}
		if err != nil {
			return exportDoneMsg{Err: err}
		}
		return exportDoneMsg{Path: path}
	}
}

func (s *ResultsScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	b.WriteString(theme.Title.Width(width).Render("Screening Complete"))
	b.WriteString("\n\n")

	if s.saveErr != nil {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("Could not save this run: %v", s.saveErr)))
		b.WriteString("\n\n")
	}

	b.WriteString(s.renderTaskTable(width))
	b.WriteString("\n")
	b.WriteString(s.renderConfusions(width))
	b.WriteString("\n")
	b.WriteString(s.renderStability(width))
	b.WriteString("\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
		Render("A screening aid, not a diagnosis. Discuss notable results with a specialist."))

	if s.status != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Accent).
			Render(s.status))
	}

	return b.String()
}

func (s *ResultsScreen) renderTaskTable(width int) string {
	var b strings.Builder

	header := fmt.Sprintf("  %-28s %7s %9s %11s %8s", "Task", "Trials", "Correct", "Median RT", "Timeouts")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(header)))
	b.WriteString("\n")

	for _, task := range s.session.Tasks {
		sum := task.Summary
		line := fmt.Sprintf("  %-28s %7d %8.0f%% %11s %8d",
			truncate(task.Title, 28),
			sum.TotalTrials,
			sum.Accuracy,
			formatRT(sum.MedianRT),
			sum.Timeouts,
		)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Text).Render(line)))
		b.WriteString("\n")
	}

	if len(s.session.Tasks) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("No scored tasks in this run."))
		b.WriteString("\n")
	}

	return b.String()
}

func (s *ResultsScreen) renderConfusions(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Secondary).Bold(true).
		Render("Repeated confusions"))
	b.WriteString("\n")

	repeated := s.session.RepeatedConfusions()
	if len(repeated) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("none detected"))
		b.WriteString("\n")
		return b.String()
	}

	for _, c := range repeated {
		parts := strings.SplitN(c.Key, "->", 2)
		line := c.Key
		if len(parts) == 2 {
			line = fmt.Sprintf("saw %q, chose %q", parts[0], parts[1])
		}
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Accent).
			Render(fmt.Sprintf("%s — %d times", line, c.Count)))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *ResultsScreen) renderStability(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Secondary).Bold(true).
		Render("Attention stability"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).
		Render(fmt.Sprintf("RT spread %s   variability %s",
			formatRT(s.session.Stability.RTStdDev),
			formatPercent(s.session.Stability.CoefficientOfVariation))))
	b.WriteString("\n")
	return b.String()
}

func formatRT(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.0f ms", *v)
}

func formatPercent(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", *v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
