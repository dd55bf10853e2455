// Package history lists stored screening sessions and opens their
// reports.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexiscreen/internal/router"
	"github.com/abhisek/lexiscreen/internal/screen"
	"github.com/abhisek/lexiscreen/internal/screens/results"
	"github.com/abhisek/lexiscreen/internal/store"
	"github.com/abhisek/lexiscreen/internal/ui/layout"
	"github.com/abhisek/lexiscreen/internal/ui/theme"
)

type historyLoadedMsg struct {
	Sessions []store.SessionInfo
	Err      error
}

type sessionLoadedMsg struct {
	Screen screen.Screen
	Err    error
}

// HistoryScreen displays past sessions, most recent first.
type HistoryScreen struct {
	st       *store.Store
	sessions []store.SessionInfo
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(st *store.Store) *HistoryScreen {
	return &HistoryScreen{st: st}
}

func (s *HistoryScreen) Init() tea.Cmd {
	st := s.st
	return func() tea.Msg {
		sessions, err := st.ListSessions(context.Background(), 50)
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open report"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case sessionLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: msg.Screen} }

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			if s.selected >= 0 && s.selected < len(s.sessions) {
				return s, s.openReport(s.sessions[s.selected].ID)
			}
		}
	}
	return s, nil
}

// openReport loads the stored session and pushes its results view.
func (s *HistoryScreen) openReport(id string) tea.Cmd {
	st := s.st
	return func() tea.Msg {
		data, err := st.LoadSession(context.Background(), id)
		if err != nil {
			return sessionLoadedMsg{Err: err}
		}
		if data == nil {
			return sessionLoadedMsg{Err: fmt.Errorf("session %s no longer exists", id)}
		}
		return sessionLoadedMsg{Screen: results.New(*data, nil)}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, info := range s.sessions {
		dateStr := info.StartedAt.Format("Jan 02, 2006 15:04")
		participant := info.Participant
		if participant == "" {
			participant = "(unnamed)"
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-16s  %d tasks  %d trials  %.0f%% accuracy",
			prefix, dateStr, participant, info.TaskCount, info.TrialCount, info.Accuracy)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}
