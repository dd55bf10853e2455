// Package home is the entry screen: participant label, session start,
// and navigation to past reports.
package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexiscreen/internal/catalog"
	"github.com/abhisek/lexiscreen/internal/router"
	"github.com/abhisek/lexiscreen/internal/screen"
	engine "github.com/abhisek/lexiscreen/internal/screening"
	"github.com/abhisek/lexiscreen/internal/screens/history"
	screeningscreen "github.com/abhisek/lexiscreen/internal/screens/screening"
	"github.com/abhisek/lexiscreen/internal/store"
	"github.com/abhisek/lexiscreen/internal/ui/components"
	"github.com/abhisek/lexiscreen/internal/ui/layout"
)

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	tasks   []catalog.TaskDefinition
	st      *store.Store
	speaker engine.Speaker
	cfg     engine.Config

	input components.TextInput
	menu  components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen over the resolved battery and stores.
func New(tasks []catalog.TaskDefinition, st *store.Store, speaker engine.Speaker, cfg engine.Config) *HomeScreen {
	h := &HomeScreen{
		tasks:   tasks,
		st:      st,
		speaker: speaker,
		cfg:     cfg,
		input:   components.NewTextInput("Participant (optional)", 24),
	}

	items := []components.MenuItem{
		{Label: "START SCREENING", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: screeningscreen.New(h.tasks, h.st, h.speaker, h.cfg, h.input.Value()),
				}
			}
		}},
		{Label: "HISTORY", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(h.st)}
			}
		}, Disabled: st == nil},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.input.Init()
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up", "down", "enter":
			var cmd tea.Cmd
			h.menu, cmd = h.menu.Update(msg)
			return h, cmd
		}
	}

	// Everything else edits the participant label.
	var cmd tea.Cmd
	h.input, cmd = h.input.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n")

	b.WriteString(renderBanner(width))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).
		Render("Participant: " + h.input.View()))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))

	return b.String()
}
