package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lexiscreen/internal/ui/layout"
)

// Screen is one view on the router's stack: home, a live screening
// session, a results report, or the history list.
type Screen interface {
	// Init returns an initial command when the screen becomes active.
	Init() tea.Cmd

	// Update handles messages and returns the updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area between header and footer.
	View(width, height int) string

	// Title returns the screen name shown in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer key hints.
// The screening screen uses it to switch hints per orchestrator state.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}
