package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexiscreen/internal/ui/theme"
)

// OptionList is the response selector for a trial. It deliberately gives
// no correctness feedback: the list only reports what was chosen, and the
// selection is rendered identically whether right or wrong.
type OptionList struct {
	Options  []string
	Selected int
	locked   bool
}

// NewOptionList creates a selector over the given values.
func NewOptionList(options []string) OptionList {
	return OptionList{Options: options}
}

// Init returns nil.
func (o OptionList) Init() tea.Cmd {
	return nil
}

// Update handles navigation and selection. It returns the chosen value on
// submit, or "" while the subject is still deciding. Number keys choose
// and submit in one stroke.
func (o OptionList) Update(msg tea.Msg) (OptionList, string) {
	if o.locked || len(o.Options) == 0 {
		return o, ""
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, ""
	}

	switch key := kmsg.String(); key {
	case "up", "k", "left", "h":
		if o.Selected > 0 {
			o.Selected--
		}
	case "down", "j", "right", "l":
		if o.Selected < len(o.Options)-1 {
			o.Selected++
		}
	case "enter", "space":
		o.locked = true
		return o, o.Options[o.Selected]
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			idx := int(key[0] - '1')
			if idx < len(o.Options) {
				o.Selected = idx
				o.locked = true
				return o, o.Options[idx]
			}
		}
	}

	return o, ""
}

// Lock prevents further selection changes, used when the response window
// closes before the subject answered.
func (o *OptionList) Lock() {
	o.locked = true
}

// View renders the options in a row with their number-key labels.
func (o OptionList) View() string {
	var s string
	for i, opt := range o.Options {
		line := fmt.Sprintf("  %d)  %s", i+1, opt)
		if i == o.Selected && !o.locked {
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("â–¸"+line[1:]) + "\n"
		} else {
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}
	return s
}
