package screening

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	engine "github.com/abhisek/lexiscreen/internal/screening"
	"github.com/abhisek/lexiscreen/internal/ui/components"
	"github.com/abhisek/lexiscreen/internal/ui/theme"
)

func (s *ScreeningScreen) View(width, height int) string {
	if s.showingQuitConfirm {
		return renderQuitConfirm(width)
	}

	f := s.view.frame()

	if f.finished {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n\n  Wrapping up...")
	}
	if f.showInstructions {
		return s.renderInstructions(f, width)
	}
	return s.renderTrial(f, width)
}

// renderInstructions shows the task introduction with session progress.
func (s *ScreeningScreen) renderInstructions(f frame, width int) string {
	taskIndex, _, taskCount := s.orch.Progress()

	var b strings.Builder
	b.WriteString("\n\n")

	b.WriteString(theme.Title.Width(width).Render(f.title))
	b.WriteString("\n\n")

	text := lipgloss.NewStyle().
		Width(minInt(width-8, 64)).
		Foreground(theme.Text).
		Render(f.instructions)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, text))
	b.WriteString("\n\n")

	if taskCount > 0 {
		bar := components.NewProgressBar(
			fmt.Sprintf("Part %d of %d", taskIndex+1, taskCount),
			float64(taskIndex)/float64(taskCount),
			minInt(width-8, 48),
		)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render("Press Enter when ready"))

	return b.String()
}

// renderTrial shows the stimulus area and, once the response window is
// open, the option selector. No correctness feedback is ever rendered.
func (s *ScreeningScreen) renderTrial(f frame, width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(renderStimulus(f, width))
	b.WriteString("\n\n")

	if len(f.optionLabels) > 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.list.View()))
	}

	return b.String()
}

func renderStimulus(f frame, width int) string {
	if !f.hasStimulus {
		// Neutral gap between trials.
		return theme.Mask.Width(width).Render("·")
	}

	switch {
	case f.stimulus.Audio:
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Secondary).Bold(true).
			Render("🔊  Listen...")
	case f.stimulus.Masked:
		return theme.Mask.Width(width).Render("▓▓▓▓▓")
	case f.stimulus.Text == "":
		return theme.Mask.Width(width).Render("·")
	default:
		return theme.Stimulus.Width(width).Render(styleVariant(f.stimulus))
	}
}

// styleVariant applies the task's typographic variant to the stimulus.
func styleVariant(st engine.Stimulus) string {
	switch st.Variant {
	case "spaced":
		return strings.Join(strings.Split(st.Text, ""), "   ")
	default:
		return st.Text
	}
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).Bold(true).
		Render("Stop the screening?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render("An unfinished run is not saved."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Error).
		Render("[Y] Yes, stop"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
