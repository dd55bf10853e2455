package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexiscreen/internal/ui/theme"
)

const bannerArt = `
 ██╗     ███████╗██╗  ██╗██╗███████╗ ██████╗██████╗ ███████╗███████╗███╗   ██╗
 ██║     ██╔════╝╚██╗██╔╝██║██╔════╝██╔════╝██╔══██╗██╔════╝██╔════╝████╗  ██║
 ██║     █████╗   ╚███╔╝ ██║███████╗██║     ██████╔╝█████╗  █████╗  ██╔██╗ ██║
 ██║     ██╔══╝   ██╔██╗ ██║╚════██║██║     ██╔══██╗██╔══╝  ██╔══╝  ██║╚██╗██║
 ███████╗███████╗██╔╝ ██╗██║███████║╚██████╗██║  ██║███████╗███████╗██║ ╚████║
 ╚══════╝╚══════╝╚═╝  ╚═╝╚═╝╚══════╝ ╚═════╝╚═╝  ╚═╝╚══════╝╚══════╝╚═╝  ╚═══╝`

const bannerCompact = "L E X I S C R E E N"

// renderBanner returns the LEXISCREEN banner centered, with a compact
// fallback for terminals narrower than the art.
func renderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	art := bannerArt
	if width < 80 {
		art = bannerCompact
	}
	subtitle := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render("reading and perception screening")

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(art)) +
		"\n" +
		lipgloss.PlaceHorizontal(width, lipgloss.Center, subtitle)
}
