package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/diagramiz/internal/ui/theme"
)

const bannerArt = `
 ██████╗ ██╗ █████╗  ██████╗ ██████╗  █████╗ ███╗   ███╗██╗███████╗
 ██╔══██╗██║██╔══██╗██╔════╝ ██╔══██╗██╔══██╗████╗ ████║██║╚══███╔╝
 ██║  ██║██║███████║██║  ███╗██████╔╝███████║██╔████╔██║██║  ███╔╝
 ██║  ██║██║██╔══██║██║   ██║██╔══██╗██╔══██║██║╚██╔╝██║██║ ███╔╝
 ██████╔╝██║██║  ██║╚██████╔╝██║  ██║██║  ██║██║ ╚═╝ ██║██║███████╗
 ╚═════╝ ╚═╝╚═╝  ╚═╝ ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝     ╚═╝╚═╝╚══════╝`

const bannerCompact = "D I A G R A M I Z"

// bannerWidth is the widest line of bannerArt.
const bannerWidth = 70

// RenderBanner returns the banner styled in the primary color. Terminals
// narrower than the art get a compact one-line version.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
