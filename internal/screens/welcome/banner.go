package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/mohdridwan/etasmik/internal/ui/theme"
)

const bannerArt = `
 ████████╗ █████╗ ███████╗███╗   ███╗██╗██╗  ██╗
 ╚══██╔══╝██╔══██╗██╔════╝████╗ ████║██║██║ ██╔╝
    ██║   ███████║███████╗██╔████╔██║██║█████╔╝
    ██║   ██╔══██║╚════██║██║╚██╔╝██║██║██╔═██╗
    ██║   ██║  ██║███████║██║ ╚═╝ ██║██║██║  ██╗
    ╚═╝   ╚═╝  ╚═╝╚══════╝╚═╝     ╚═╝╚═╝╚═╝  ╚═╝`

const bannerCompact = "e - T A S M I K"

// RenderBanner returns the TASMIK banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 52 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 52 {
		return style.Render(bannerCompact)
	}
	prefix := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true).
		Render(" e-")
	return prefix + style.Render(bannerArt)
}
