package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mohdridwan/etasmik/internal/ui/theme"
)

// Choice is a horizontal option picker, cycled with left/right. Used for
// small fixed sets like the class list.
type Choice struct {
	Label    string
	Options  []string
	Selected int
	Focused  bool
}

// NewChoice creates a choice over the given options.
func NewChoice(label string, options []string) Choice {
	return Choice{
		Label:   label,
		Options: options,
	}
}

// Update handles left/right cycling while focused.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	if !c.Focused || len(c.Options) == 0 {
		return c, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "left", "h":
		c.Selected = (c.Selected - 1 + len(c.Options)) % len(c.Options)
	case "right", "l":
		c.Selected = (c.Selected + 1) % len(c.Options)
	}

	return c, nil
}

// Value returns the selected option.
func (c Choice) Value() string {
	if len(c.Options) == 0 {
		return ""
	}
	return c.Options[c.Selected]
}

// View renders the choice as "◂ option ▸".
func (c Choice) View() string {
	style := lipgloss.NewStyle().Foreground(theme.Text)
	arrow := lipgloss.NewStyle().Foreground(theme.TextDim)
	if c.Focused {
		style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		arrow = lipgloss.NewStyle().Foreground(theme.Primary)
	}
	return arrow.Render("◂ ") + style.Render(c.Value()) + arrow.Render(" ▸")
}
