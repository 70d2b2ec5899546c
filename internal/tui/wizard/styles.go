package wizard

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/lmsenv/internal/tui/theme"
)

// Color palette (Catppuccin Mocha)
var (
	colorPrimary       = lipgloss.Color("#cba6f7") // Mauve
	colorText          = lipgloss.Color("#cdd6f4") // Text
	colorBase          = lipgloss.Color("#1e1e2e") // Base
	colorSubtext0      = lipgloss.Color("#a6adc8") // Subtext0
	colorOverlay0      = lipgloss.Color("#6c7086") // Overlay0
	colorGreen         = lipgloss.Color("#a6e3a1") // Green
	colorBorderFocused = lipgloss.Color("#b4befe") // Lavender for borders
)

// Modal styles
var (
	styleModalContainer = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorderFocused).
				Background(colorBase).
				Padding(1, 2)

	styleModalTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			Align(lipgloss.Center)
)

// Form styles
var (
	styleLabel = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Width(22)

	styleLabelFocused = lipgloss.NewStyle().
				Foreground(colorBorderFocused).
				Bold(true).
				Width(22)

	styleCursor = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleToggleOn = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleToggleOff = lipgloss.NewStyle().
			Foreground(colorOverlay0)

	styleSection = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)
)

// newInput returns a text input styled like the rest of the wizard.
func newInput(placeholder string) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Prompt = ""
	input.SetStyles(textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(colorText),
			Placeholder: lipgloss.NewStyle().Foreground(colorOverlay0),
			Prompt:      lipgloss.NewStyle().Foreground(colorBorderFocused),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(colorSubtext0),
			Placeholder: lipgloss.NewStyle().Foreground(colorOverlay0),
			Prompt:      lipgloss.NewStyle().Foreground(colorOverlay0),
		},
		Cursor: textinput.CursorStyle{
			Color: colorPrimary,
			Shape: tea.CursorBar,
			Blink: true,
		},
	})
	input.SetWidth(40)
	return input
}

// renderHintBar renders a hint bar with the given key-description pairs.
// Example: renderHintBar("↑↓", "navigate", "enter", "select", "esc", "back")
// Returns: "↑↓ navigate • enter select • esc back"
func renderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	s := theme.Current().S()
	var result string
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			result += " " + s.HintSeparator.Render("•") + " "
		}
		result += s.HintKey.Render(pairs[i]) + " " + s.HintDesc.Render(pairs[i+1])
	}
	return result
}
