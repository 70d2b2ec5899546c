package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	HeaderTitle lipgloss.Style

	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style

	Card        lipgloss.Style
	CardFocused lipgloss.Style
	Modal       lipgloss.Style
	ModalTitle  lipgloss.Style

	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style

	DiffInsert lipgloss.Style
	DiffDelete lipgloss.Style
	DiffHunk   lipgloss.Style
}
