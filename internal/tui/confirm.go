package tui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/lmsenv/internal/tui/theme"
)

// ConfirmResult is the outcome of a key press on a visible modal.
type ConfirmResult int

const (
	ConfirmPending ConfirmResult = iota
	ConfirmYes
	ConfirmNo
)

// ConfirmationModal asks a yes/no question before a destructive action.
type ConfirmationModal struct {
	title   string
	message string
	visible bool
}

// NewConfirmationModal creates a new confirmation modal.
func NewConfirmationModal(title, message string) *ConfirmationModal {
	return &ConfirmationModal{title: title, message: message}
}

// Show makes the modal visible with a new message.
func (m *ConfirmationModal) Show(message string) {
	m.message = message
	m.visible = true
}

// Hide hides the modal.
func (m *ConfirmationModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is currently visible.
func (m *ConfirmationModal) IsVisible() bool {
	return m.visible
}

// HandleKey interprets a key press. The modal hides itself on Y, N and ESC.
func (m *ConfirmationModal) HandleKey(msg tea.KeyPressMsg) ConfirmResult {
	if !m.visible {
		return ConfirmPending
	}
	switch msg.String() {
	case "y", "Y":
		m.visible = false
		return ConfirmYes
	case "n", "N", "esc":
		m.visible = false
		return ConfirmNo
	}
	return ConfirmPending
}

// Render renders the confirmation modal.
func (m *ConfirmationModal) Render() string {
	return RenderConfirmationModal(m.title, m.message)
}

// RenderConfirmationModal renders a confirmation modal with the given title and message.
func RenderConfirmationModal(title, message string) string {
	t := theme.Current()

	titleText := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(t.Warning)).
		MarginBottom(1).
		Render("⚠ " + title)

	messageText := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBase)).
		MarginBottom(1).
		Render(message)

	buttons := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgMuted)).
		Render("Press Y to confirm, N or ESC to cancel")

	content := lipgloss.JoinVertical(lipgloss.Left, titleText, messageText, "", buttons)

	return lipgloss.NewStyle().
		Width(50).
		Padding(2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Warning)).
		Render(content)
}
