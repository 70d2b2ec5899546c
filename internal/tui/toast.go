package tui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/lmsenv/internal/tui/theme"
)

// ToastDuration is how long a toast stays on screen.
const ToastDuration = 3 * time.Second

// ToastKind selects the toast color.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastError
)

// ToastDismissMsg is sent when the toast should be dismissed. Seq ties the
// message to the toast that scheduled it so a newer toast is not cut short.
type ToastDismissMsg struct {
	Seq int
}

// Toast is a minimal toast notification component.
// Shows a message in the bottom-right corner that auto-dismisses.
type Toast struct {
	message string
	kind    ToastKind
	visible bool
	seq     int
}

// NewToast creates a new Toast component.
func NewToast() *Toast {
	return &Toast{}
}

// Show displays a toast and returns the command that dismisses it.
func (t *Toast) Show(kind ToastKind, msg string) tea.Cmd {
	t.message = msg
	t.kind = kind
	t.visible = true
	t.seq++
	seq := t.seq
	return tea.Tick(ToastDuration, func(time.Time) tea.Msg {
		return ToastDismissMsg{Seq: seq}
	})
}

// Update handles messages for the toast component.
func (t *Toast) Update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(ToastDismissMsg); ok && m.Seq == t.seq {
		t.visible = false
		t.message = ""
	}
	return nil
}

// View renders the toast in the bottom-right corner of a width x height
// area. Returns empty string if toast is not visible.
func (t *Toast) View(width, height int) string {
	if !t.visible || t.message == "" {
		return ""
	}

	th := theme.Current()
	bg := th.Info
	switch t.kind {
	case ToastSuccess:
		bg = th.Success
	case ToastError:
		bg = th.Error
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.BgBase)).
		Background(lipgloss.Color(bg)).
		Padding(0, 1).
		Bold(true)

	content := style.Render(t.message)
	if lipgloss.Width(content) > width-2 && width > 4 {
		content = style.Width(width - 2).Render(t.message)
	}

	return strings.Repeat("\n", max(height-2, 0)) + lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Right).
		PaddingRight(1).
		Render(content)
}

// IsVisible returns whether the toast is currently visible.
func (t *Toast) IsVisible() bool {
	return t.visible
}

// Kind returns the kind of the current toast.
func (t *Toast) Kind() ToastKind {
	return t.kind
}

// GetMessage returns the current toast message (empty if not visible).
func (t *Toast) GetMessage() string {
	if !t.visible {
		return ""
	}
	return t.message
}
