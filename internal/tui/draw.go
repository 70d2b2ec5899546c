package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
)

// Screen draws content onto a full-window canvas and wraps it in an
// alt-screen view.
func Screen(content string, width, height int) tea.View {
	var view tea.View
	view.AltScreen = true

	canvas := uv.NewScreenBuffer(width, height)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: width, Y: height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// Overlay centers fg over a window of the given size, hiding whatever the
// base view showed.
func Overlay(fg string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, fg)
}

// OverlayToast puts the last line of a rendered toast over the second to
// last line of base, leaving the rest of base untouched.
func OverlayToast(base, toast string) string {
	toastLines := strings.Split(toast, "\n")
	last := toastLines[len(toastLines)-1]
	baseLines := strings.Split(base, "\n")
	if len(baseLines) > 1 {
		baseLines[len(baseLines)-2] = last
	} else {
		baseLines = append(baseLines, last)
	}
	return strings.Join(baseLines, "\n")
}
