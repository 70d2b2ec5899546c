package tui

import (
	"strings"

	"charm.land/glamour/v2"
	"github.com/charmbracelet/x/ansi"
)

// RenderMarkdown renders markdown content using glamour.
// Falls back to plain text wrapping if rendering fails.
func RenderMarkdown(content string, width int) string {
	// Cap width to 120 for readability
	if width > 120 {
		width = 120
	}
	if width < 20 {
		width = 20
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return ansi.Wordwrap(content, width, "")
	}

	rendered, err := r.Render(content)
	if err != nil {
		return ansi.Wordwrap(content, width, "")
	}

	// Remove trailing newline that glamour adds
	return trimTrailingBlankLines(rendered)
}

// trimTrailingBlankLines drops the padded empty lines glamour appends after
// the last block. Lines holding only spaces and styling count as blank.
func trimTrailingBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	for len(lines) > 0 && strings.TrimSpace(ansi.Strip(lines[len(lines)-1])) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
