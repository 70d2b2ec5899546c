package tui

import (
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/mark3labs/lmsenv/internal/tui/theme"
)

// UnifiedDiff returns the unified diff between two texts, or "" when they
// are equal.
func UnifiedDiff(oldLabel, newLabel, before, after string) string {
	if before == after {
		return ""
	}
	return udiff.Unified(oldLabel, newLabel, before, after)
}

// RenderDiff colors a unified diff for the terminal.
func RenderDiff(diff string) string {
	s := theme.Current().S()
	lines := strings.Split(strings.TrimSuffix(diff, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = s.Muted.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = s.DiffHunk.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = s.DiffInsert.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = s.DiffDelete.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
