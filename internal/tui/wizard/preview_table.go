package wizard

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/mark3labs/lmsenv/internal/request"
	"github.com/mark3labs/lmsenv/internal/tui/theme"
)

// renderPreviewTable lays the preview out as a three-column table: label,
// sub-label and value.
func renderPreviewTable(doc request.Document, width int) string {
	th := theme.Current()

	title := request.Title
	rows := doc.Rows
	if len(rows) > 0 && rows[0].Kind == request.RowHeader {
		title = rows[0].Value
		rows = rows[1:]
	}

	kinds := make([]request.RowKind, 0, len(rows))
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(th.BgSurface2))).
		BorderColumn(false).
		Headers(title, "", "")

	for _, r := range rows {
		kinds = append(kinds, r.Kind)
		switch r.Kind {
		case request.RowField:
			t.Row(r.Label, r.SubLabel, r.Value)
		default:
			t.Row(r.Value, "", "")
		}
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		base := lipgloss.NewStyle().Padding(0, 1)
		if row == table.HeaderRow {
			return base.Foreground(lipgloss.Color(th.Primary)).Bold(true)
		}
		if row < 0 || row >= len(kinds) {
			return base
		}
		switch kinds[row] {
		case request.RowDivider:
			return base.Foreground(lipgloss.Color(th.Secondary)).Bold(true)
		case request.RowNote:
			return base.Foreground(lipgloss.Color(th.FgBase))
		}
		switch col {
		case 0:
			return base.Foreground(lipgloss.Color(th.FgSubtle)).Bold(true)
		case 1:
			return base.Foreground(lipgloss.Color(th.FgMuted))
		}
		return base.Foreground(lipgloss.Color(th.FgBase))
	})

	if width > 0 {
		t.Width(width)
	}
	return t.String()
}
