package request

import (
	"fmt"
	"strings"
)

// Title is the heading of every preview document.
const Title = "Inrichting en afspraken testomgeving"

// RowKind distinguishes the rows of a preview document.
type RowKind int

const (
	RowHeader  RowKind = iota // full-width heading
	RowField                  // label, optional sub-label, value
	RowDivider                // separator, optionally titled
	RowNote                   // full-width free text
)

// Section groups rows that derive from the same part of the form.
type Section int

const (
	SectionHeader Section = iota
	SectionAccess
	SectionSubaccount
	SectionAdmins
	SectionCourses
	SectionTerms
	SectionApps
	SectionNotes
)

// Row is a single line of the summary table.
type Row struct {
	Kind     RowKind
	Section  Section
	Label    string
	SubLabel string
	Value    string
}

// Document is the human-facing request summary, laid out like the paper
// request form it replaces.
type Document struct {
	Rows []Row
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// RenderPreview builds the summary for the given form state.
func RenderPreview(f FormFields) Document {
	rows := []Row{
		{Kind: RowHeader, Section: SectionHeader, Value: Title},
		{Kind: RowField, Section: SectionHeader, Label: "Aanvrager", Value: f.Requester},
		{Kind: RowField, Section: SectionHeader, Label: "Topdesk nr.", Value: orPlaceholder(f.TopdeskNumber)},
		{Kind: RowField, Section: SectionHeader, Label: "Jira epic nr.", Value: orPlaceholder(f.JiraEpic)},
		{Kind: RowField, Section: SectionHeader, Label: "Omgeving", Value: strings.ToUpper(f.Environment)},
		{Kind: RowField, Section: SectionAccess, Label: "Toegang/bewaartermijn", SubLabel: "Datum vanaf", Value: FormatDate(f.StartDate)},
		{Kind: RowField, Section: SectionAccess, SubLabel: "Datum tot", Value: FormatDate(f.EndDate)},
		{Kind: RowField, Section: SectionAccess, SubLabel: "Datum opschoning", Value: FormatDate(f.EndDate)},
		{Kind: RowDivider, Section: SectionAccess},
	}

	if f.CreateSubaccount {
		rows = append(rows, Row{Kind: RowField, Section: SectionSubaccount, Label: "Nieuw sub-account", Value: f.SubaccountName})
	}

	rows = append(rows, Row{Kind: RowField, Section: SectionAdmins, Label: "Admin toegang", Value: f.AdminUsers})

	for i, c := range f.Courses {
		label := ""
		if i == 0 {
			label = "Cursus"
		}
		rows = append(rows,
			Row{Kind: RowField, Section: SectionCourses, Label: label, Value: fmt.Sprintf("%s (%s secties)", c.Name, c.Sections)},
			Row{Kind: RowField, Section: SectionCourses, Label: "Studenten", Value: c.TestStudents + " teststudenten"},
			Row{Kind: RowField, Section: SectionCourses, Label: "Docenten", Value: c.TestTeachers + " docent(en)"},
		)
	}

	if f.ConfigureTerms {
		rows = append(rows, Row{Kind: RowField, Section: SectionTerms, Label: "Terms", Value: "Ja"})
	}

	if f.AddApps {
		rows = append(rows,
			Row{Kind: RowDivider, Section: SectionApps, Value: "Koppelingen"},
			Row{Kind: RowField, Section: SectionApps, Label: "Apps", Value: f.AppNames},
		)
	}

	if f.SpecialNotes != "" {
		rows = append(rows,
			Row{Kind: RowDivider, Section: SectionNotes, Value: "Overig"},
			Row{Kind: RowNote, Section: SectionNotes, Value: f.SpecialNotes},
		)
	}

	return Document{Rows: rows}
}

// Section returns the rows belonging to s, in document order.
func (d Document) Section(s Section) []Row {
	var out []Row
	for _, r := range d.Rows {
		if r.Section == s {
			out = append(out, r)
		}
	}
	return out
}

// Find returns the first field row whose label or sub-label equals label.
func (d Document) Find(label string) (Row, bool) {
	for _, r := range d.Rows {
		if r.Kind == RowField && (r.Label == label || r.SubLabel == label) {
			return r, true
		}
	}
	return Row{}, false
}

// Lines renders the document as plain text, one row per line.
func (d Document) Lines() []string {
	lines := make([]string, 0, len(d.Rows))
	for _, r := range d.Rows {
		switch r.Kind {
		case RowHeader:
			lines = append(lines, "# "+r.Value)
		case RowDivider:
			if r.Value == "" {
				lines = append(lines, "--")
			} else {
				lines = append(lines, "-- "+r.Value)
			}
		case RowNote:
			lines = append(lines, r.Value)
		default:
			lines = append(lines, strings.TrimRight(fmt.Sprintf("%-22s %-17s %s", r.Label, r.SubLabel, r.Value), " "))
		}
	}
	return lines
}

// Text renders the document as plain text.
func (d Document) Text() string {
	return strings.Join(d.Lines(), "\n") + "\n"
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", "<br>")
}

// Markdown renders the document as a three-column Markdown table.
func (d Document) Markdown() string {
	var b strings.Builder
	header := Title
	rows := d.Rows
	if len(rows) > 0 && rows[0].Kind == RowHeader {
		header = rows[0].Value
		rows = rows[1:]
	}
	fmt.Fprintf(&b, "| %s | | |\n|---|---|---|\n", escapeCell(header))

	for _, r := range rows {
		switch r.Kind {
		case RowHeader:
			fmt.Fprintf(&b, "| **%s** | | |\n", escapeCell(r.Value))
		case RowDivider:
			if r.Value == "" {
				b.WriteString("| | | |\n")
			} else {
				fmt.Fprintf(&b, "| **%s** | | |\n", escapeCell(r.Value))
			}
		case RowNote:
			fmt.Fprintf(&b, "| %s | | |\n", escapeCell(r.Value))
		default:
			fmt.Fprintf(&b, "| %s | %s | %s |\n", escapeCell(r.Label), escapeCell(r.SubLabel), escapeCell(r.Value))
		}
	}
	return b.String()
}
