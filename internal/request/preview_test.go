package request

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func fieldValue(t *testing.T, d Document, label string) string {
	t.Helper()
	r, ok := d.Find(label)
	require.True(t, ok, "row %q not found", label)
	return r.Value
}

func TestRenderPreview_BulkTesting(t *testing.T) {
	f := Resolve(ScenarioBulkTesting).Apply(NewFormFields())
	f.Requester = "Jan Jansen"
	f.Environment = "acceptatie"
	f.StartDate = "2024-03-01"
	f.EndDate = "2024-06-15"

	d := RenderPreview(f)

	require.Equal(t, RowHeader, d.Rows[0].Kind)
	require.Equal(t, Title, d.Rows[0].Value)

	require.Equal(t, "Jan Jansen", fieldValue(t, d, "Aanvrager"))
	require.Equal(t, "ACCEPTATIE", fieldValue(t, d, "Omgeving"))
	require.Equal(t, "1 mrt 2024", fieldValue(t, d, "Datum vanaf"))
	require.Equal(t, "15 jun 2024", fieldValue(t, d, "Datum tot"))
	require.Equal(t, "15 jun 2024", fieldValue(t, d, "Datum opschoning"))
	require.Equal(t, "Bulk Testing", fieldValue(t, d, "Nieuw sub-account"))

	courses := d.Section(SectionCourses)
	require.Len(t, courses, 3)
	require.Equal(t, "Cursus", courses[0].Label)
	require.Equal(t, "Large Test Course (4 secties)", courses[0].Value)
	require.Equal(t, "50 teststudenten", courses[1].Value)
	require.Equal(t, "3 docent(en)", courses[2].Value)
}

func TestRenderPreview_Placeholders(t *testing.T) {
	d := RenderPreview(NewFormFields())

	require.Equal(t, "-", fieldValue(t, d, "Topdesk nr."))
	require.Equal(t, "-", fieldValue(t, d, "Jira epic nr."))
	require.Equal(t, "-", fieldValue(t, d, "Datum vanaf"))
	require.Equal(t, "", fieldValue(t, d, "Aanvrager"))
}

func TestRenderPreview_ConditionalSections(t *testing.T) {
	f := NewFormFields()
	d := RenderPreview(f)
	require.Empty(t, d.Section(SectionSubaccount))
	require.Empty(t, d.Section(SectionTerms))
	require.Empty(t, d.Section(SectionApps))
	require.Empty(t, d.Section(SectionNotes))

	f.CreateSubaccount = true
	f.SubaccountName = "Faculteit"
	f.ConfigureTerms = true
	f.AddApps = true
	f.AppNames = "Peerceptiv"
	f.SpecialNotes = "Graag voor maandag"
	d = RenderPreview(f)

	require.Len(t, d.Section(SectionSubaccount), 1)
	require.Equal(t, "Ja", fieldValue(t, d, "Terms"))

	apps := d.Section(SectionApps)
	require.Len(t, apps, 2)
	require.Equal(t, RowDivider, apps[0].Kind)
	require.Equal(t, "Koppelingen", apps[0].Value)
	require.Equal(t, "Peerceptiv", apps[1].Value)

	notes := d.Section(SectionNotes)
	require.Len(t, notes, 2)
	require.Equal(t, "Overig", notes[0].Value)
	require.Equal(t, RowNote, notes[1].Kind)
	require.Equal(t, "Graag voor maandag", notes[1].Value)
}

func TestRenderPreview_OnlyFirstCourseLabelled(t *testing.T) {
	f := Resolve(ScenarioDepartmentStructure).Apply(NewFormFields())
	courses := RenderPreview(f).Section(SectionCourses)

	require.Len(t, courses, 6)
	require.Equal(t, "Cursus", courses[0].Label)
	require.Equal(t, "", courses[3].Label)
	require.Equal(t, "Advanced Course (1 secties)", courses[3].Value)
}

func TestRenderPreview_SectionsAreIndependent(t *testing.T) {
	f := Resolve(ScenarioBulkTesting).Apply(NewFormFields())
	before := RenderPreview(f)

	f.Courses[0].TestStudents = "99"
	after := RenderPreview(f)

	for _, s := range []Section{SectionHeader, SectionAccess, SectionSubaccount, SectionAdmins, SectionTerms, SectionApps, SectionNotes} {
		require.Equal(t, before.Section(s), after.Section(s))
	}
	require.NotEqual(t, before.Section(SectionCourses), after.Section(SectionCourses))
}

func TestRenderPreview_Pure(t *testing.T) {
	f := Resolve(ScenarioAppIntegration).Apply(NewFormFields())
	snapshot := f.Clone()

	require.Equal(t, RenderPreview(f), RenderPreview(f))
	require.Equal(t, snapshot, f)
}

func TestDocument_Lines(t *testing.T) {
	f := NewFormFields()
	f.SpecialNotes = "note"
	lines := RenderPreview(f).Lines()

	require.Equal(t, "# "+Title, lines[0])
	require.Contains(t, lines, "--")
	require.Contains(t, lines, "-- Overig")
	require.Equal(t, "note", lines[len(lines)-1])
	for _, l := range lines {
		require.Equal(t, strings.TrimRight(l, " "), l)
	}
}

func TestDocument_Markdown(t *testing.T) {
	f := NewFormFields()
	f.Requester = "A|B"
	f.SpecialNotes = "one\ntwo"
	md := RenderPreview(f).Markdown()

	require.True(t, strings.HasPrefix(md, "| "+Title+" | | |\n|---|---|---|\n"))
	require.Contains(t, md, "| Aanvrager |  | A\\|B |")
	require.Contains(t, md, "| one<br>two | | |")
	require.Contains(t, md, "| **Overig** | | |")
}
