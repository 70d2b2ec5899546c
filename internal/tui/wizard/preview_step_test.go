package wizard

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/mark3labs/lmsenv/internal/request"
	"github.com/stretchr/testify/require"
)

func sampleFields() request.FormFields {
	f := request.Resolve(request.ScenarioBulkTesting).Apply(request.NewFormFields())
	f.Requester = "Jan Jansen"
	f.Environment = "test"
	f.StartDate = "2024-03-01"
	f.EndDate = "2024-06-30"
	return f
}

func TestPreviewStep_ShowsTable(t *testing.T) {
	p := NewPreviewStep()
	p.SetSize(90, 40)
	f := sampleFields()
	p.SetDocument(request.RenderPreview(f), request.BuildPayload(f, nil))

	view := ansi.Strip(p.View())
	require.Contains(t, view, "Aanvrager")
	require.Contains(t, view, "Jan Jansen")
	require.Contains(t, view, "Submit")
}

func TestPreviewStep_DiffAgainstPreviousPreview(t *testing.T) {
	p := NewPreviewStep()
	f := sampleFields()
	p.SetDocument(request.RenderPreview(f), request.BuildPayload(f, nil))
	require.Empty(t, p.Diff(), "the first preview has nothing to compare with")

	p.SetDocument(request.RenderPreview(f), request.BuildPayload(f, nil))
	require.Empty(t, p.Diff(), "an unchanged preview has an empty diff")

	f.Requester = "Piet Pietersen"
	p.SetDocument(request.RenderPreview(f), request.BuildPayload(f, nil))
	require.Contains(t, p.Diff(), "-Aanvrager")
	require.Contains(t, p.Diff(), "+Aanvrager")
	require.Contains(t, p.Diff(), "Piet Pietersen")
}

func TestPreviewStep_Keys(t *testing.T) {
	p := NewPreviewStep()
	f := sampleFields()
	p.SetDocument(request.RenderPreview(f), request.BuildPayload(f, nil))

	require.Equal(t, SubmitRequestedMsg{}, runCmd(p.Update(key("enter"))))
	require.Equal(t, SubmitRequestedMsg{}, runCmd(p.Update(key("ctrl+s"))))
	require.Equal(t, ExportRequestedMsg{}, runCmd(p.Update(key("x"))))
}

func TestPreviewStep_InFlightBlocksSubmit(t *testing.T) {
	p := NewPreviewStep()
	p.SetSize(90, 40)
	f := sampleFields()
	p.SetDocument(request.RenderPreview(f), request.BuildPayload(f, nil))

	require.NotNil(t, p.SetInFlight(true))
	require.Nil(t, p.Update(key("enter")))
	require.Contains(t, ansi.Strip(p.View()), "Submitting...")

	require.Nil(t, p.SetInFlight(false))
	require.NotNil(t, p.Update(key("enter")))
}

func TestPreviewStep_Modes(t *testing.T) {
	p := NewPreviewStep()
	p.SetSize(90, 60)
	f := sampleFields()
	p.SetDocument(request.RenderPreview(f), request.BuildPayload(f, nil))

	p.Update(key("p"))
	require.Equal(t, modePayload, p.mode)
	require.Contains(t, ansi.Strip(p.viewport.View()), `"requester"`)

	p.Update(key("d"))
	require.Equal(t, modeDiff, p.mode)
	require.Contains(t, ansi.Strip(p.viewport.View()), "first preview")

	p.Update(key("d"))
	require.Equal(t, modeTable, p.mode, "pressing the same key again returns to the table")

	p.Update(key("m"))
	require.Equal(t, modeMarkdown, p.mode)

	p.SetDocument(request.RenderPreview(f), request.BuildPayload(f, nil))
	require.Equal(t, modeTable, p.mode, "a new preview starts on the table")
}
