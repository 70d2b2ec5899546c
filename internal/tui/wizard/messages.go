package wizard

import (
	"encoding/json"

	"github.com/mark3labs/lmsenv/internal/hooks"
	"github.com/mark3labs/lmsenv/internal/request"
)

// ScenarioSelectedMsg is sent when a scenario card is chosen.
type ScenarioSelectedMsg struct {
	ID request.ScenarioID
}

// PreviewRequestedMsg is sent when the form asks to move to the preview.
type PreviewRequestedMsg struct{}

// SubmitRequestedMsg is sent when the preview asks to submit.
type SubmitRequestedMsg struct{}

// ExportRequestedMsg is sent when the preview asks to be written to disk.
type ExportRequestedMsg struct{}

// NotesEditedMsg is sent when the external editor returns with new notes.
type NotesEditedMsg struct {
	Content string
}

// SubmitResultMsg carries the outcome of the submission call.
type SubmitResultMsg struct {
	Body json.RawMessage
	Err  error
}

// HooksDoneMsg is sent when the post_submit hooks have finished.
type HooksDoneMsg struct {
	Results []hooks.Result
}

// RedirectMsg is sent once the success notice has been shown long enough.
type RedirectMsg struct{}
