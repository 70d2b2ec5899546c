package wizard

import (
	"encoding/json"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/lmsenv/internal/request"
	"github.com/mark3labs/lmsenv/internal/tui"
)

// previewMode selects what the preview pane shows.
type previewMode int

const (
	modeTable previewMode = iota
	modeMarkdown
	modeDiff
	modePayload
)

// PreviewStep shows the request summary before submission.
type PreviewStep struct {
	viewport viewport.Model
	spinner  spinner.Model

	doc      request.Document
	previous string // text of the preview shown before this one
	diff     string
	payload  string
	mode     previewMode
	inFlight bool

	width  int
	height int
}

// NewPreviewStep creates an empty preview step.
func NewPreviewStep() *PreviewStep {
	vp := viewport.New(
		viewport.WithWidth(60),
		viewport.WithHeight(10),
	)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	return &PreviewStep{
		viewport: vp,
		spinner:  s,
		width:    60,
		height:   20,
	}
}

// SetDocument shows a freshly rendered preview. The previously shown
// preview is kept for the diff view.
func (p *PreviewStep) SetDocument(doc request.Document, payload request.Payload) {
	if len(p.doc.Rows) > 0 {
		p.previous = p.doc.Text()
	}
	p.doc = doc
	p.diff = ""
	if p.previous != "" {
		p.diff = tui.UnifiedDiff("previous", "current", p.previous, doc.Text())
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		p.payload = err.Error()
	} else {
		p.payload = string(data)
	}

	p.mode = modeTable
	p.refresh()
	p.viewport.GotoTop()
}

// Diff returns the unified diff against the previous preview.
func (p *PreviewStep) Diff() string {
	return p.diff
}

// SetInFlight switches the submit control between latched and ready.
func (p *PreviewStep) SetInFlight(on bool) tea.Cmd {
	p.inFlight = on
	if on {
		return p.spinner.Tick
	}
	return nil
}

// SetSize updates the dimensions for the preview step.
func (p *PreviewStep) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.viewport.SetWidth(width)
	// Reserve space for the buttons and the hint bar
	p.viewport.SetHeight(max(height-4, 5))
	p.refresh()
}

func (p *PreviewStep) refresh() {
	var content string
	switch p.mode {
	case modeMarkdown:
		content = tui.RenderMarkdown("# "+request.Title+"\n\n"+p.doc.Markdown(), p.width)
	case modeDiff:
		switch {
		case p.previous == "":
			content = "This is the first preview."
		case p.diff == "":
			content = "No changes since the previous preview."
		default:
			content = tui.RenderDiff(p.diff)
		}
	case modePayload:
		content = tui.HighlightJSON(p.payload)
	default:
		content = renderPreviewTable(p.doc, p.width)
	}
	p.viewport.SetContent(content)
}

func (p *PreviewStep) toggle(mode previewMode) {
	if p.mode == mode {
		p.mode = modeTable
	} else {
		p.mode = mode
	}
	p.refresh()
	p.viewport.GotoTop()
}

// Update handles messages for the preview step.
func (p *PreviewStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if p.inFlight {
			var cmd tea.Cmd
			p.spinner, cmd = p.spinner.Update(msg)
			return cmd
		}
		return nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter", "ctrl+s":
			if p.inFlight {
				return nil
			}
			return func() tea.Msg { return SubmitRequestedMsg{} }
		case "m":
			p.toggle(modeMarkdown)
			return nil
		case "d":
			p.toggle(modeDiff)
			return nil
		case "p":
			p.toggle(modePayload)
			return nil
		case "x":
			return func() tea.Msg { return ExportRequestedMsg{} }
		}
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd
}

// View renders the preview step.
func (p *PreviewStep) View() string {
	var b strings.Builder
	b.WriteString(p.viewport.View())
	b.WriteString("\n\n")

	label := "Submit"
	if p.inFlight {
		label = p.spinner.View() + " Submitting..."
	}
	bar := NewButtonBar(CreateBackSubmitButtons(!p.inFlight, label))
	bar.SetWidth(p.width)
	b.WriteString(bar.Render())
	b.WriteString("\n")

	b.WriteString(renderHintBar(
		"enter", "submit",
		"m", "markdown",
		"d", "diff",
		"p", "payload",
		"x", "export",
		"esc", "edit",
	))
	return b.String()
}
