package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/lmsenv/internal/hooks"
	"github.com/mark3labs/lmsenv/internal/logger"
	"github.com/mark3labs/lmsenv/internal/request"
	"github.com/mark3labs/lmsenv/internal/tui"
)

// Options configures the request wizard.
type Options struct {
	Submitter     request.Submitter
	Environments  []string
	RedirectDelay time.Duration
	ExportDir     string        // where "x" writes the preview; "." if empty
	Hooks         *hooks.Config // post_submit hooks, may be nil
	WorkDir       string        // working directory for hooks

	// Controller starts the wizard on an existing request, e.g. one loaded
	// from a draft file. A fresh controller is used when nil.
	Controller *request.Controller
}

// Result holds the outcome of the wizard.
type Result struct {
	Submitted bool
	Response  json.RawMessage
	Redirect  bool // quit after the success delay; show the request list next
}

// WizardModel is the main BubbleTea model for the request wizard.
// It manages the three-step flow: scenario → configuration → preview.
type WizardModel struct {
	opts      Options
	ctrl      *request.Controller
	cancelled bool
	result    Result
	width     int
	height    int

	scenarioStep *ScenarioStep
	configStep   *ConfigStep
	previewStep  *PreviewStep
	toast        *tui.Toast
}

// New creates the wizard model.
func New(opts Options) *WizardModel {
	if opts.Controller == nil {
		opts.Controller = request.NewController()
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	m := &WizardModel{
		opts:         opts,
		ctrl:         opts.Controller,
		scenarioStep: NewScenarioStep(),
		configStep:   NewConfigStep(opts.Controller, opts.Environments),
		previewStep:  NewPreviewStep(),
		toast:        tui.NewToast(),
		width:        80,
		height:       24,
	}
	if id, ok := m.ctrl.Scenario(); ok {
		m.scenarioStep.Select(id)
	}
	if m.ctrl.Step() == request.StepPreview {
		m.previewStep.SetDocument(m.ctrl.Preview(), m.payload())
	}
	return m
}

// Run is the entry point for the request wizard.
// It creates a standalone BubbleTea program, runs it, and returns the result.
// Returns nil result and error if the user cancels or an error occurs.
func Run(opts Options) (*Result, error) {
	m := New(opts)

	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	wizModel, ok := finalModel.(*WizardModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	if wizModel.cancelled {
		return nil, fmt.Errorf("wizard cancelled by user")
	}
	return &wizModel.result, nil
}

// Controller returns the controller behind the wizard.
func (m *WizardModel) Controller() *request.Controller {
	return m.ctrl
}

// Cancelled reports whether the user left the wizard without submitting.
func (m *WizardModel) Cancelled() bool {
	return m.cancelled
}

// Result returns the wizard outcome so far.
func (m *WizardModel) Result() Result {
	return m.result
}

// Init initializes the wizard model.
func (m *WizardModel) Init() tea.Cmd {
	if m.ctrl.Step() == request.StepConfiguration {
		return m.configStep.Init()
	}
	return nil
}

func (m *WizardModel) payload() request.Payload {
	var scenario *request.ScenarioID
	if id, ok := m.ctrl.Scenario(); ok {
		scenario = &id
	}
	return request.BuildPayload(m.ctrl.Fields(), scenario)
}

// Update handles messages for the wizard.
func (m *WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancelled = !m.result.Submitted
			return m, tea.Quit
		case "esc":
			return m, m.back()
		}
		if m.result.Submitted {
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateStepSizes()
		return m, nil

	case ScenarioSelectedMsg:
		if err := m.ctrl.SelectScenario(msg.ID); err != nil {
			logger.Warn("selecting scenario: %v", err)
			return m, nil
		}
		m.configStep.Reload()
		m.updateStepSizes()
		return m, m.configStep.Init()

	case PreviewRequestedMsg:
		doc, err := m.ctrl.AdvanceToPreview()
		if err != nil {
			logger.Warn("opening preview: %v", err)
			return m, nil
		}
		m.previewStep.SetDocument(doc, m.payload())
		return m, nil

	case SubmitRequestedMsg:
		payload, err := m.ctrl.BeginSubmit()
		if err != nil {
			return m, m.toast.Show(tui.ToastError, err.Error())
		}
		return m, tea.Batch(
			m.previewStep.SetInFlight(true),
			submitCmd(m.opts.Submitter, payload),
		)

	case SubmitResultMsg:
		return m, m.handleSubmitResult(msg)

	case HooksDoneMsg:
		for _, r := range msg.Results {
			if r.Err != nil {
				return m, m.toast.Show(tui.ToastError, "Hook failed: "+r.Command)
			}
		}
		return m, nil

	case RedirectMsg:
		m.result.Redirect = true
		return m, tea.Quit

	case ExportRequestedMsg:
		scenario, _ := m.ctrl.Scenario()
		path, err := request.ExportMarkdown(m.opts.ExportDir, scenario, m.ctrl.Fields(), m.ctrl.Preview())
		if err != nil {
			return m, m.toast.Show(tui.ToastError, "Export failed: "+err.Error())
		}
		return m, m.toast.Show(tui.ToastInfo, "Preview saved to "+path)

	case tui.ToastDismissMsg:
		m.toast.Update(msg)
		return m, nil
	}

	// Forward to current step
	switch m.ctrl.Step() {
	case request.StepScenario:
		return m, m.scenarioStep.Update(msg)
	case request.StepConfiguration:
		return m, m.configStep.Update(msg)
	default:
		return m, m.previewStep.Update(msg)
	}
}

// back handles esc: one step back, or leave the wizard from the first step.
func (m *WizardModel) back() tea.Cmd {
	if m.ctrl.InFlight() || m.result.Submitted {
		return nil
	}
	switch m.ctrl.Step() {
	case request.StepPreview:
		if err := m.ctrl.ReturnToConfiguration(); err != nil {
			logger.Warn("leaving preview: %v", err)
		}
		return nil
	case request.StepConfiguration:
		if err := m.ctrl.ReturnToScenarios(); err != nil {
			logger.Warn("leaving form: %v", err)
		}
		if id, ok := m.ctrl.Scenario(); ok {
			m.scenarioStep.Select(id)
		}
		return nil
	default:
		m.cancelled = true
		return tea.Quit
	}
}

func (m *WizardModel) handleSubmitResult(msg SubmitResultMsg) tea.Cmd {
	m.ctrl.EndSubmit(msg.Err)
	m.previewStep.SetInFlight(false)

	if msg.Err != nil {
		return m.toast.Show(tui.ToastError, "Submission failed: "+msg.Err.Error())
	}

	m.result.Submitted = true
	m.result.Response = msg.Body

	cmds := []tea.Cmd{
		m.toast.Show(tui.ToastSuccess, "Request submitted"),
		tea.Tick(m.opts.RedirectDelay, func(time.Time) tea.Msg { return RedirectMsg{} }),
	}
	if m.opts.Hooks != nil && len(m.opts.Hooks.Hooks.PostSubmit) > 0 {
		cmds = append(cmds, m.hooksCmd())
	}
	return tea.Batch(cmds...)
}

// submitCmd performs the single submission call.
func submitCmd(s request.Submitter, payload request.Payload) tea.Cmd {
	return func() tea.Msg {
		if s == nil {
			return SubmitResultMsg{Err: fmt.Errorf("no backend configured")}
		}
		body, err := s.SubmitRequest(context.Background(), payload)
		return SubmitResultMsg{Body: body, Err: err}
	}
}

func (m *WizardModel) hooksCmd() tea.Cmd {
	payload := m.payload()
	cfg := m.opts.Hooks
	workDir := m.opts.WorkDir
	vars := hooks.Variables{
		Environment: payload.Environment,
		Requester:   payload.Requester,
	}
	if payload.Scenario != nil {
		vars.Scenario = string(*payload.Scenario)
	}
	return func() tea.Msg {
		data, err := json.Marshal(payload)
		if err != nil {
			logger.Error("encoding payload for hooks: %v", err)
			return HooksDoneMsg{}
		}
		return HooksDoneMsg{Results: hooks.RunPostSubmit(context.Background(), cfg, workDir, vars, data)}
	}
}

// updateStepSizes resizes every step to the modal content area.
func (m *WizardModel) updateStepSizes() {
	// Reserve space for modal container (padding, borders, title, toast)
	contentWidth := max(min(m.width-10, 100)-6, 40)
	contentHeight := max(m.height-10, 10)

	m.scenarioStep.SetSize(contentWidth, contentHeight)
	m.configStep.SetSize(contentWidth, contentHeight)
	m.previewStep.SetSize(contentWidth, contentHeight)
}

var stepNames = map[request.Step]string{
	request.StepScenario:      "Choose Scenario",
	request.StepConfiguration: "Configure Request",
	request.StepPreview:       "Preview & Submit",
}

// View renders the wizard UI.
func (m *WizardModel) View() tea.View {
	var stepContent string
	switch m.ctrl.Step() {
	case request.StepScenario:
		stepContent = m.scenarioStep.View()
	case request.StepConfiguration:
		stepContent = m.configStep.View()
	default:
		stepContent = m.previewStep.View()
	}

	content := m.renderModal(stepContent)
	if m.toast.IsVisible() {
		content = tui.OverlayToast(content, m.toast.View(m.width, m.height))
	}
	return tui.Screen(content, m.width, m.height)
}

// renderModal wraps the step content in a modal container with title.
func (m *WizardModel) renderModal(stepContent string) string {
	step := m.ctrl.Step()
	title := fmt.Sprintf("New request - Step %d of 3: %s", int(step)+1, stepNames[step])

	sections := []string{
		styleModalTitle.Render(title),
		"",
		stepContent,
	}
	content := strings.Join(sections, "\n")

	modalWidth := max(min(m.width-10, 100), 60)
	modalContent := styleModalContainer.Width(modalWidth).Render(content)

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		modalContent,
	)
}
