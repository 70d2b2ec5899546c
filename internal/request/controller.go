package request

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/mark3labs/lmsenv/internal/logger"
)

var (
	// ErrInvalidTransition is returned when an operation is not allowed from
	// the current step.
	ErrInvalidTransition = errors.New("invalid step transition")

	// ErrSubmitInFlight is returned when a submission is already running.
	ErrSubmitInFlight = errors.New("a submission is already in progress")

	// ErrRowOutOfRange is returned for a course position that does not exist.
	ErrRowOutOfRange = errors.New("course row out of range")
)

// Submitter sends a payload to the provisioning backend and returns the
// response body.
type Submitter interface {
	SubmitRequest(ctx context.Context, payload Payload) (json.RawMessage, error)
}

// Controller owns the wizard state: the active step, the selected scenario
// and the form fields. Fields are only changed through its methods; readers
// get copies.
type Controller struct {
	mu sync.Mutex

	step     Step
	scenario *ScenarioID
	fields   FormFields
	preview  Document

	inFlight  bool
	submitted bool
	lastErr   error
}

// NewController returns a controller on the scenario step with a fresh form.
func NewController() *Controller {
	return &Controller{
		step:   StepScenario,
		fields: NewFormFields(),
	}
}

// Step returns the active step.
func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Scenario returns the selected scenario, if any.
func (c *Controller) Scenario() (ScenarioID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scenario == nil {
		return "", false
	}
	return *c.scenario, true
}

// Fields returns a copy of the form state.
func (c *Controller) Fields() FormFields {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields.Clone()
}

// Preview returns the document rendered by the last AdvanceToPreview.
func (c *Controller) Preview() Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preview
}

// InFlight reports whether a submission is running.
func (c *Controller) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Submitted reports whether a submission has succeeded.
func (c *Controller) Submitted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitted
}

// LastError returns the error of the most recent failed submission.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Controller) transition(from, to Step) error {
	if c.step != from {
		return fmt.Errorf("%w: %s to %s while on %s", ErrInvalidTransition, from, to, c.step)
	}
	logger.Debug("wizard step %s -> %s", from, to)
	c.step = to
	return nil
}

// SelectScenario records the scenario, merges its defaults into the form and
// moves to the configuration step. Fields the scenario does not preset are
// kept.
func (c *Controller) SelectScenario(id ScenarioID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.transition(StepScenario, StepConfiguration); err != nil {
		return err
	}
	c.scenario = &id
	defaults := Resolve(id)
	if defaults.IsEmpty() {
		logger.Warn("no defaults for scenario %q", id)
	}
	c.fields = defaults.Apply(c.fields)
	return nil
}

// SetText sets a text field.
func (c *Controller) SetText(field TextField, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields.SetText(field, value)
}

// SetEnabled sets a toggle.
func (c *Controller) SetEnabled(t Toggle, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields.SetEnabled(t, on)
}

// SetCourse replaces the course row at pos.
func (c *Controller) SetCourse(pos int, row CourseRow) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pos < 0 || pos >= len(c.fields.Courses) {
		return fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, pos, len(c.fields.Courses))
	}
	c.fields.Courses[pos] = row
	return nil
}

// ReplaceFields overwrites the whole form state with a copy of f.
func (c *Controller) ReplaceFields(f FormFields) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields = f.Clone()
}

// AddCourseRow appends a default course row and returns its position.
func (c *Controller) AddCourseRow() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields.Courses = append(c.fields.Courses, NewCourseRow())
	return len(c.fields.Courses) - 1
}

// RemoveCourseRow removes the row at pos. Removing the last remaining row
// is allowed.
func (c *Controller) RemoveCourseRow(pos int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pos < 0 || pos >= len(c.fields.Courses) {
		return fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, pos, len(c.fields.Courses))
	}
	c.fields.Courses = slices.Delete(c.fields.Courses, pos, pos+1)
	return nil
}

// AdvanceToPreview renders the preview and moves to the preview step.
func (c *Controller) AdvanceToPreview() (Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.transition(StepConfiguration, StepPreview); err != nil {
		return Document{}, err
	}
	c.preview = RenderPreview(c.fields)
	return c.preview, nil
}

// ReturnToConfiguration goes back from the preview. The form is kept.
func (c *Controller) ReturnToConfiguration() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transition(StepPreview, StepConfiguration)
}

// ReturnToScenarios goes back to the scenario cards. The form is kept.
func (c *Controller) ReturnToScenarios() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transition(StepConfiguration, StepScenario)
}

// BeginSubmit latches the submit control and returns the payload to send.
// The latch holds until EndSubmit; there is no way to cancel a submission
// once it has begun.
func (c *Controller) BeginSubmit() (Payload, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepPreview {
		return Payload{}, fmt.Errorf("%w: submit while on %s", ErrInvalidTransition, c.step)
	}
	if c.inFlight {
		return Payload{}, ErrSubmitInFlight
	}
	c.inFlight = true
	c.lastErr = nil
	return BuildPayload(c.fields, c.scenario), nil
}

// EndSubmit releases the latch and records the outcome. A failure leaves the
// step and the form untouched so the user can retry.
func (c *Controller) EndSubmit(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		c.lastErr = err
		logger.Warn("submission failed: %v", err)
		return
	}
	c.submitted = true
	logger.Info("submission accepted")
}

// Submit sends the request synchronously through s.
func (c *Controller) Submit(ctx context.Context, s Submitter) (json.RawMessage, error) {
	payload, err := c.BeginSubmit()
	if err != nil {
		return nil, err
	}
	body, err := s.SubmitRequest(ctx, payload)
	c.EndSubmit(err)
	if err != nil {
		return nil, err
	}
	return body, nil
}
