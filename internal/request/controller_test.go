package request

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeSubmitter struct {
	mu       sync.Mutex
	payloads []Payload
	err      error
	block    chan struct{}
}

func (f *fakeSubmitter) SubmitRequest(ctx context.Context, p Payload) (json.RawMessage, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, p)
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"ok":true}`), nil
}

func previewController(t *testing.T) *Controller {
	t.Helper()
	c := NewController()
	require.NoError(t, c.SelectScenario(ScenarioBulkTesting))
	c.SetText(FieldRequester, "Jan")
	c.SetText(FieldEnvironment, "test")
	_, err := c.AdvanceToPreview()
	require.NoError(t, err)
	return c
}

func TestController_InitialState(t *testing.T) {
	c := NewController()
	require.Equal(t, StepScenario, c.Step())
	_, ok := c.Scenario()
	require.False(t, ok)
	require.Equal(t, NewFormFields(), c.Fields())
}

func TestController_SelectScenario(t *testing.T) {
	c := NewController()
	c.SetText(FieldRequester, "Jan")

	require.NoError(t, c.SelectScenario(ScenarioAppIntegration))
	require.Equal(t, StepConfiguration, c.Step())

	id, ok := c.Scenario()
	require.True(t, ok)
	require.Equal(t, ScenarioAppIntegration, id)

	f := c.Fields()
	require.Equal(t, "Jan", f.Requester)
	require.Equal(t, "App Integration Test", f.SubaccountName)

	require.ErrorIs(t, c.SelectScenario(ScenarioBulkTesting), ErrInvalidTransition)
}

func TestController_UnknownScenarioLeavesForm(t *testing.T) {
	c := NewController()
	require.NoError(t, c.SelectScenario("mystery"))
	require.Equal(t, StepConfiguration, c.Step())
	require.Equal(t, NewFormFields(), c.Fields())
}

func TestController_Transitions(t *testing.T) {
	c := NewController()
	_, err := c.AdvanceToPreview()
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.ErrorIs(t, c.ReturnToConfiguration(), ErrInvalidTransition)

	require.NoError(t, c.SelectScenario(ScenarioBulkTesting))
	require.NoError(t, c.ReturnToScenarios())
	require.Equal(t, StepScenario, c.Step())

	require.NoError(t, c.SelectScenario(ScenarioBulkTesting))
	_, err = c.AdvanceToPreview()
	require.NoError(t, err)
	require.Equal(t, StepPreview, c.Step())

	require.NoError(t, c.ReturnToConfiguration())
	require.Equal(t, StepConfiguration, c.Step())
	require.Equal(t, "Bulk Testing", c.Fields().SubaccountName)
}

func TestController_AddRemoveCourseRow(t *testing.T) {
	c := NewController()
	require.NoError(t, c.SelectScenario(ScenarioDepartmentStructure))
	before := c.Fields().Courses

	pos := c.AddCourseRow()
	require.Equal(t, 2, pos)
	require.Equal(t, NewCourseRow(), c.Fields().Courses[pos])

	require.NoError(t, c.RemoveCourseRow(pos))
	require.Equal(t, before, c.Fields().Courses)

	require.ErrorIs(t, c.RemoveCourseRow(5), ErrRowOutOfRange)
	require.ErrorIs(t, c.RemoveCourseRow(-1), ErrRowOutOfRange)
}

func TestController_RemoveMiddleRowKeepsOrder(t *testing.T) {
	c := NewController()
	require.NoError(t, c.SelectScenario(ScenarioDepartmentStructure))
	c.AddCourseRow()

	require.NoError(t, c.RemoveCourseRow(1))
	courses := c.Fields().Courses
	require.Len(t, courses, 2)
	require.Equal(t, "Introduction Course", courses[0].Name)
	require.Equal(t, NewCourseRow(), courses[1])
}

func TestController_RemoveLastRow(t *testing.T) {
	c := NewController()
	require.NoError(t, c.RemoveCourseRow(0))
	require.Empty(t, c.Fields().Courses)
}

func TestController_SetCourse(t *testing.T) {
	c := NewController()
	row := CourseRow{Name: "X", Sections: "2", TestStudents: "3", TestTeachers: "4"}
	require.NoError(t, c.SetCourse(0, row))
	require.Equal(t, row, c.Fields().Courses[0])
	require.ErrorIs(t, c.SetCourse(1, row), ErrRowOutOfRange)
}

func TestController_FieldsIsCopy(t *testing.T) {
	c := NewController()
	f := c.Fields()
	f.Courses[0].Name = "mutated"
	f.Requester = "mutated"
	require.Equal(t, NewFormFields(), c.Fields())
}

func TestController_SetEnabled(t *testing.T) {
	c := NewController()
	c.SetEnabled(ToggleDeveloperKeys, true)
	require.True(t, c.Fields().DeveloperKeys)
}

func TestController_Submit(t *testing.T) {
	c := previewController(t)
	s := &fakeSubmitter{}

	body, err := c.Submit(context.Background(), s)
	require.NoError(t, err)
	require.JSONEq(t, `{"ok":true}`, string(body))
	require.True(t, c.Submitted())
	require.False(t, c.InFlight())

	require.Len(t, s.payloads, 1)
	require.Equal(t, ScenarioBulkTesting, *s.payloads[0].Scenario)
	require.Equal(t, "Jan", s.payloads[0].Requester)
}

func TestController_SubmitFailureKeepsState(t *testing.T) {
	c := previewController(t)
	before := c.Fields()
	s := &fakeSubmitter{err: errors.New("server error 500")}

	_, err := c.Submit(context.Background(), s)
	require.Error(t, err)

	require.Equal(t, StepPreview, c.Step())
	require.Equal(t, before, c.Fields())
	require.False(t, c.InFlight())
	require.False(t, c.Submitted())
	require.EqualError(t, c.LastError(), "server error 500")

	s.err = nil
	_, err = c.Submit(context.Background(), s)
	require.NoError(t, err)
	require.NoError(t, c.LastError())
	require.Len(t, s.payloads, 2)
}

func TestController_SubmitOnlyFromPreview(t *testing.T) {
	c := NewController()
	_, err := c.BeginSubmit()
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestController_SubmitLatch(t *testing.T) {
	c := previewController(t)

	_, err := c.BeginSubmit()
	require.NoError(t, err)
	require.True(t, c.InFlight())

	_, err = c.BeginSubmit()
	require.ErrorIs(t, err, ErrSubmitInFlight)

	c.EndSubmit(nil)
	require.False(t, c.InFlight())
}

func TestController_ConcurrentSubmitSendsOnce(t *testing.T) {
	c := previewController(t)
	s := &fakeSubmitter{block: make(chan struct{})}

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Submit(context.Background(), s)
			errs <- err
		}()
	}

	require.Eventually(t, c.InFlight, time.Second, time.Millisecond)
	close(s.block)
	wg.Wait()
	close(errs)

	accepted := 0
	for err := range errs {
		if err == nil {
			accepted++
		}
	}
	require.GreaterOrEqual(t, accepted, 1)
	require.Len(t, s.payloads, accepted)
}
