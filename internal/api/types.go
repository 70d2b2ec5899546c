package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/lmsenv/internal/request"
)

// Count decodes either a number or an array, in which case it holds the
// array length. The backend reports created and deleted resources both ways.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = 0
		return nil
	case len(data) > 0 && data[0] == '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*c = Count(len(items))
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("count: %w", err)
	}
	*c = Count(n)
	return nil
}

// CreatedResources counts what a request provisioned.
type CreatedResources struct {
	Subaccounts Count `json:"subaccounts"`
	Courses     Count `json:"courses"`
	Users       Count `json:"users"`
}

// RequestRecord is a previously submitted request as stored by the backend.
type RequestRecord struct {
	ID               string           `json:"id"`
	Requester        string           `json:"requester"`
	Environment      string           `json:"environment"`
	Scenario         string           `json:"scenario"`
	ScenarioName     string           `json:"scenario_name"`
	StartDate        string           `json:"start_date"`
	EndDate          string           `json:"end_date"`
	Cleaned          bool             `json:"cleaned"`
	CreatedResources CreatedResources `json:"created_resources"`
}

// DisplayName returns the scenario name, falling back to its id.
func (r RequestRecord) DisplayName() string {
	if r.ScenarioName != "" {
		return r.ScenarioName
	}
	return r.Scenario
}

// Request states.
const (
	StateActive  = "active"
	StateExpired = "expired"
	StateCleaned = "cleaned"
)

// State classifies the record: cleaned when its resources were removed,
// expired once the end date has passed, active otherwise. An end date that
// does not parse never expires.
func (r RequestRecord) State(now time.Time) string {
	if r.Cleaned {
		return StateCleaned
	}
	end, err := request.ParseDate(r.EndDate)
	if err == nil && end.Before(now) {
		return StateExpired
	}
	return StateActive
}

// CleanupResult is the response of a request cleanup.
type CleanupResult struct {
	DeletedCourses Count `json:"deleted_courses"`
	DeletedUsers   Count `json:"deleted_users"`
}

// Environment status values reported by the backend.
const (
	StatusClean        = "clean"
	StatusInUse        = "in-use"
	StatusNeedsCleanup = "needs-cleanup"
)

// EnvironmentStatus is the usage summary of one environment.
type EnvironmentStatus struct {
	Environment  string     `json:"environment"`
	Subaccounts  int        `json:"subaccounts"`
	Courses      int        `json:"courses"`
	LastActivity *time.Time `json:"lastActivity"`
	Status       string     `json:"status"`
}

// SetupSubaccount is a subaccount to create through quick setup.
type SetupSubaccount struct {
	Name            string `json:"name"`
	ParentAccountID int    `json:"parent_account_id"`
}

// SetupCourse is a course to create through quick setup.
type SetupCourse struct {
	Name       string `json:"name"`
	CourseCode string `json:"course_code"`
	AccountID  int    `json:"account_id"`
}

// SetupRequest is the body of a quick setup call.
type SetupRequest struct {
	Environment string            `json:"environment"`
	Subaccounts []SetupSubaccount `json:"subaccounts"`
	Courses     []SetupCourse     `json:"courses"`
}

// CreatedItem is a resource created by quick setup.
type CreatedItem struct {
	ID         json.Number `json:"id"`
	Name       string      `json:"name"`
	CourseCode string      `json:"course_code,omitempty"`
}

// SetupResult is the response of a quick setup call. Errors lists the items
// that failed; the call as a whole still succeeded.
type SetupResult struct {
	Subaccounts []CreatedItem `json:"subaccounts"`
	Courses     []CreatedItem `json:"courses"`
	Errors      []string      `json:"errors"`
}
