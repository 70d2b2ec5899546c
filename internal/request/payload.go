package request

import (
	"strconv"
	"strings"

	"github.com/mark3labs/lmsenv/internal/logger"
)

// Payload is the JSON body posted to the submission endpoint. Field names
// and nesting are a contract with the backend.
type Payload struct {
	Scenario      *ScenarioID       `json:"scenario"`
	Requester     string            `json:"requester"`
	TopdeskNumber string            `json:"topdesk_number"`
	Environment   string            `json:"environment"`
	JiraEpic      string            `json:"jira_epic"`
	StartDate     string            `json:"start_date"`
	EndDate       string            `json:"end_date"`
	AdminUsers    []string          `json:"admin_users"`
	Subaccount    SubaccountPayload `json:"subaccount"`
	Courses       []CoursePayload   `json:"courses"`
	Options       OptionsPayload    `json:"options"`
	SpecialNotes  string            `json:"special_notes"`
}

// SubaccountPayload is the subaccount block of the payload.
type SubaccountPayload struct {
	Create bool   `json:"create"`
	Name   string `json:"name"`
}

// CoursePayload is one course of the payload.
type CoursePayload struct {
	Name     string `json:"name"`
	Sections int    `json:"sections"`
	Students int    `json:"students"`
	Teachers int    `json:"teachers"`
}

// OptionsPayload is the options block of the payload.
type OptionsPayload struct {
	ConfigureTerms      bool     `json:"configure_terms"`
	AddApps             bool     `json:"add_apps"`
	AppNames            []string `json:"app_names"`
	DeveloperKeys       bool     `json:"developer_keys"`
	IntegrationAccounts bool     `json:"integration_accounts"`
}

// SplitList splits comma-separated text into trimmed, non-empty entries,
// keeping their order. "a, b ,, c" yields [a b c].
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseCount parses the leading integer of s, ignoring surrounding
// whitespace and any trailing non-digits ("12 students" is 12). It reports
// false and returns 0 when s does not start with a number.
func ParseCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func count(course int, field, raw string) int {
	n, ok := ParseCount(raw)
	if !ok {
		logger.Warn("course %d: %s %q is not a number, sending 0", course+1, field, raw)
	}
	return n
}

// BuildPayload converts the form state into the submission payload. A nil
// scenario is sent as null.
func BuildPayload(f FormFields, scenario *ScenarioID) Payload {
	courses := make([]CoursePayload, 0, len(f.Courses))
	for i, c := range f.Courses {
		courses = append(courses, CoursePayload{
			Name:     c.Name,
			Sections: count(i, "sections", c.Sections),
			Students: count(i, "students", c.TestStudents),
			Teachers: count(i, "teachers", c.TestTeachers),
		})
	}

	var id *ScenarioID
	if scenario != nil {
		s := *scenario
		id = &s
	}

	return Payload{
		Scenario:      id,
		Requester:     f.Requester,
		TopdeskNumber: f.TopdeskNumber,
		Environment:   f.Environment,
		JiraEpic:      f.JiraEpic,
		StartDate:     f.StartDate,
		EndDate:       f.EndDate,
		AdminUsers:    SplitList(f.AdminUsers),
		Subaccount: SubaccountPayload{
			Create: f.CreateSubaccount,
			Name:   f.SubaccountName,
		},
		Courses: courses,
		Options: OptionsPayload{
			ConfigureTerms:      f.ConfigureTerms,
			AddApps:             f.AddApps,
			AppNames:            SplitList(f.AppNames),
			DeveloperKeys:       f.DeveloperKeys,
			IntegrationAccounts: f.IntegrationAccounts,
		},
		SpecialNotes: f.SpecialNotes,
	}
}
