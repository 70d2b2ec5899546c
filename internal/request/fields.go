// Package request models a test-environment request: the wizard state
// machine, scenario defaults, the preview summary and the submission payload.
package request

import "slices"

// Step identifies the active wizard step.
type Step int

const (
	StepScenario Step = iota
	StepConfiguration
	StepPreview
)

// String returns the display name of a step.
func (s Step) String() string {
	switch s {
	case StepScenario:
		return "Scenario"
	case StepConfiguration:
		return "Configuration"
	case StepPreview:
		return "Preview"
	default:
		return "Unknown"
	}
}

// Default values of a freshly added course row.
const (
	DefaultSections     = "1"
	DefaultTestStudents = "5"
	DefaultTestTeachers = "1"
)

// CourseRow is one course to create. Counts hold the text as typed; they are
// parsed only when the payload is built.
type CourseRow struct {
	Name         string `yaml:"name" json:"name"`
	Sections     string `yaml:"sections" json:"sections"`
	TestStudents string `yaml:"students" json:"students"`
	TestTeachers string `yaml:"teachers" json:"teachers"`
}

// NewCourseRow returns an empty row with the default counts.
func NewCourseRow() CourseRow {
	return CourseRow{
		Sections:     DefaultSections,
		TestStudents: DefaultTestStudents,
		TestTeachers: DefaultTestTeachers,
	}
}

// TextField names a free-form scalar field.
type TextField int

const (
	FieldRequester TextField = iota
	FieldTopdeskNumber
	FieldEnvironment
	FieldJiraEpic
	FieldStartDate
	FieldEndDate
	FieldAdminUsers
	FieldSubaccountName
	FieldAppNames
	FieldSpecialNotes
)

// Toggle names a boolean option.
type Toggle int

const (
	ToggleSubaccount Toggle = iota
	ToggleTerms
	ToggleApps
	ToggleDeveloperKeys
	ToggleIntegrationAccounts
)

// FormFields is the complete editable state of a request.
type FormFields struct {
	Requester     string `yaml:"requester"`
	TopdeskNumber string `yaml:"topdesk_number"`
	Environment   string `yaml:"environment"`
	JiraEpic      string `yaml:"jira_epic"`
	StartDate     string `yaml:"start_date"`
	EndDate       string `yaml:"end_date"`
	AdminUsers    string `yaml:"admin_users"`

	CreateSubaccount bool   `yaml:"create_subaccount"`
	SubaccountName   string `yaml:"subaccount_name"`

	ConfigureTerms      bool   `yaml:"configure_terms"`
	AddApps             bool   `yaml:"add_apps"`
	AppNames            string `yaml:"app_names"`
	DeveloperKeys       bool   `yaml:"developer_keys"`
	IntegrationAccounts bool   `yaml:"integration_accounts"`

	SpecialNotes string `yaml:"special_notes"`

	Courses []CourseRow `yaml:"courses"`
}

// NewFormFields returns the state of a freshly opened form: everything empty
// and a single default course row.
func NewFormFields() FormFields {
	return FormFields{Courses: []CourseRow{NewCourseRow()}}
}

// Clone returns a copy that shares no memory with f.
func (f FormFields) Clone() FormFields {
	f.Courses = slices.Clone(f.Courses)
	return f
}

// Text returns the value of a text field.
func (f *FormFields) Text(field TextField) string {
	if p := f.textPtr(field); p != nil {
		return *p
	}
	return ""
}

// SetText sets the value of a text field. Unknown fields are ignored.
func (f *FormFields) SetText(field TextField, value string) {
	if p := f.textPtr(field); p != nil {
		*p = value
	}
}

func (f *FormFields) textPtr(field TextField) *string {
	switch field {
	case FieldRequester:
		return &f.Requester
	case FieldTopdeskNumber:
		return &f.TopdeskNumber
	case FieldEnvironment:
		return &f.Environment
	case FieldJiraEpic:
		return &f.JiraEpic
	case FieldStartDate:
		return &f.StartDate
	case FieldEndDate:
		return &f.EndDate
	case FieldAdminUsers:
		return &f.AdminUsers
	case FieldSubaccountName:
		return &f.SubaccountName
	case FieldAppNames:
		return &f.AppNames
	case FieldSpecialNotes:
		return &f.SpecialNotes
	}
	return nil
}

// Enabled reports the state of a toggle.
func (f *FormFields) Enabled(t Toggle) bool {
	if p := f.togglePtr(t); p != nil {
		return *p
	}
	return false
}

// SetEnabled sets a toggle. Unknown toggles are ignored.
func (f *FormFields) SetEnabled(t Toggle, on bool) {
	if p := f.togglePtr(t); p != nil {
		*p = on
	}
}

func (f *FormFields) togglePtr(t Toggle) *bool {
	switch t {
	case ToggleSubaccount:
		return &f.CreateSubaccount
	case ToggleTerms:
		return &f.ConfigureTerms
	case ToggleApps:
		return &f.AddApps
	case ToggleDeveloperKeys:
		return &f.DeveloperKeys
	case ToggleIntegrationAccounts:
		return &f.IntegrationAccounts
	}
	return nil
}
