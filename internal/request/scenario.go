package request

import "slices"

// ScenarioID identifies a scenario preset.
type ScenarioID string

// Scenarios of the reference deployment.
const (
	ScenarioAppIntegration      ScenarioID = "app-integration"
	ScenarioDepartmentStructure ScenarioID = "department-structure"
	ScenarioBulkTesting         ScenarioID = "bulk-testing"
	ScenarioAssignmentWorkflow  ScenarioID = "assignment-workflow"
)

// Scenario describes a scenario card.
type Scenario struct {
	ID          ScenarioID
	Title       string
	Description string
}

var scenarios = []Scenario{
	{
		ID:          ScenarioAppIntegration,
		Title:       "App Integration",
		Description: "Subaccount with a course for testing an LTI app integration",
	},
	{
		ID:          ScenarioDepartmentStructure,
		Title:       "Department Structure",
		Description: "Faculty subaccount with an introduction and an advanced course",
	},
	{
		ID:          ScenarioBulkTesting,
		Title:       "Bulk Testing",
		Description: "One large course with many sections, students and teachers",
	},
	{
		ID:          ScenarioAssignmentWorkflow,
		Title:       "Assignment Workflow",
		Description: "Single course in the root account for assignment testing",
	},
}

// Scenarios returns the scenario cards in display order.
func Scenarios() []Scenario {
	return slices.Clone(scenarios)
}

// LookupScenario returns the card for id.
func LookupScenario(id ScenarioID) (Scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{}, false
}

// Defaults is the subset of FormFields a scenario presets. Nil fields are
// left alone when the defaults are applied.
type Defaults struct {
	CreateSubaccount *bool
	SubaccountName   *string
	AddApps          *bool
	AppNames         *string
	Courses          []CourseRow
}

// IsEmpty reports whether applying d changes nothing.
func (d Defaults) IsEmpty() bool {
	return d.CreateSubaccount == nil &&
		d.SubaccountName == nil &&
		d.AddApps == nil &&
		d.AppNames == nil &&
		d.Courses == nil
}

// Apply returns a copy of f with the defaults merged in. Fields the scenario
// does not preset keep their values; a preset course list replaces the rows.
func (d Defaults) Apply(f FormFields) FormFields {
	out := f.Clone()
	if d.CreateSubaccount != nil {
		out.CreateSubaccount = *d.CreateSubaccount
	}
	if d.SubaccountName != nil {
		out.SubaccountName = *d.SubaccountName
	}
	if d.AddApps != nil {
		out.AddApps = *d.AddApps
	}
	if d.AppNames != nil {
		out.AppNames = *d.AppNames
	}
	if d.Courses != nil {
		out.Courses = slices.Clone(d.Courses)
	}
	return out
}

func course(name, sections, students, teachers string) CourseRow {
	return CourseRow{Name: name, Sections: sections, TestStudents: students, TestTeachers: teachers}
}

func ptr[T any](v T) *T { return &v }

// Resolve returns the default bundle for a scenario. Unknown ids, including
// the empty string, resolve to an empty bundle.
func Resolve(id ScenarioID) Defaults {
	// A known scenario always sets the subaccount flag. Apps are only ever
	// switched on, never off.
	switch id {
	case ScenarioAppIntegration:
		return Defaults{
			CreateSubaccount: ptr(true),
			SubaccountName:   ptr("App Integration Test"),
			AddApps:          ptr(true),
			AppNames:         ptr("Peerceptiv"),
			Courses:          []CourseRow{course("Test Course with App", "2", "20", "1")},
		}
	case ScenarioDepartmentStructure:
		return Defaults{
			CreateSubaccount: ptr(true),
			SubaccountName:   ptr("Test Faculty"),
			Courses: []CourseRow{
				course("Introduction Course", "1", "10", "1"),
				course("Advanced Course", "1", "5", "1"),
			},
		}
	case ScenarioBulkTesting:
		return Defaults{
			CreateSubaccount: ptr(true),
			SubaccountName:   ptr("Bulk Testing"),
			Courses:          []CourseRow{course("Large Test Course", "4", "50", "3")},
		}
	case ScenarioAssignmentWorkflow:
		return Defaults{
			CreateSubaccount: ptr(false),
			Courses:          []CourseRow{course("Assignment Test Course", "1", "10", "1")},
		}
	}
	return Defaults{}
}
