package wizard

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/lmsenv/internal/request"
)

// Course row columns.
const (
	colName = iota
	colSections
	colStudents
	colTeachers
	numCourseCols
)

var courseColLabels = [numCourseCols]string{"Course name", "Sections", "Test students", "Test teachers"}

// CourseRowEditor edits one course row. Callbacks are registered when the
// row is built and receive the editor itself, so they always act on the
// row's current position rather than the one it had when it was created.
type CourseRowEditor struct {
	inputs   [numCourseCols]textinput.Model
	onChange func(*CourseRowEditor)
	onRemove func(*CourseRowEditor)
}

// NewCourseRowEditor creates an editor holding row.
func NewCourseRowEditor(row request.CourseRow) *CourseRowEditor {
	e := &CourseRowEditor{}
	e.inputs[colName] = newInput("Course name")
	e.inputs[colSections] = newInput(request.DefaultSections)
	e.inputs[colStudents] = newInput(request.DefaultTestStudents)
	e.inputs[colTeachers] = newInput(request.DefaultTestTeachers)
	for i := colSections; i < numCourseCols; i++ {
		e.inputs[i].SetWidth(8)
	}
	e.SetRow(row)
	return e
}

// OnChange registers the callback run after any edit of the row.
func (e *CourseRowEditor) OnChange(fn func(*CourseRowEditor)) *CourseRowEditor {
	e.onChange = fn
	return e
}

// OnRemove registers the callback run when the row asks to be removed.
func (e *CourseRowEditor) OnRemove(fn func(*CourseRowEditor)) *CourseRowEditor {
	e.onRemove = fn
	return e
}

// SetRow replaces the values shown by the editor.
func (e *CourseRowEditor) SetRow(row request.CourseRow) {
	e.inputs[colName].SetValue(row.Name)
	e.inputs[colSections].SetValue(row.Sections)
	e.inputs[colStudents].SetValue(row.TestStudents)
	e.inputs[colTeachers].SetValue(row.TestTeachers)
}

// Row returns the values as typed.
func (e *CourseRowEditor) Row() request.CourseRow {
	return request.CourseRow{
		Name:         e.inputs[colName].Value(),
		Sections:     e.inputs[colSections].Value(),
		TestStudents: e.inputs[colStudents].Value(),
		TestTeachers: e.inputs[colTeachers].Value(),
	}
}

// Focus focuses column col.
func (e *CourseRowEditor) Focus(col int) tea.Cmd {
	e.Blur()
	return e.inputs[col].Focus()
}

// Blur removes focus from every column.
func (e *CourseRowEditor) Blur() {
	for i := range e.inputs {
		e.inputs[i].Blur()
	}
}

// Update forwards msg to column col and reports the change.
func (e *CourseRowEditor) Update(col int, msg tea.Msg) tea.Cmd {
	before := e.inputs[col].Value()
	var cmd tea.Cmd
	e.inputs[col], cmd = e.inputs[col].Update(msg)
	if e.inputs[col].Value() != before && e.onChange != nil {
		e.onChange(e)
	}
	return cmd
}

// Remove runs the remove callback.
func (e *CourseRowEditor) Remove() {
	if e.onRemove != nil {
		e.onRemove(e)
	}
}

// View renders column col.
func (e *CourseRowEditor) View(col int) string {
	return e.inputs[col].View()
}
