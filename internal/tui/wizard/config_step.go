package wizard

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/editor"
	"github.com/mark3labs/lmsenv/internal/logger"
	"github.com/mark3labs/lmsenv/internal/request"
)

type itemKind int

const (
	itemText itemKind = iota
	itemEnvironment
	itemToggle
	itemCourse
	itemAddCourse
	itemSection
)

// formItem is one focusable line of the form, or a section heading.
type formItem struct {
	kind   itemKind
	label  string
	field  request.TextField
	toggle request.Toggle
	course *CourseRowEditor
	col    int
}

func (it formItem) focusable() bool {
	return it.kind != itemSection
}

var textLabels = map[request.TextField]string{
	request.FieldRequester:      "Requester",
	request.FieldTopdeskNumber:  "Topdesk number",
	request.FieldJiraEpic:       "Jira epic",
	request.FieldStartDate:      "Start date",
	request.FieldEndDate:        "End date",
	request.FieldAdminUsers:     "Admin users",
	request.FieldSubaccountName: "Subaccount name",
	request.FieldAppNames:       "App names",
	request.FieldSpecialNotes:   "Special notes",
}

var textPlaceholders = map[request.TextField]string{
	request.FieldRequester:      "Full name",
	request.FieldTopdeskNumber:  "e.g. T2403-123",
	request.FieldJiraEpic:       "e.g. LMS-42",
	request.FieldStartDate:      "YYYY-MM-DD",
	request.FieldEndDate:        "YYYY-MM-DD",
	request.FieldAdminUsers:     "comma-separated",
	request.FieldSubaccountName: "Subaccount name",
	request.FieldAppNames:       "comma-separated",
	request.FieldSpecialNotes:   "ctrl+e opens $EDITOR",
}

var toggleLabels = map[request.Toggle]string{
	request.ToggleSubaccount:          "New subaccount",
	request.ToggleTerms:               "Configure terms",
	request.ToggleApps:                "Add apps",
	request.ToggleDeveloperKeys:       "Developer keys",
	request.ToggleIntegrationAccounts: "Integration accounts",
}

// ConfigStep is the request form. Every edit is written straight to the
// controller; the step only holds the widgets.
type ConfigStep struct {
	ctrl         *request.Controller
	environments []string

	inputs  map[request.TextField]*textinput.Model
	courses []*CourseRowEditor

	items  []formItem
	focus  int
	offset int

	tmpFile string
	width   int
	height  int
}

// NewConfigStep creates the form bound to ctrl.
func NewConfigStep(ctrl *request.Controller, environments []string) *ConfigStep {
	c := &ConfigStep{
		ctrl:         ctrl,
		environments: environments,
		inputs:       map[request.TextField]*textinput.Model{},
		width:        60,
		height:       20,
	}
	for field := range textLabels {
		input := newInput(textPlaceholders[field])
		c.inputs[field] = &input
	}
	c.Reload()
	return c
}

// Reload refreshes every widget from the controller.
func (c *ConfigStep) Reload() {
	f := c.ctrl.Fields()
	for field, input := range c.inputs {
		input.SetValue(f.Text(field))
	}
	if f.Environment == "" && len(c.environments) > 0 {
		c.ctrl.SetText(request.FieldEnvironment, c.environments[0])
	}

	c.courses = c.courses[:0]
	for _, row := range f.Courses {
		c.courses = append(c.courses, c.newCourseEditor(row))
	}
	c.layout()
}

func (c *ConfigStep) newCourseEditor(row request.CourseRow) *CourseRowEditor {
	return NewCourseRowEditor(row).
		OnChange(c.courseChanged).
		OnRemove(c.removeCourse)
}

func (c *ConfigStep) courseIndex(e *CourseRowEditor) int {
	return slices.Index(c.courses, e)
}

func (c *ConfigStep) courseChanged(e *CourseRowEditor) {
	if idx := c.courseIndex(e); idx >= 0 {
		if err := c.ctrl.SetCourse(idx, e.Row()); err != nil {
			logger.Warn("updating course: %v", err)
		}
	}
}

func (c *ConfigStep) removeCourse(e *CourseRowEditor) {
	idx := c.courseIndex(e)
	if idx < 0 {
		return
	}
	if err := c.ctrl.RemoveCourseRow(idx); err != nil {
		logger.Warn("removing course: %v", err)
		return
	}
	c.courses = slices.Delete(c.courses, idx, idx+1)
	c.layout()
}

// AddCourse appends a default course row and focuses its name.
func (c *ConfigStep) AddCourse() tea.Cmd {
	c.ctrl.AddCourseRow()
	e := c.newCourseEditor(request.NewCourseRow())
	c.courses = append(c.courses, e)
	c.layout()
	for i, it := range c.items {
		if it.course == e && it.col == colName {
			return c.setFocus(i)
		}
	}
	return nil
}

// layout rebuilds the item list from the current toggles and course rows.
func (c *ConfigStep) layout() {
	f := c.ctrl.Fields()
	var current formItem
	if c.focus < len(c.items) {
		current = c.items[c.focus]
	}

	text := func(field request.TextField) formItem {
		return formItem{kind: itemText, label: textLabels[field], field: field}
	}
	toggle := func(t request.Toggle) formItem {
		return formItem{kind: itemToggle, label: toggleLabels[t], toggle: t}
	}

	items := []formItem{
		{kind: itemSection, label: "Request"},
		text(request.FieldRequester),
		text(request.FieldTopdeskNumber),
		{kind: itemEnvironment, label: "Environment"},
		text(request.FieldJiraEpic),
		text(request.FieldStartDate),
		text(request.FieldEndDate),
		text(request.FieldAdminUsers),
		{kind: itemSection, label: "Structure"},
		toggle(request.ToggleSubaccount),
	}
	if f.CreateSubaccount {
		items = append(items, text(request.FieldSubaccountName))
	}
	for i, e := range c.courses {
		items = append(items, formItem{kind: itemSection, label: fmt.Sprintf("Course %d", i+1)})
		for col := range numCourseCols {
			items = append(items, formItem{kind: itemCourse, label: courseColLabels[col], course: e, col: col})
		}
	}
	items = append(items,
		formItem{kind: itemAddCourse, label: "+ Add course"},
		formItem{kind: itemSection, label: "Options"},
		toggle(request.ToggleTerms),
		toggle(request.ToggleApps),
	)
	if f.AddApps {
		items = append(items, text(request.FieldAppNames))
	}
	items = append(items,
		toggle(request.ToggleDeveloperKeys),
		toggle(request.ToggleIntegrationAccounts),
		text(request.FieldSpecialNotes),
	)
	c.items = items

	// Keep focus on the same item when it still exists.
	focus := -1
	for i, it := range items {
		if it.focusable() && it.kind == current.kind && it.field == current.field &&
			it.toggle == current.toggle && it.course == current.course && it.col == current.col {
			focus = i
			break
		}
	}
	if focus < 0 {
		focus = min(c.focus, len(items)-1)
		for focus < len(items)-1 && !items[focus].focusable() {
			focus++
		}
	}
	c.setFocus(focus)
}

// Init focuses the first field.
func (c *ConfigStep) Init() tea.Cmd {
	c.focus = 0
	return c.move(1)
}

// SetSize updates the dimensions for the config step.
func (c *ConfigStep) SetSize(width, height int) {
	c.width = width
	c.height = height
	w := max(width-30, 20)
	for _, input := range c.inputs {
		input.SetWidth(w)
	}
	for _, e := range c.courses {
		e.inputs[colName].SetWidth(w)
	}
}

func (c *ConfigStep) setFocus(idx int) tea.Cmd {
	for _, input := range c.inputs {
		input.Blur()
	}
	for _, e := range c.courses {
		e.Blur()
	}
	if idx < 0 || idx >= len(c.items) {
		return nil
	}
	c.focus = idx
	it := c.items[idx]
	switch it.kind {
	case itemText:
		return c.inputs[it.field].Focus()
	case itemCourse:
		return it.course.Focus(it.col)
	}
	return nil
}

// move shifts focus by delta focusable items, stopping at the ends.
func (c *ConfigStep) move(delta int) tea.Cmd {
	for i := c.focus + delta; i >= 0 && i < len(c.items); i += delta {
		if c.items[i].focusable() {
			return c.setFocus(i)
		}
	}
	return nil
}

// Focused returns the focused item label, for tests and the status line.
func (c *ConfigStep) Focused() string {
	if c.focus < len(c.items) {
		return c.items[c.focus].label
	}
	return ""
}

func (c *ConfigStep) cycleEnvironment(delta int) {
	if len(c.environments) == 0 {
		return
	}
	current := c.ctrl.Fields().Environment
	idx := slices.Index(c.environments, current)
	idx = (idx + delta + len(c.environments)) % len(c.environments)
	c.ctrl.SetText(request.FieldEnvironment, c.environments[idx])
}

func (c *ConfigStep) flipToggle(t request.Toggle) {
	f := c.ctrl.Fields()
	c.ctrl.SetEnabled(t, !f.Enabled(t))
	c.layout()
}

// Update handles messages for the config step.
func (c *ConfigStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotesEditedMsg:
		notes := strings.TrimRight(msg.Content, "\n")
		c.ctrl.SetText(request.FieldSpecialNotes, notes)
		c.inputs[request.FieldSpecialNotes].SetValue(notes)
		if c.tmpFile != "" {
			_ = os.Remove(c.tmpFile)
			c.tmpFile = ""
		}
		return nil

	case tea.KeyPressMsg:
		if len(c.items) == 0 {
			return nil
		}
		it := c.items[c.focus]

		switch msg.String() {
		case "tab", "down":
			return c.move(1)
		case "shift+tab", "up":
			return c.move(-1)
		case "ctrl+p":
			return func() tea.Msg { return PreviewRequestedMsg{} }
		case "ctrl+n":
			return c.AddCourse()
		case "ctrl+d":
			if it.kind == itemCourse && len(c.courses) > 1 {
				it.course.Remove()
			}
			return nil
		case "ctrl+e":
			if it.kind == itemText && it.field == request.FieldSpecialNotes {
				return c.openEditor()
			}
			return nil
		case "enter":
			switch it.kind {
			case itemToggle:
				c.flipToggle(it.toggle)
				return nil
			case itemAddCourse:
				return c.AddCourse()
			}
			if c.isLast(c.focus) {
				return func() tea.Msg { return PreviewRequestedMsg{} }
			}
			return c.move(1)
		case "space":
			switch it.kind {
			case itemToggle:
				c.flipToggle(it.toggle)
				return nil
			case itemAddCourse:
				return c.AddCourse()
			case itemEnvironment:
				c.cycleEnvironment(1)
				return nil
			}
		case "left", "right":
			if it.kind == itemEnvironment {
				delta := 1
				if msg.String() == "left" {
					delta = -1
				}
				c.cycleEnvironment(delta)
				return nil
			}
		}
	}

	if c.focus >= len(c.items) {
		return nil
	}
	it := c.items[c.focus]
	switch it.kind {
	case itemText:
		input := c.inputs[it.field]
		var cmd tea.Cmd
		*input, cmd = input.Update(msg)
		c.ctrl.SetText(it.field, input.Value())
		return cmd
	case itemCourse:
		return it.course.Update(it.col, msg)
	}
	return nil
}

func (c *ConfigStep) isLast(idx int) bool {
	for i := idx + 1; i < len(c.items); i++ {
		if c.items[i].focusable() {
			return false
		}
	}
	return true
}

// openEditor launches $EDITOR on the special notes.
func (c *ConfigStep) openEditor() tea.Cmd {
	if c.tmpFile != "" {
		_ = os.Remove(c.tmpFile)
		c.tmpFile = ""
	}
	tmpfile, err := os.CreateTemp("", "lmsenv_notes_*.md")
	if err != nil {
		logger.Warn("creating notes file: %v", err)
		return nil
	}
	if _, err := tmpfile.WriteString(c.ctrl.Fields().SpecialNotes); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(tmpfile.Name())
		return nil
	}
	_ = tmpfile.Close()
	c.tmpFile = tmpfile.Name()

	cmd, err := editor.Command("lmsenv", tmpfile.Name())
	if err != nil {
		_ = os.Remove(tmpfile.Name())
		c.tmpFile = ""
		return nil
	}

	return tea.ExecProcess(cmd, notesEdited(tmpfile.Name()))
}

// notesEdited reads the notes back once the editor exits. The file is
// removed here when nothing is read; otherwise NotesEditedMsg removes it.
func notesEdited(path string) tea.ExecCallback {
	return func(err error) tea.Msg {
		if err != nil {
			logger.Warn("editor exited: %v", err)
			_ = os.Remove(path)
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("reading notes: %v", err)
			_ = os.Remove(path)
			return nil
		}
		return NotesEditedMsg{Content: string(content)}
	}
}

func (c *ConfigStep) renderItem(it formItem, focused bool) string {
	if it.kind == itemSection {
		return styleSection.Render(it.label)
	}

	label := styleLabel.Render(it.label)
	prefix := "  "
	if focused {
		label = styleLabelFocused.Render(it.label)
		prefix = styleCursor.Render("▸ ")
	}

	f := c.ctrl.Fields()
	var value string
	switch it.kind {
	case itemText:
		value = c.inputs[it.field].View()
	case itemEnvironment:
		value = "‹ " + f.Environment + " ›"
	case itemToggle:
		if f.Enabled(it.toggle) {
			value = styleToggleOn.Render("[x]")
		} else {
			value = styleToggleOff.Render("[ ]")
		}
	case itemCourse:
		value = it.course.View(it.col)
	case itemAddCourse:
		return prefix + label
	}
	return prefix + label + value
}

// View renders the config step.
func (c *ConfigStep) View() string {
	lines := make([]string, len(c.items))
	for i, it := range c.items {
		lines[i] = c.renderItem(it, i == c.focus)
	}

	// Keep the focused line in the visible window.
	visible := max(c.height-2, 5)
	if c.focus < c.offset {
		c.offset = c.focus
	}
	if c.focus >= c.offset+visible {
		c.offset = c.focus - visible + 1
	}
	c.offset = min(c.offset, max(len(lines)-visible, 0))
	end := min(c.offset+visible, len(lines))

	var b strings.Builder
	b.WriteString(strings.Join(lines[c.offset:end], "\n"))
	b.WriteString("\n\n")

	pairs := []string{"tab/↑↓", "move", "space", "toggle", "ctrl+n", "add course"}
	if len(c.courses) > 1 {
		pairs = append(pairs, "ctrl+d", "remove course")
	}
	pairs = append(pairs, "ctrl+p", "preview", "esc", "scenarios")
	b.WriteString(renderHintBar(pairs...))
	return b.String()
}
