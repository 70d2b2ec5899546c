package request

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Draft is a request prepared in a YAML file for non-interactive use.
type Draft struct {
	Scenario ScenarioID
	Fields   FormFields
}

// ParseDraft decodes a draft. The scenario defaults are applied first and
// every key present in the document overrides them. Course rows that omit a
// count get the default count.
func ParseDraft(data []byte) (*Draft, error) {
	var head struct {
		Scenario ScenarioID `yaml:"scenario"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parsing draft: %w", err)
	}
	if head.Scenario == "" {
		return nil, errors.New("draft has no scenario")
	}

	fields := Resolve(head.Scenario).Apply(NewFormFields())
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parsing draft fields: %w", err)
	}
	for i := range fields.Courses {
		row := &fields.Courses[i]
		if row.Sections == "" {
			row.Sections = DefaultSections
		}
		if row.TestStudents == "" {
			row.TestStudents = DefaultTestStudents
		}
		if row.TestTeachers == "" {
			row.TestTeachers = DefaultTestTeachers
		}
	}

	return &Draft{Scenario: head.Scenario, Fields: fields}, nil
}

// LoadDraft reads and decodes a draft file.
func LoadDraft(path string) (*Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading draft: %w", err)
	}
	return ParseDraft(data)
}

// Controller returns a controller on the preview step holding the draft.
func (d *Draft) Controller() (*Controller, error) {
	c := NewController()
	if err := c.SelectScenario(d.Scenario); err != nil {
		return nil, err
	}
	c.ReplaceFields(d.Fields)
	if _, err := c.AdvanceToPreview(); err != nil {
		return nil, err
	}
	return c, nil
}
