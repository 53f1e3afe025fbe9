// Package portfolio defines the résumé record rendered by folio, together
// with the rules for collecting, validating and loading it.
package portfolio

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Data is the single input record for a rendered portfolio.
type Data struct {
	FullName string `yaml:"fullName" json:"fullName" validate:"required"`
	Role     string `yaml:"role" json:"role" validate:"required"`
	Location string `yaml:"location,omitempty" json:"location,omitempty"`
	Intro    string `yaml:"intro" json:"intro" validate:"required"`
	Email    string `yaml:"email" json:"email" validate:"required,simple_email"`
	Phone    string `yaml:"phone,omitempty" json:"phone,omitempty"`
	Website  string `yaml:"website,omitempty" json:"website,omitempty"`
	LinkedIn string `yaml:"linkedin,omitempty" json:"linkedin,omitempty"`
	GitHub   string `yaml:"github,omitempty" json:"github,omitempty"`

	Skills         Skills          `yaml:"skills,omitempty" json:"skills,omitempty"`
	Experiences    []Experience    `yaml:"experiences" json:"experiences" validate:"min=1,dive"`
	Education      []Education     `yaml:"education,omitempty" json:"education,omitempty"`
	Certifications []Certification `yaml:"certifications,omitempty" json:"certifications,omitempty"`

	Theme string `yaml:"theme,omitempty" json:"theme,omitempty" validate:"omitempty,theme"`
}

// Experience is one position in the work history.
type Experience struct {
	Title    string `yaml:"title" json:"title" validate:"required"`
	Company  string `yaml:"company" json:"company" validate:"required"`
	Location string `yaml:"location,omitempty" json:"location,omitempty"`
	Dates    string `yaml:"dates" json:"dates" validate:"required"`
	Bullets  Lines  `yaml:"bullets" json:"bullets" validate:"min=1"`
}

// Education is one degree or course of study.
type Education struct {
	Degree string `yaml:"degree,omitempty" json:"degree,omitempty"`
	School string `yaml:"school,omitempty" json:"school,omitempty"`
	Year   string `yaml:"year,omitempty" json:"year,omitempty"`
}

// Certification is one professional certificate.
type Certification struct {
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`
	Issuer string `yaml:"issuer,omitempty" json:"issuer,omitempty"`
	Year   string `yaml:"year,omitempty" json:"year,omitempty"`
}

// Lines is an ordered list of text lines. Data files may give it either as
// a list or as a single newline-separated block.
type Lines []string

// SplitLines splits a newline-separated block into lines, dropping blank
// ones and trimming the rest.
func SplitLines(block string) Lines {
	var out Lines
	for _, line := range strings.Split(block, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// UnmarshalYAML accepts a sequence or a block scalar.
func (l *Lines) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = Lines(strings.Split(node.Value, "\n"))
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: expected a list or a text block", node.Line)
	}
}

// UnmarshalJSON accepts an array of strings or one string.
func (l *Lines) UnmarshalJSON(data []byte) error {
	var block string
	if err := json.Unmarshal(data, &block); err == nil {
		*l = Lines(strings.Split(block, "\n"))
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("expected a list or a text block: %w", err)
	}
	*l = items
	return nil
}

// Skills is an ordered list of skill tags. Data files may give it either as
// a list or as one comma-separated string.
type Skills []string

// SplitSkills splits a comma-separated string into trimmed, non-empty tags.
func SplitSkills(s string) Skills {
	var out Skills
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// UnmarshalYAML accepts a sequence or a comma-separated scalar.
func (s *Skills) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = Skills(strings.Split(node.Value, ","))
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*s = items
		return nil
	default:
		return fmt.Errorf("line %d: expected a list or a comma-separated string", node.Line)
	}
}

// UnmarshalJSON accepts an array of strings or one comma-separated string.
func (s *Skills) UnmarshalJSON(data []byte) error {
	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		*s = Skills(strings.Split(joined, ","))
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("expected a list or a comma-separated string: %w", err)
	}
	*s = items
	return nil
}

// HasContent reports whether a record carries anything worth keeping as a
// draft.
func (d Data) HasContent() bool {
	if d.FullName != "" || d.Role != "" || d.Intro != "" || d.Email != "" {
		return true
	}
	for _, e := range d.Experiences {
		if e.Title != "" || e.Company != "" {
			return true
		}
	}
	return false
}
