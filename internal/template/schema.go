package template

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
)

// Schema is the on-disk JSON structure of one prompt template.
type Schema struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Command     string           `json:"command"`
	Args        []string         `json:"args,omitempty"`
	Text        string           `json:"text"`
	Variables   []VariableConfig `json:"variables,omitempty"`
}

// VariableConfig declares one {placeholder} the template text may use.
type VariableConfig struct {
	Key         string   `json:"key"`
	Description string   `json:"description,omitempty"`
	Default     string   `json:"default,omitempty"`
	Required    bool     `json:"required"`
	Choices     []string `json:"choices,omitempty"`
}

var nameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// LoadSchema reads and parses a prompt template JSON file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &schema, nil
}

// Validate checks structural invariants of the schema.
func (s *Schema) Validate() error {
	if !nameRe.MatchString(s.Name) {
		return fmt.Errorf("template name %q is invalid", s.Name)
	}
	if s.Command == "" {
		return fmt.Errorf("template %q: command is required", s.Name)
	}
	if s.Text == "" {
		return fmt.Errorf("template %q: text is required", s.Name)
	}
	seen := make(map[string]bool, len(s.Variables))
	for _, v := range s.Variables {
		if v.Key == "" {
			return fmt.Errorf("template %q: variable with empty key", s.Name)
		}
		if seen[v.Key] {
			return fmt.Errorf("template %q: duplicate variable %q", s.Name, v.Key)
		}
		seen[v.Key] = true
		if v.Required && v.Default != "" {
			return fmt.Errorf("template %q: variable %q is required but has a default", s.Name, v.Key)
		}
	}
	return nil
}
