package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/promptcap/promptcap/internal/cli/formatter"
	"github.com/promptcap/promptcap/internal/template"
)

// promptcapHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func promptcapHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// variableField builds one huh field for a template variable: a select
// when the variable declares choices, a free-text input otherwise.
func variableField(v template.VariableConfig, value *string) huh.Field {
	title := v.Key
	if v.Description != "" {
		title = fmt.Sprintf("%s — %s", v.Key, v.Description)
	}

	if len(v.Choices) > 0 {
		options := make([]huh.Option[string], 0, len(v.Choices))
		for _, c := range v.Choices {
			options = append(options, huh.NewOption(c, c))
		}
		return huh.NewSelect[string]().
			Title(title).
			Options(options...).
			Value(value)
	}

	input := huh.NewInput().
		Title(title).
		Placeholder(v.Default).
		Value(value)
	if v.Required {
		input = input.Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", v.Key)
			}
			return nil
		})
	}
	return input
}

// variableForm returns a themed form collecting values for the given
// variables. The values map is populated in place as fields complete.
func variableForm(vars []template.VariableConfig, values map[string]*string) *huh.Form {
	fields := make([]huh.Field, 0, len(vars))
	for _, v := range vars {
		val, ok := values[v.Key]
		if !ok {
			val = new(string)
			values[v.Key] = val
		}
		fields = append(fields, variableField(v, val))
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithTheme(promptcapHuhTheme()).WithShowHelp(false)
}
