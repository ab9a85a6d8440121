package formatter

import (
	"fmt"
	"strings"

	"github.com/promptcap/promptcap/internal/template"
)

// FormatPromptList renders the prompt library as an aligned table.
func FormatPromptList(schemas []*template.Schema) string {
	headers := []string{"Name", "Command", "Variables", "Description"}
	rows := make([][]string, 0, len(schemas))
	for _, s := range schemas {
		rows = append(rows, []string{
			s.Name,
			s.Command,
			fmt.Sprintf("%d", len(s.Variables)),
			Truncate(s.Description, 50),
		})
	}
	return RenderTable(headers, rows)
}

// FormatPromptDetails renders one prompt template as a detail block.
func FormatPromptDetails(s *template.Schema) string {
	var b strings.Builder

	fmt.Fprintln(&b, Header("Prompt"))
	fmt.Fprintf(&b, "  Name:        %s\n", Bold(s.Name))
	if s.Description != "" {
		fmt.Fprintf(&b, "  Description: %s\n", s.Description)
	}
	fmt.Fprintf(&b, "  Command:     %s", s.Command)
	if len(s.Args) > 0 {
		fmt.Fprintf(&b, " %s", strings.Join(s.Args, " "))
	}
	fmt.Fprintln(&b)

	if len(s.Variables) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, Header("Variables"))
		headers := []string{"Key", "Required", "Default", "Choices", "Description"}
		rows := make([][]string, 0, len(s.Variables))
		for _, v := range s.Variables {
			required := Dim("no")
			if v.Required {
				required = StyleYellow.Render("yes")
			}
			rows = append(rows, []string{
				v.Key,
				required,
				v.Default,
				strings.Join(v.Choices, ", "),
				Truncate(v.Description, 40),
			})
		}
		b.WriteString(FormatIndented(RenderTable(headers, rows), "  "))
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, Header("Text"))
	fmt.Fprintln(&b, s.Text)

	return b.String()
}

// FormatIndented prefixes every non-empty line of s with the given indent.
func FormatIndented(s, indent string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}
