package template

import (
	"fmt"
	"strings"
)

// Render expands a schema's text with the resolved variable values.
// Placeholders use single braces ({key}); doubled braces ({{ and }})
// produce literal braces.
func Render(schema *Schema, userVars map[string]string) (string, error) {
	vars, err := resolveVariables(schema.Variables, userVars)
	if err != nil {
		return "", fmt.Errorf("resolving variables: %w", err)
	}
	return expand(schema.Text, vars)
}

// MissingVariables returns the keys of required variables not supplied
// by userVars, in declaration order. The CLI uses this to decide what
// to ask for interactively.
func MissingVariables(schema *Schema, userVars map[string]string) []VariableConfig {
	var missing []VariableConfig
	for _, v := range schema.Variables {
		if !v.Required {
			continue
		}
		if _, ok := userVars[v.Key]; !ok {
			missing = append(missing, v)
		}
	}
	return missing
}

// Placeholders returns the distinct placeholder keys referenced by the
// text, in first-appearance order. Escaped braces are skipped; malformed
// brace sequences are reported the same way Render would.
func Placeholders(text string) ([]string, error) {
	var keys []string
	seen := make(map[string]bool)
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				i++
				continue
			}
			end := strings.IndexByte(text[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unclosed placeholder at offset %d", i)
			}
			key := text[i+1 : i+end]
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
			i += end
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				i++
				continue
			}
			return nil, fmt.Errorf("unmatched '}' at offset %d", i)
		}
	}
	return keys, nil
}

// resolveVariables builds the final variable map: defaults first, then
// user overrides, with required and choice validation.
func resolveVariables(defs []VariableConfig, userVars map[string]string) (map[string]string, error) {
	vars := make(map[string]string, len(defs))

	for _, v := range defs {
		if v.Default != "" {
			vars[v.Key] = v.Default
		}

		if userVars != nil {
			if val, ok := userVars[v.Key]; ok {
				if len(v.Choices) > 0 && !contains(v.Choices, val) {
					return nil, fmt.Errorf("variable '%s': value %q not among choices %v", v.Key, val, v.Choices)
				}
				vars[v.Key] = val
			}
		}

		if v.Required {
			if _, ok := vars[v.Key]; !ok {
				return nil, fmt.Errorf("required variable '%s' not provided", v.Key)
			}
		}
	}

	// Reject values for variables the template never declared, which
	// almost always indicates a typo on the command line.
	for key := range userVars {
		if !declared(defs, key) {
			return nil, fmt.Errorf("unknown variable '%s'", key)
		}
	}

	return vars, nil
}

// expand substitutes {key} placeholders. An undeclared placeholder in
// the text is an error rather than silently passing through.
func expand(text string, vars map[string]string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(text[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("unclosed placeholder at offset %d", i)
			}
			key := text[i+1 : i+end]
			val, ok := vars[key]
			if !ok {
				return "", fmt.Errorf("placeholder '%s' has no value", key)
			}
			b.WriteString(val)
			i += end
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("unmatched '}' at offset %d", i)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}

func declared(defs []VariableConfig, key string) bool {
	for _, v := range defs {
		if v.Key == key {
			return true
		}
	}
	return false
}
