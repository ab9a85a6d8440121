package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewSchema() *Schema {
	return &Schema{
		Name:    "review",
		Command: "claude",
		Text:    "Review {file} with a focus on {focus}.",
		Variables: []VariableConfig{
			{Key: "file", Required: true},
			{Key: "focus", Default: "correctness", Choices: []string{"correctness", "style", "performance"}},
		},
	}
}

func TestRenderTable(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		want    string
		wantErr string
	}{
		{
			name: "defaults applied",
			vars: map[string]string{"file": "main.go"},
			want: "Review main.go with a focus on correctness.",
		},
		{
			name: "user override wins",
			vars: map[string]string{"file": "main.go", "focus": "style"},
			want: "Review main.go with a focus on style.",
		},
		{
			name:    "missing required",
			vars:    map[string]string{"focus": "style"},
			wantErr: "required variable 'file' not provided",
		},
		{
			name:    "value outside choices",
			vars:    map[string]string{"file": "main.go", "focus": "vibes"},
			wantErr: "not among choices",
		},
		{
			name:    "unknown variable rejected",
			vars:    map[string]string{"file": "main.go", "fiel": "typo.go"},
			wantErr: "unknown variable 'fiel'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(reviewSchema(), tt.vars)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderEscapedBraces(t *testing.T) {
	schema := &Schema{
		Name:    "braces",
		Command: "echo",
		Text:    "literal {{json}} with {value} inside",
		Variables: []VariableConfig{
			{Key: "value", Default: "x"},
		},
	}
	got, err := Render(schema, nil)
	require.NoError(t, err)
	assert.Equal(t, "literal {json} with x inside", got)
}

func TestRenderUndeclaredPlaceholder(t *testing.T) {
	schema := &Schema{Name: "bad", Command: "echo", Text: "hello {who}"}
	_, err := Render(schema, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "placeholder 'who' has no value")
}

func TestRenderUnclosedPlaceholder(t *testing.T) {
	schema := &Schema{Name: "bad", Command: "echo", Text: "hello {who"}
	_, err := Render(schema, nil)
	assert.Error(t, err)
}

func TestRenderUnmatchedCloser(t *testing.T) {
	schema := &Schema{Name: "bad", Command: "echo", Text: "oops } here"}
	_, err := Render(schema, nil)
	assert.Error(t, err)
}

func TestMissingVariables(t *testing.T) {
	schema := &Schema{
		Name:    "m",
		Command: "echo",
		Text:    "{a} {b} {c}",
		Variables: []VariableConfig{
			{Key: "a", Required: true},
			{Key: "b", Default: "x"},
			{Key: "c", Required: true},
		},
	}

	missing := MissingVariables(schema, map[string]string{"a": "given"})
	require.Len(t, missing, 1)
	assert.Equal(t, "c", missing[0].Key)

	assert.Empty(t, MissingVariables(schema, map[string]string{"a": "1", "c": "2"}))
}

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Schema)
		wantErr bool
	}{
		{"valid", func(s *Schema) {}, false},
		{"bad name", func(s *Schema) { s.Name = "../escape" }, true},
		{"empty command", func(s *Schema) { s.Command = "" }, true},
		{"empty text", func(s *Schema) { s.Text = "" }, true},
		{"duplicate variable", func(s *Schema) {
			s.Variables = append(s.Variables, VariableConfig{Key: "file"})
		}, true},
		{"required with default", func(s *Schema) {
			s.Variables[0].Default = "x"
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := reviewSchema()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPlaceholders(t *testing.T) {
	keys, err := Placeholders("review {file} in {mode}, then {file} again")
	require.NoError(t, err)
	assert.Equal(t, []string{"file", "mode"}, keys)

	keys, err = Placeholders("no placeholders, {{literal}} braces")
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, err = Placeholders("broken {key")
	assert.Error(t, err)
}
