package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptcap/promptcap/internal/template"
)

func TestPromptAddAutoDeclaresVariables(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app,
		"prompt", "add", "review",
		"--command", "claude",
		"--arg", "-p",
		"--text", "Review {file} with {focus} in mind, then {file} again.",
	)
	require.NoError(t, err)

	out, err := executeCmd(t, app, "prompt", "show", "review")
	require.NoError(t, err)
	assert.Contains(t, out, "review")
	assert.Contains(t, out, "claude")
	assert.Contains(t, out, "file")
	assert.Contains(t, out, "focus")
}

func TestPromptAddFromFile(t *testing.T) {
	app, _ := testApp(t)

	path := filepath.Join(t.TempDir(), "body.txt")
	require.NoError(t, os.WriteFile(path, []byte("Summarize {topic}."), 0644))

	_, err := executeCmd(t, app,
		"prompt", "add", "summarize",
		"--command", "aider",
		"--file", path,
	)
	require.NoError(t, err)

	schema, err := app.Prompts.Get(context.Background(), "summarize")
	require.NoError(t, err)
	assert.Equal(t, "Summarize {topic}.", schema.Text)
	require.Len(t, schema.Variables, 1)
	assert.Equal(t, "topic", schema.Variables[0].Key)
	assert.True(t, schema.Variables[0].Required)
}

func TestPromptAddRejectsTextAndFile(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app,
		"prompt", "add", "x",
		"--command", "sh",
		"--text", "a",
		"--file", "b",
	)
	assert.Error(t, err)
}

func TestPromptList(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "prompt", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No prompts found.")

	_, err = executeCmd(t, app, "prompt", "add", "one", "--command", "sh", "--text", "hi")
	require.NoError(t, err)

	out, err = executeCmd(t, app, "prompt", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "sh")
}

func TestPromptEditDefaultsMakeVariableOptional(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app,
		"prompt", "add", "review",
		"--command", "claude",
		"--text", "Review {file}.",
	)
	require.NoError(t, err)

	_, err = executeCmd(t, app,
		"prompt", "edit", "review",
		"--default", "file=main.go",
		"--description", "code review helper",
	)
	require.NoError(t, err)

	schema, err := app.Prompts.Get(context.Background(), "review")
	require.NoError(t, err)
	assert.Equal(t, "code review helper", schema.Description)
	require.Len(t, schema.Variables, 1)
	assert.Equal(t, "main.go", schema.Variables[0].Default)
	assert.False(t, schema.Variables[0].Required)
}

func TestPromptEditUnknownVariable(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "prompt", "add", "p", "--command", "sh", "--text", "hi")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "prompt", "edit", "p", "--default", "nope=x")
	assert.Error(t, err)
}

func TestPromptDeleteForce(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "prompt", "add", "gone", "--command", "sh", "--text", "hi")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "prompt", "delete", "gone", "--force")
	require.NoError(t, err)

	_, err = app.Prompts.Get(context.Background(), "gone")
	assert.Error(t, err)
}

func TestAutoDeclareVariablesKeepsExisting(t *testing.T) {
	schema := &template.Schema{
		Name:    "p",
		Command: "sh",
		Text:    "{a} and {b}",
		Variables: []template.VariableConfig{
			{Key: "a", Default: "x"},
		},
	}
	require.NoError(t, autoDeclareVariables(schema))

	require.Len(t, schema.Variables, 2)
	assert.Equal(t, "a", schema.Variables[0].Key)
	assert.False(t, schema.Variables[0].Required)
	assert.Equal(t, "b", schema.Variables[1].Key)
	assert.True(t, schema.Variables[1].Required)
}
