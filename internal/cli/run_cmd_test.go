package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVarFlags(t *testing.T) {
	vars, err := parseVarFlags([]string{"file=main.go", "mode=deep dive"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"file": "main.go", "mode": "deep dive"}, vars)

	vars, err = parseVarFlags(nil)
	require.NoError(t, err)
	assert.Empty(t, vars)

	_, err = parseVarFlags([]string{"novalue"})
	assert.Error(t, err)

	_, err = parseVarFlags([]string{"=x"})
	assert.Error(t, err)
}

func TestRunUnknownPrompt(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "run", "missing")
	assert.Error(t, err)
}

func TestRunMissingVariablesNonInteractive(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "prompt", "add", "review",
		"--command", "true",
		"--text", "Review {file} for {focus}.")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "run", "review", "--var", "file=main.go")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "focus")
	assert.NotContains(t, err.Error(), "file")
}

func TestRunUnknownVariable(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "prompt", "add", "p",
		"--command", "true",
		"--text", "no variables here")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "run", "p", "--var", "typo=x")
	assert.Error(t, err)
}
