//go:build unix

package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCommandEndToEnd(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "prompt", "add", "greet",
		"--command", "cat",
		"--text", "Hello {name}!")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "run", "greet", "--var", "name=World")
	require.NoError(t, err)
	assert.Contains(t, ansi.Strip(out), "● ok")
	assert.Contains(t, out, "Chunk log:")

	listOut, err := executeCmd(t, app, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, ansi.Strip(listOut), "greet")
}

func TestExecCommandEndToEnd(t *testing.T) {
	app, _ := testApp(t)

	output := filepath.Join(t.TempDir(), "log.json")
	out, err := executeCmd(t, app, "exec",
		"--prompt", "piped text",
		"--output", output,
		"--", "cat")
	require.NoError(t, err)
	assert.Contains(t, ansi.Strip(out), "● ok")
	assert.FileExists(t, output)

	chunks, err := readChunkLog(output)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
}

func TestExecThenHistoryShowReplaysTranscript(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "exec", "--prompt", "replay me", "--", "cat")
	require.NoError(t, err)

	runs, err := app.History.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	out, err := executeCmd(t, app, "history", "show", runs[0].ID)
	require.NoError(t, err)
	out = ansi.Strip(out)
	assert.Contains(t, out, "TRANSCRIPT")
	assert.Contains(t, out, "replay me")
}

func TestExecNoCaptureRecordsWithoutChunkLog(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "exec", "--no-capture", "--", "true")
	require.NoError(t, err)

	runs, err := app.History.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Empty(t, runs[0].OutputFile)
}
