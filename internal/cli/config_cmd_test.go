package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptcap/promptcap/internal/config"
)

func TestConfigShow(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `"version": 2`)
	assert.Contains(t, out, app.ConfigPath)
}

func TestConfigMigrateWritesDefaults(t *testing.T) {
	app, _ := testApp(t)
	app.ConfigPath = filepath.Join(t.TempDir(), "config.json")

	out, err := executeCmd(t, app, "config", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "default configuration")
	assert.FileExists(t, app.ConfigPath)
}

func TestConfigMigrateUpgradesLegacyFile(t *testing.T) {
	app, _ := testApp(t)
	app.ConfigPath = filepath.Join(t.TempDir(), "config.json")

	// v0 legacy flat file: no version field, capture keys at top level.
	legacy := `{"max_output_bytes": 5242880, "pty_commands": ["claude"]}`
	require.NoError(t, os.WriteFile(app.ConfigPath, []byte(legacy), 0644))

	out, err := executeCmd(t, app, "config", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "version 2")

	data, err := os.ReadFile(app.ConfigPath)
	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, json.Unmarshal(data, &cfg))
	assert.Equal(t, config.CurrentVersion, cfg.Version)
	assert.Equal(t, int64(5242880), cfg.Capture.MaxOutputBytes)
	assert.Equal(t, []string{"claude"}, cfg.Capture.TerminalPrograms)
}
