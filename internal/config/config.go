// Package config loads the promptcap configuration file: a small
// versioned JSON document with an explicit migration chain, plus
// environment-variable overrides on top.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CurrentVersion is the schema version this build reads and writes.
const CurrentVersion = 2

// Config is the fully resolved configuration.
type Config struct {
	Version int           `json:"version"`
	Capture CaptureConfig `json:"capture"`
	// HistoryDB is the SQLite history database path.
	HistoryDB string `json:"history_db"`
	// PromptsDir is the prompt template library directory.
	PromptsDir string `json:"prompts_dir"`
}

// CaptureConfig tunes the process-capture engine.
type CaptureConfig struct {
	// Enabled is the default for whether runs are captured at all.
	Enabled bool `json:"enabled"`
	// MaxOutputBytes caps recorded output per capture.
	MaxOutputBytes int64 `json:"max_output_bytes"`
	// EscalationTimeoutMS is the SIGTERM-to-SIGKILL grace window.
	EscalationTimeoutMS int `json:"escalation_timeout_ms"`
	// PtyCols and PtyRows set the pseudoterminal geometry.
	PtyCols uint16 `json:"pty_cols"`
	PtyRows uint16 `json:"pty_rows"`
	// TerminalPrograms always get a pseudoterminal, even when promptcap
	// itself runs without one.
	TerminalPrograms []string `json:"terminal_programs"`
}

// Default returns the built-in configuration. Paths are rooted under
// the user's home directory.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".promptcap")
	return &Config{
		Version: CurrentVersion,
		Capture: CaptureConfig{
			Enabled:             true,
			MaxOutputBytes:      10 * 1024 * 1024,
			EscalationTimeoutMS: 3000,
			PtyCols:             80,
			PtyRows:             24,
			TerminalPrograms:    []string{"claude", "aider", "codex"},
		},
		HistoryDB:  filepath.Join(base, "history.db"),
		PromptsDir: filepath.Join(base, "prompts"),
	}
}

// DefaultPath returns the config file location, honoring the
// PROMPTCAP_CONFIG override.
func DefaultPath() string {
	if p := os.Getenv("PROMPTCAP_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".promptcap", "config.json")
}

// Load reads the config file at path, migrates it to the current
// version in memory, and applies environment overrides. A missing file
// yields defaults; the file on disk is never rewritten here (see Save).
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	raw, err := MigrateRaw(data)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Version = CurrentVersion

	applyEnv(cfg)
	return cfg, nil
}

// Save writes the config at the current version.
func Save(cfg *Config, path string) error {
	cfg.Version = CurrentVersion
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// applyEnv lets environment variables override file values, falling
// back to whatever is already set for anything unset or malformed.
func applyEnv(cfg *Config) {
	if v := os.Getenv("PROMPTCAP_DB"); v != "" {
		cfg.HistoryDB = v
	}
	if v := os.Getenv("PROMPTCAP_PROMPTS"); v != "" {
		cfg.PromptsDir = v
	}
	if v := os.Getenv("PROMPTCAP_MAX_OUTPUT"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.Capture.MaxOutputBytes = n
		}
	}
	if v := os.Getenv("PROMPTCAP_TTY_PROGRAMS"); v != "" {
		var programs []string
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				programs = append(programs, name)
			}
		}
		cfg.Capture.TerminalPrograms = programs
	}
}
