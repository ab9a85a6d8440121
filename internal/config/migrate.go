package config

import (
	"encoding/json"
	"fmt"
)

// migration upgrades a raw config document one version step.
type migration struct {
	from  int
	apply func(doc map[string]any) error
}

// The chain runs in order from the document's version to
// CurrentVersion. Each step rewrites the document in place.
var chain = []migration{
	{from: 0, apply: migrateV0toV1},
	{from: 1, apply: migrateV1toV2},
}

// MigrateRaw upgrades the raw JSON bytes of a config file to the
// current schema version. Documents newer than this build understands
// are rejected rather than guessed at.
func MigrateRaw(data []byte) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	version := 0
	if v, ok := doc["version"].(float64); ok {
		version = int(v)
	}
	if version > CurrentVersion {
		return nil, fmt.Errorf("config version %d is newer than supported version %d", version, CurrentVersion)
	}

	for _, m := range chain {
		if version != m.from {
			continue
		}
		if err := m.apply(doc); err != nil {
			return nil, fmt.Errorf("migrating config v%d: %w", m.from, err)
		}
		version = m.from + 1
		doc["version"] = version
	}

	return json.Marshal(doc)
}

// migrateV0toV1 lifts the legacy flat layout into the capture block.
// v0 files predate versioning entirely: capture settings sat at the
// top level and there was no terminal-program list.
func migrateV0toV1(doc map[string]any) error {
	capture := map[string]any{
		"enabled": true,
	}
	if v, ok := doc["max_output_bytes"]; ok {
		capture["max_output_bytes"] = v
		delete(doc, "max_output_bytes")
	}
	if v, ok := doc["pty_commands"]; ok {
		capture["pty_commands"] = v
		delete(doc, "pty_commands")
	}
	doc["capture"] = capture
	return nil
}

// migrateV1toV2 renames pty_commands to terminal_programs and adds the
// escalation and geometry knobs with their conservative defaults.
func migrateV1toV2(doc map[string]any) error {
	capture, ok := doc["capture"].(map[string]any)
	if !ok {
		capture = map[string]any{"enabled": true}
		doc["capture"] = capture
	}
	if v, ok := capture["pty_commands"]; ok {
		capture["terminal_programs"] = v
		delete(capture, "pty_commands")
	}
	if _, ok := capture["escalation_timeout_ms"]; !ok {
		capture["escalation_timeout_ms"] = 3000
	}
	if _, ok := capture["pty_cols"]; !ok {
		capture["pty_cols"] = 80
	}
	if _, ok := capture["pty_rows"]; !ok {
		capture["pty_rows"] = 24
	}
	return nil
}
