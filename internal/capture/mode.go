package capture

import "path/filepath"

// Mode is how the child process is spawned and how the prompt reaches
// it. It is derived once per request and never changes mid-session.
type Mode string

const (
	// ModePtyDirect allocates a pseudoterminal and writes the prompt
	// straight into it once the child is ready.
	ModePtyDirect Mode = "pty-direct"

	// ModePtyStaged is the legacy path: a pseudoterminal plus indirect
	// prompt delivery through a temp file sourced by a shell command.
	// Current policy never selects it; it survives for compatibility
	// testing only.
	ModePtyStaged Mode = "pty-staged"

	// ModePipeDirect spawns without a terminal and writes the prompt to
	// the child's stdin pipe, then closes it.
	ModePipeDirect Mode = "pipe-direct"
)

// DefaultTerminalPrograms are the known CLIs that refuse to run without
// a real terminal on stdin (they need raw-mode keyboard access).
func DefaultTerminalPrograms() []string {
	return []string{"claude", "aider", "codex"}
}

// Selector decides the execution mode for a command. It is a pure
// function of (command, isTTY) and the injected command table.
type Selector struct {
	required map[string]Mode
}

// NewSelector builds a Selector from the list of programs that always
// require a pseudoterminal, regardless of the caller's own terminal
// state.
func NewSelector(terminalPrograms []string) *Selector {
	required := make(map[string]Mode, len(terminalPrograms))
	for _, name := range terminalPrograms {
		required[name] = ModePtyDirect
	}
	return &Selector{required: required}
}

// Select resolves the execution mode. Programs in the table get a PTY
// even when the engine itself runs non-interactively (CI, pipes),
// because the target needs the terminal, not us. Everything else gets a
// PTY only when the caller is on a terminal, for color and behavior
// parity with a real shell.
func (s *Selector) Select(command string, isTTY bool) Mode {
	if mode, ok := s.required[filepath.Base(command)]; ok {
		return mode
	}
	if isTTY {
		return ModePtyDirect
	}
	return ModePipeDirect
}
