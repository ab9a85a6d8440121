package capture

import (
	"fmt"
	"os"
	"strings"
)

// processWriter is the slice of the session an injection strategy
// needs: pushing bytes to the child and closing its input.
type processWriter interface {
	Write(data string) error
	CloseInput() error
}

// InjectionStrategy delivers the prompt to a freshly spawned session
// exactly once. Implementations decide the channel and the shape of the
// delivery; the controller records whatever was actually written as the
// session's single input chunk.
//
// A strategy never retries a failed write. The failure surfaces as the
// terminal result's error.
type InjectionStrategy interface {
	// Inject writes the prompt. Returns the bytes written to the child
	// (for recording) which may differ from the prompt itself (staged
	// delivery writes a shell command instead). A blank prompt is not
	// delivered: the target stays in its normal interactive state.
	Inject(w processWriter, prompt string) (written string, err error)

	// Cleanup releases anything the strategy staged on disk. Called
	// after the session exits.
	Cleanup() error
}

// injectorFor picks the strategy matching the execution mode.
func injectorFor(mode Mode) InjectionStrategy {
	switch mode {
	case ModePipeDirect:
		return &pipeInjector{}
	case ModePtyStaged:
		return &stagedInjector{}
	default:
		return &directInjector{}
	}
}

// directInjector performs one atomic bulk write into the PTY right
// after spawn. Never character-by-character (multi-second latency for
// long prompts) and never via a temp file: paste-detection heuristics
// key on post-startup bulk input, so a single write at startup time
// passes through untouched.
type directInjector struct{}

func (d *directInjector) Inject(w processWriter, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", nil
	}
	payload := prompt
	if !strings.HasSuffix(payload, "\n") {
		payload += "\n"
	}
	if err := w.Write(payload); err != nil {
		return "", err
	}
	return payload, nil
}

func (d *directInjector) Cleanup() error { return nil }

// pipeInjector writes the prompt to the child's stdin pipe and then
// closes it, so read-to-EOF filters terminate naturally. The close
// happens even for a blank prompt.
type pipeInjector struct{}

func (p *pipeInjector) Inject(w processWriter, prompt string) (string, error) {
	written := ""
	if strings.TrimSpace(prompt) != "" {
		written = prompt
		if !strings.HasSuffix(written, "\n") {
			written += "\n"
		}
		if err := w.Write(written); err != nil {
			return "", err
		}
	}
	if err := w.CloseInput(); err != nil {
		return written, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return written, nil
}

func (p *pipeInjector) Cleanup() error { return nil }

// stagedInjector is the legacy delivery path: the prompt goes into a
// temp file and the PTY receives a short shell command that cats the
// file, dodging paste detection at the cost of a visible temp file and
// extra latency. Superseded by directInjector's startup-time write;
// kept behind the same interface for compatibility testing.
type stagedInjector struct {
	stagedPath string
}

func (g *stagedInjector) Inject(w processWriter, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", nil
	}
	f, err := os.CreateTemp("", "promptcap-staged-*.txt")
	if err != nil {
		return "", fmt.Errorf("%w: staging prompt: %v", ErrWrite, err)
	}
	g.stagedPath = f.Name()
	if _, err := f.WriteString(prompt); err != nil {
		f.Close()
		return "", fmt.Errorf("%w: staging prompt: %v", ErrWrite, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: staging prompt: %v", ErrWrite, err)
	}
	command := fmt.Sprintf("cat %q\n", g.stagedPath)
	if err := w.Write(command); err != nil {
		return "", err
	}
	return command, nil
}

func (g *stagedInjector) Cleanup() error {
	if g.stagedPath == "" {
		return nil
	}
	err := os.Remove(g.stagedPath)
	g.stagedPath = ""
	return err
}
