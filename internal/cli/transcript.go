package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/promptcap/promptcap/internal/capture"
	"github.com/promptcap/promptcap/internal/cli/formatter"
)

// transcriptOptions controls how a chunk log is replayed.
type transcriptOptions struct {
	// Raw keeps ANSI escape sequences; the default strips them so the
	// replay does not repaint the viewer's terminal.
	Raw bool
	// ShowInput interleaves injected input chunks, marked with a
	// direction prefix, instead of replaying output only.
	ShowInput bool
}

// readChunkLog loads and parses one capture chunk log file.
func readChunkLog(path string) ([]capture.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chunk log: %w", err)
	}
	var chunks []capture.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("parsing chunk log %s: %w", path, err)
	}
	return chunks, nil
}

// renderTranscript replays a chunk log in recorded order.
func renderTranscript(chunks []capture.Chunk, opts transcriptOptions) string {
	var b strings.Builder
	for _, c := range chunks {
		data := c.Data
		if !opts.Raw {
			data = ansi.Strip(data)
		}

		if c.Direction == capture.DirectionInput {
			if !opts.ShowInput {
				continue
			}
			stamp := c.Timestamp.Format("15:04:05.000")
			b.WriteString(formatter.StyleBlue.Render(fmt.Sprintf("[%s >>] ", stamp)))
			b.WriteString(data)
			if !strings.HasSuffix(data, "\n") {
				b.WriteString("\n")
			}
			continue
		}

		b.WriteString(data)
	}
	return b.String()
}
