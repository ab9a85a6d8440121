package capture

import "time"

// Direction discriminates whether a chunk records bytes written to the
// child process or bytes the child wrote back.
type Direction string

const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// TruncationMarker is appended as the final output chunk when the size
// cap is reached. Consumers key on this exact string.
const TruncationMarker = "[OUTPUT TRUNCATED - SIZE LIMIT REACHED]"

// Request describes one capture invocation. It is never mutated after
// construction.
type Request struct {
	// Command is the executable to run, resolved via PATH if relative.
	Command string
	// Args are passed to the command in order.
	Args []string
	// Prompt is injected into the child once it is ready. A blank
	// (empty or whitespace-only) prompt is not injected at all.
	Prompt string
	// OutputPath is where the chunk log is persisted as a JSON array.
	// The parent directory must already exist.
	OutputPath string
	// MaxOutputBytes caps the total output recorded. Must be positive.
	MaxOutputBytes int64
	// WorkDir overrides the child's working directory when non-empty.
	WorkDir string
}

// Chunk is one timestamped, directioned unit of recorded text. Chunks
// are appended in observation order and never mutated afterwards.
type Chunk struct {
	Timestamp time.Time `json:"timestamp"`
	Direction Direction `json:"direction"`
	Data      string    `json:"data"`
}

// Result is the terminal value produced for a request. Every failure
// mode degrades to a well-formed Result; the engine never panics across
// its API.
type Result struct {
	// ExitCode is nil only if the process was ended by a signal before
	// exiting normally (including our own kill escalation).
	ExitCode *int `json:"exitCode"`
	// Truncated reports whether the output cap was reached.
	Truncated bool `json:"truncated"`
	// OutputSize is the number of output bytes recorded, excluding the
	// truncation marker. Never exceeds the request's MaxOutputBytes.
	OutputSize int64 `json:"outputSize"`
	// OutputFile is the chunk log path, valid JSON by the time the
	// result is delivered.
	OutputFile string `json:"outputFile"`
	// Error carries spawn or write failures. Truncation is not an
	// error and does not set this field.
	Error string `json:"error,omitempty"`
}
