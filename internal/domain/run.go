package domain

import "time"

// RunRecord is one captured invocation as persisted in history.
type RunRecord struct {
	ID             string
	PromptName     string // empty for ad-hoc exec runs
	Command        string
	Args           []string
	RenderedPrompt string
	OutputFile     string
	ExitCode       *int // nil when the process died to a signal
	Truncated      bool
	OutputBytes    int64
	Error          string
	StartedAt      time.Time
	DurationMS     int64
	CreatedAt      time.Time
}

// Succeeded reports whether the run exited normally with code zero.
func (r *RunRecord) Succeeded() bool {
	return r.Error == "" && r.ExitCode != nil && *r.ExitCode == 0
}

// Annotation is a free-form note attached to a run after the fact.
type Annotation struct {
	ID        string
	RunID     string
	Note      string
	CreatedAt time.Time
}
