package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/promptcap/promptcap/internal/domain"
)

// NewRun returns a populated run record with a clean exit, suitable as
// a baseline fixture. Callers mutate fields as needed.
func NewRun(promptName string, startedAt time.Time) *domain.RunRecord {
	code := 0
	return &domain.RunRecord{
		ID:             uuid.New().String(),
		PromptName:     promptName,
		Command:        "echo",
		Args:           []string{"hello"},
		RenderedPrompt: "rendered prompt text",
		OutputFile:     "/tmp/out.json",
		ExitCode:       &code,
		OutputBytes:    42,
		StartedAt:      startedAt,
		DurationMS:     120,
		CreatedAt:      startedAt,
	}
}

// NewAnnotation returns an annotation fixture for the given run.
func NewAnnotation(runID, note string) *domain.Annotation {
	return &domain.Annotation{
		ID:        uuid.New().String(),
		RunID:     runID,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}
}
