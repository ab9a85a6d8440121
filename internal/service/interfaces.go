package service

import (
	"context"
	"time"

	"github.com/promptcap/promptcap/internal/capture"
	"github.com/promptcap/promptcap/internal/domain"
	"github.com/promptcap/promptcap/internal/template"
)

// RunRequest describes one invocation of a target command, either from
// a stored prompt or ad hoc.
type RunRequest struct {
	PromptName     string // empty for ad-hoc exec runs
	Command        string
	Args           []string
	Prompt         string // fully rendered
	Capture        bool
	OutputPath     string // empty lets the service choose
	MaxOutputBytes int64  // zero uses the configured default
	WorkDir        string
	Timeout        time.Duration // zero means no deadline
}

// RunOutcome pairs the persisted history record with the raw capture
// result it was built from.
type RunOutcome struct {
	Record *domain.RunRecord
	Result *capture.Result
}

type RunService interface {
	Execute(ctx context.Context, req RunRequest) (*RunOutcome, error)
}

type PromptService interface {
	List(ctx context.Context) ([]*template.Schema, []error)
	Get(ctx context.Context, name string) (*template.Schema, error)
	Save(ctx context.Context, schema *template.Schema) error
	Delete(ctx context.Context, name string) error
	Render(ctx context.Context, name string, vars map[string]string) (string, *template.Schema, error)
}

type HistoryService interface {
	ListRecent(ctx context.Context, limit int) ([]*domain.RunRecord, error)
	ListByPrompt(ctx context.Context, promptName string, limit int) ([]*domain.RunRecord, error)
	Get(ctx context.Context, id string) (*domain.RunRecord, error)
	Search(ctx context.Context, query string, limit int) ([]*domain.RunRecord, error)
	Annotate(ctx context.Context, runID, note string) (*domain.Annotation, error)
	Annotations(ctx context.Context, runID string) ([]*domain.Annotation, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}
