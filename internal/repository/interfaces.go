package repository

import (
	"context"
	"errors"
	"time"

	"github.com/promptcap/promptcap/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// RunRepo persists capture run records.
type RunRepo interface {
	Create(ctx context.Context, r *domain.RunRecord) error
	GetByID(ctx context.Context, id string) (*domain.RunRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.RunRecord, error)
	ListByPrompt(ctx context.Context, promptName string, limit int) ([]*domain.RunRecord, error)
	Search(ctx context.Context, query string, limit int) ([]*domain.RunRecord, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AnnotationRepo persists notes attached to runs.
type AnnotationRepo interface {
	Create(ctx context.Context, a *domain.Annotation) error
	ListByRun(ctx context.Context, runID string) ([]*domain.Annotation, error)
	Delete(ctx context.Context, id string) error
}
