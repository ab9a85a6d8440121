package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/promptcap/promptcap/internal/domain"
	"github.com/promptcap/promptcap/internal/repository"
)

// HistoryServiceImpl reads and maintains the run history.
type HistoryServiceImpl struct {
	runs        repository.RunRepo
	annotations repository.AnnotationRepo
}

// NewHistoryService creates a HistoryServiceImpl over the repos.
func NewHistoryService(runs repository.RunRepo, annotations repository.AnnotationRepo) *HistoryServiceImpl {
	return &HistoryServiceImpl{runs: runs, annotations: annotations}
}

func (s *HistoryServiceImpl) ListRecent(ctx context.Context, limit int) ([]*domain.RunRecord, error) {
	return s.runs.ListRecent(ctx, normalizeLimit(limit))
}

func (s *HistoryServiceImpl) ListByPrompt(ctx context.Context, promptName string, limit int) ([]*domain.RunRecord, error) {
	return s.runs.ListByPrompt(ctx, promptName, normalizeLimit(limit))
}

func (s *HistoryServiceImpl) Get(ctx context.Context, id string) (*domain.RunRecord, error) {
	return s.runs.GetByID(ctx, id)
}

func (s *HistoryServiceImpl) Search(ctx context.Context, query string, limit int) ([]*domain.RunRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.runs.ListRecent(ctx, normalizeLimit(limit))
	}
	return s.runs.Search(ctx, query, normalizeLimit(limit))
}

func (s *HistoryServiceImpl) Annotate(ctx context.Context, runID, note string) (*domain.Annotation, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, fmt.Errorf("annotation note is empty")
	}
	// Fail early with a clear message instead of a foreign-key error.
	if _, err := s.runs.GetByID(ctx, runID); err != nil {
		return nil, err
	}
	a := &domain.Annotation{
		ID:        uuid.New().String(),
		RunID:     runID,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.annotations.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *HistoryServiceImpl) Annotations(ctx context.Context, runID string) ([]*domain.Annotation, error) {
	return s.annotations.ListByRun(ctx, runID)
}

func (s *HistoryServiceImpl) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("prune window must be positive")
	}
	cutoff := time.Now().UTC().Add(-olderThan)
	return s.runs.DeleteOlderThan(ctx, cutoff)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	return limit
}
