package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/promptcap/promptcap/internal/domain"
)

// SQLiteAnnotationRepo implements AnnotationRepo using a SQLite database.
type SQLiteAnnotationRepo struct {
	db *sql.DB
}

// NewSQLiteAnnotationRepo creates a new SQLiteAnnotationRepo.
func NewSQLiteAnnotationRepo(db *sql.DB) *SQLiteAnnotationRepo {
	return &SQLiteAnnotationRepo{db: db}
}

func (r *SQLiteAnnotationRepo) Create(ctx context.Context, a *domain.Annotation) error {
	query := `INSERT INTO annotations (id, run_id, note, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.RunID,
		a.Note,
		a.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting annotation: %w", err)
	}
	return nil
}

func (r *SQLiteAnnotationRepo) ListByRun(ctx context.Context, runID string) ([]*domain.Annotation, error) {
	query := `SELECT id, run_id, note, created_at FROM annotations
		WHERE run_id = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("listing annotations: %w", err)
	}
	defer rows.Close()

	var annotations []*domain.Annotation
	for rows.Next() {
		var a domain.Annotation
		var createdAt string
		if err := rows.Scan(&a.ID, &a.RunID, &a.Note, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning annotation: %w", err)
		}
		if a.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		annotations = append(annotations, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating annotations: %w", err)
	}
	return annotations, nil
}

func (r *SQLiteAnnotationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM annotations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting annotation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting annotation: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("annotation: %w", ErrNotFound)
	}
	return nil
}
