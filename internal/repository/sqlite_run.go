package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/promptcap/promptcap/internal/domain"
)

// SQLiteRunRepo implements RunRepo using a SQLite database.
type SQLiteRunRepo struct {
	db *sql.DB
}

// NewSQLiteRunRepo creates a new SQLiteRunRepo.
func NewSQLiteRunRepo(db *sql.DB) *SQLiteRunRepo {
	return &SQLiteRunRepo{db: db}
}

const runColumns = `id, prompt_name, command, args, rendered_prompt, output_file,
	exit_code, truncated, output_bytes, error, started_at, duration_ms, created_at`

func (r *SQLiteRunRepo) Create(ctx context.Context, run *domain.RunRecord) error {
	args, err := json.Marshal(run.Args)
	if err != nil {
		return fmt.Errorf("encoding run args: %w", err)
	}

	var exitCode sql.NullInt64
	if run.ExitCode != nil {
		exitCode = sql.NullInt64{Int64: int64(*run.ExitCode), Valid: true}
	}

	query := `INSERT INTO runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		run.ID,
		run.PromptName,
		run.Command,
		string(args),
		run.RenderedPrompt,
		run.OutputFile,
		exitCode,
		boolToInt(run.Truncated),
		run.OutputBytes,
		run.Error,
		run.StartedAt.Format(time.RFC3339),
		run.DurationMS,
		run.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

func (r *SQLiteRunRepo) GetByID(ctx context.Context, id string) (*domain.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanRun(row)
}

func (r *SQLiteRunRepo) ListRecent(ctx context.Context, limit int) ([]*domain.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent runs: %w", err)
	}
	defer rows.Close()
	return r.scanRuns(rows)
}

func (r *SQLiteRunRepo) ListByPrompt(ctx context.Context, promptName string, limit int) ([]*domain.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE prompt_name = ? ORDER BY started_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, promptName, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs by prompt: %w", err)
	}
	defer rows.Close()
	return r.scanRuns(rows)
}

func (r *SQLiteRunRepo) Search(ctx context.Context, query string, limit int) ([]*domain.RunRecord, error) {
	pattern := "%" + query + "%"
	stmt := `SELECT ` + runColumns + ` FROM runs
		WHERE prompt_name LIKE ? OR command LIKE ? OR rendered_prompt LIKE ?
		ORDER BY started_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, stmt, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("searching runs: %w", err)
	}
	defer rows.Close()
	return r.scanRuns(rows)
}

func (r *SQLiteRunRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM runs WHERE started_at < ?`, cutoff.Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned runs: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRunRepo) scanRun(row rowScanner) (*domain.RunRecord, error) {
	var run domain.RunRecord
	var args string
	var exitCode sql.NullInt64
	var truncated int
	var startedAt, createdAt string

	err := row.Scan(
		&run.ID,
		&run.PromptName,
		&run.Command,
		&args,
		&run.RenderedPrompt,
		&run.OutputFile,
		&exitCode,
		&truncated,
		&run.OutputBytes,
		&run.Error,
		&startedAt,
		&run.DurationMS,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	if err := json.Unmarshal([]byte(args), &run.Args); err != nil {
		return nil, fmt.Errorf("decoding run args: %w", err)
	}
	if exitCode.Valid {
		code := int(exitCode.Int64)
		run.ExitCode = &code
	}
	run.Truncated = truncated != 0
	if run.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &run, nil
}

func (r *SQLiteRunRepo) scanRuns(rows *sql.Rows) ([]*domain.RunRecord, error) {
	var runs []*domain.RunRecord
	for rows.Next() {
		run, err := r.scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
