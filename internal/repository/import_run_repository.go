package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jengzang/filmday-backend-go/internal/models"
)

// ImportRunRepository handles database operations for import runs
type ImportRunRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewImportRunRepository creates a new import run repository
func NewImportRunRepository(db *sql.DB) *ImportRunRepository {
	return &ImportRunRepository{db: db, now: time.Now}
}

const importRunColumns = `id, status, data_version, basics_read, ratings_read, films_written,
	skipped, start_time, COALESCE(end_time, 0), COALESCE(error_message, ''), created_at`

// Create records a running import for version
func (r *ImportRunRepository) Create(ctx context.Context, version time.Time) (*models.ImportRun, error) {
	run := &models.ImportRun{
		Status:      models.ImportStatusRunning,
		DataVersion: version.Format(time.DateOnly),
		StartTime:   r.now().Unix(),
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO import_runs (status, data_version, start_time) VALUES (?, ?, ?)",
		run.Status, run.DataVersion, run.StartTime)
	if err != nil {
		return nil, fmt.Errorf("failed to create import run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	run.ID = id
	return run, nil
}

// GetByID retrieves an import run by ID
func (r *ImportRunRepository) GetByID(ctx context.Context, id int64) (*models.ImportRun, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+importRunColumns+" FROM import_runs WHERE id = ?", id)
	run, err := scanImportRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get import run: %w", err)
	}
	return run, nil
}

// List returns the most recent import runs first
func (r *ImportRunRepository) List(ctx context.Context, limit int) ([]models.ImportRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+importRunColumns+" FROM import_runs ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import runs: %w", err)
	}
	defer rows.Close()

	runs := []models.ImportRun{}
	for rows.Next() {
		run, err := scanImportRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// MarkAsCompleted stores the final counters of a run
func (r *ImportRunRepository) MarkAsCompleted(ctx context.Context, id int64, stats *models.ImportStats) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE import_runs
		SET status = ?, end_time = ?, basics_read = ?, ratings_read = ?,
			films_written = ?, skipped = ?
		WHERE id = ?
	`, models.ImportStatusCompleted, r.now().Unix(),
		stats.BasicsRead, stats.RatingsRead, stats.FilmsWritten, stats.Skipped, id)
	if err != nil {
		return fmt.Errorf("failed to mark import run as completed: %w", err)
	}
	return nil
}

// MarkAsFailed marks a run as failed with an error message
func (r *ImportRunRepository) MarkAsFailed(ctx context.Context, id int64, errorMessage string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE import_runs SET status = ?, end_time = ?, error_message = ? WHERE id = ?",
		models.ImportStatusFailed, r.now().Unix(), errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to mark import run as failed: %w", err)
	}
	return nil
}

func scanImportRun(row rowScanner) (*models.ImportRun, error) {
	run := &models.ImportRun{}
	err := row.Scan(
		&run.ID,
		&run.Status,
		&run.DataVersion,
		&run.BasicsRead,
		&run.RatingsRead,
		&run.FilmsWritten,
		&run.Skipped,
		&run.StartTime,
		&run.EndTime,
		&run.ErrorMessage,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return run, nil
}
