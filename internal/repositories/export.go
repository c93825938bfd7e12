package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/shared"
)

// ExportRepository implements models.Repository[*models.ExportJob] for export history.
type ExportRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.ExportJob] = (*ExportRepository)(nil)

// NewExportRepository creates a new ExportRepository with the given database connection
func NewExportRepository(db *sql.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

const exportColumns = `
	id, kind, target, status, items_total, items_done, items_failed,
	error_message, started_at, completed_at, created_at, updated_at, deleted_at
`

// Create inserts a job with a generated ID and sequence
func (r *ExportRepository) Create(job *models.ExportJob) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "export_jobs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO export_jobs (
			id, sequence, kind, target, status, items_total, items_done,
			items_failed, error_message, started_at, completed_at, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		job.Kind(),
		job.Target(),
		job.Status(),
		job.ItemsTotal(),
		job.ItemsDone(),
		job.ItemsFailed(),
		nullString(job.ErrorMessage()),
		job.StartedAt(),
		job.CompletedAt(),
		job.CreatedAt(),
		job.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert export job: %w", err)
	}

	job.SetID(id)
	return nil
}

// Get retrieves a job by ID, excluding soft-deleted jobs
func (r *ExportRepository) Get(id string) (*models.ExportJob, error) {
	query := `SELECT ` + exportColumns + ` FROM export_jobs WHERE id = ? AND deleted_at IS NULL`

	job, err := scanExportJob(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: export job %s", shared.ErrNotFound, id)
	}
	return job, err
}

// Update writes the job's progress and outcome
func (r *ExportRepository) Update(job *models.ExportJob) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	job.SetUpdatedAt(now)

	query := `
		UPDATE export_jobs
		SET status = ?, items_total = ?, items_done = ?, items_failed = ?,
			error_message = ?, started_at = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		job.Status(),
		job.ItemsTotal(),
		job.ItemsDone(),
		job.ItemsFailed(),
		nullString(job.ErrorMessage()),
		job.StartedAt(),
		job.CompletedAt(),
		now,
		job.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update export job: %w", err)
	}

	return expectOneRow(result, job.ID())
}

// Delete soft-deletes a job by ID
func (r *ExportRepository) Delete(id string) error {
	result, err := r.db.Exec(
		`UPDATE export_jobs SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete export job: %w", err)
	}

	return expectOneRow(result, id)
}

// List retrieves jobs newest first, optionally filtered by "kind", "status" and capped by "limit"
func (r *ExportRepository) List(criteria map[string]any) ([]*models.ExportJob, error) {
	query := `SELECT ` + exportColumns + ` FROM export_jobs WHERE deleted_at IS NULL`
	args := []any{}

	if kind, ok := criteria["kind"].(string); ok && kind != "" {
		query += " AND kind = ?"
		args = append(args, kind)
	}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query export jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.ExportJob
	for rows.Next() {
		job, err := scanExportJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return jobs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanExportJob scans a [sql.Row] or [sql.Rows] into a [models.ExportJob]
func scanExportJob(s scanner) (*models.ExportJob, error) {
	var (
		id           string
		kind         string
		target       string
		status       string
		itemsTotal   int
		itemsDone    int
		itemsFailed  int
		errorMessage sql.NullString
		startedAt    sql.NullTime
		completedAt  sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := s.Scan(
		&id, &kind, &target, &status, &itemsTotal, &itemsDone, &itemsFailed,
		&errorMessage, &startedAt, &completedAt, &createdAt, &updatedAt, &deletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan export job: %w", err)
	}

	job := models.NewExportJob(kind, target)
	job.SetID(id)
	job.SetStatus(status)
	job.SetItemsTotal(itemsTotal)
	job.SetItemsDone(itemsDone)
	job.SetItemsFailed(itemsFailed)
	job.SetCreatedAt(createdAt)
	job.SetUpdatedAt(updatedAt)
	if errorMessage.Valid {
		job.SetErrorMessage(errorMessage.String)
	}
	if startedAt.Valid {
		job.SetStartedAt(&startedAt.Time)
	}
	if completedAt.Valid {
		job.SetCompletedAt(&completedAt.Time)
	}
	if deletedAt.Valid {
		job.SetDeletedAt(&deletedAt.Time)
	}

	return job, nil
}

func expectOneRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: export job %s", shared.ErrNotFound, id)
	}
	return nil
}
