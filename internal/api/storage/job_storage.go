package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/shared/postgresql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const jobColumns = `id, title, description, company, location, created_at, updated_at`

// JobStorage persists job postings in PostgreSQL
type JobStorage struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewJobStorage creates a new job storage instance
func NewJobStorage(pg *postgresql.Client) *JobStorage {
	return &JobStorage{
		db:  pg.GetDB(),
		now: time.Now,
	}
}

// CreateJob validates job, assigns its ID and timestamps, and inserts it
func (s *JobStorage) CreateJob(ctx context.Context, job *domain.Job) error {
	if err := job.Validate(); err != nil {
		return err
	}

	now := s.now().UTC()
	job.ID = uuid.New().String()
	job.CreatedAt = now
	job.UpdatedAt = now

	query := `
		INSERT INTO jobs (
			id, title, description, company, location, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		job.ID,
		job.Title,
		job.Description,
		job.Company,
		job.Location,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// ListJobs returns jobs newest first. A nil page returns every job; otherwise
// up to page.Size+1 rows are returned so the caller can tell whether more exist.
func (s *JobStorage) ListJobs(ctx context.Context, page *domain.JobPage) ([]domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs`
	args := []interface{}{}

	if page != nil && page.Cursor != nil {
		query += ` WHERE (created_at, id) < ($1, $2)`
		args = append(args, page.Cursor.CreatedAt, page.Cursor.ID)
	}

	query += ` ORDER BY created_at DESC, id DESC`

	if page != nil {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, page.Size+1)
	}

	jobs := []domain.Job{}
	if err := s.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, nil
}

// GetJob returns the job with the given ID or domain.ErrJobNotFound
func (s *JobStorage) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	var job domain.Job
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	if err := s.db.GetContext(ctx, &job, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

// UpdateJob replaces the fields present in patch and returns the stored job
func (s *JobStorage) UpdateJob(ctx context.Context, id string, patch *domain.JobPatch) (*domain.Job, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	query := `
		UPDATE jobs
		SET title       = COALESCE($2, title),
		    description = COALESCE($3, description),
		    company     = COALESCE($4, company),
		    location    = COALESCE($5, location),
		    updated_at  = $6
		WHERE id = $1
		RETURNING ` + jobColumns

	var job domain.Job
	err := s.db.GetContext(
		ctx,
		&job,
		query,
		id,
		patch.Title,
		patch.Description,
		patch.Company,
		patch.Location,
		s.now().UTC(),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	return &job, nil
}

// DeleteJob removes the job. Deleting an unknown ID is not an error.
func (s *JobStorage) DeleteJob(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return nil
}
