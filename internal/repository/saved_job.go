package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/gigs-work/backend/internal/domain"
)

type savedJobRepository struct {
	db *sqlx.DB
}

func newSavedJobRepository(db *sqlx.DB) *savedJobRepository {
	return &savedJobRepository{
		db: db,
	}
}

func (r *savedJobRepository) GetByUserIDAndJobID(ctx context.Context, userID uuid.UUID, jobID string) (*domain.SavedJob, error) {
	const query = `
		SELECT id, user_id, job_id, created_at, updated_at, deleted_at FROM saved_job WHERE user_id = uuid_to_bin(?) AND job_id = ?
	`
	var savedJob domain.SavedJob
	err := r.db.GetContext(ctx, &savedJob, query, userID, jobID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &savedJob, nil
}

func (r *savedJobRepository) Create(ctx context.Context, savedJob *domain.SavedJob) error {
	const query = `
		INSERT INTO saved_job (id, user_id, job_id, created_at, updated_at) VALUES (uuid_to_bin(?), uuid_to_bin(?), ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, savedJob.ID, savedJob.UserID, savedJob.JobID, savedJob.CreatedAt, savedJob.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db create saved job: %w", err)
	}
	return nil
}

func (r *savedJobRepository) Update(ctx context.Context, savedJob *domain.SavedJob) error {
	const query = `
		UPDATE saved_job SET deleted_at = ?, updated_at = ? WHERE id = uuid_to_bin(?)
	`
	_, err := r.db.ExecContext(ctx, query, savedJob.DeletedAt, savedJob.UpdatedAt, savedJob.ID)
	if err != nil {
		return fmt.Errorf("db update saved job: %w", err)
	}
	return nil
}

func (r *savedJobRepository) ListJobIDs(ctx context.Context, userID uuid.UUID) ([]string, error) {
	const query = `
		SELECT job_id FROM saved_job WHERE user_id = uuid_to_bin(?) AND deleted_at IS NULL ORDER BY created_at DESC
	`
	var jobIDs []string
	if err := r.db.SelectContext(ctx, &jobIDs, query, userID); err != nil {
		return nil, fmt.Errorf("db select saved job ids: %w", err)
	}
	return jobIDs, nil
}
