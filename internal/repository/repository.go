package repository

import (
	"context"

	"github.com/gigs-work/backend/internal/domain"
	"github.com/gigs-work/backend/internal/supabase"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Users              Users
	RefreshSession     RefreshSession
	PhoneVerifications PhoneVerifications
	SavedJobs          SavedJobs
	Cities             Cities
	Jobs               Jobs
}

func NewRepositories(db *sqlx.DB, backend *supabase.Client, jobsTable string) *Repositories {
	return &Repositories{
		Users:              newUserRepository(db),
		RefreshSession:     newRefreshSessionRepository(db),
		PhoneVerifications: newPhoneVerificationRepository(db),
		SavedJobs:          newSavedJobRepository(db),
		Cities:             newCityRepository(db),
		Jobs:               newJobRepository(backend, jobsTable),
	}
}

type Users interface {
	Create(ctx context.Context, user *domain.User) error
	GetByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.User, error)
	GetOneByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, displayName string, email string, cityID *uuid.UUID) error
}

type RefreshSession interface {
	Create(ctx context.Context, session *domain.RefreshSession) error
	GetByToken(ctx context.Context, refreshToken uuid.UUID) (*domain.RefreshSession, error)
	DeleteByToken(ctx context.Context, refreshToken uuid.UUID) error
}

type PhoneVerifications interface {
	Create(ctx context.Context, verification *domain.PhoneVerification) error
	GetByVerificationID(ctx context.Context, verificationID string) (*domain.PhoneVerification, error)
	UpdateConfirmed(ctx context.Context, verification *domain.PhoneVerification) error
	IncrementAttempts(ctx context.Context, verificationID string) error
}

type SavedJobs interface {
	GetByUserIDAndJobID(ctx context.Context, userID uuid.UUID, jobID string) (*domain.SavedJob, error)
	Create(ctx context.Context, savedJob *domain.SavedJob) error
	Update(ctx context.Context, savedJob *domain.SavedJob) error
	ListJobIDs(ctx context.Context, userID uuid.UUID) ([]string, error)
}

type Cities interface {
	GetOneByID(ctx context.Context, id uuid.UUID) (*domain.City, error)
	GetAll(ctx context.Context) ([]domain.City, error)
}

type Jobs interface {
	GetAll(ctx context.Context, limit, offset int, filters *JobFilters) ([]domain.Job, int64, error)
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	Create(ctx context.Context, job *domain.Job) (*domain.Job, error)
	UpdateStatus(ctx context.Context, id string, status domain.JobStatus) error
	UpdateLogoURL(ctx context.Context, id string, logoURL string) error
}
