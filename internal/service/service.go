package service

import (
	"context"
	"mime/multipart"

	"github.com/gigs-work/backend/internal/config"
	"github.com/gigs-work/backend/internal/domain"
	"github.com/gigs-work/backend/internal/repository"
	"github.com/gigs-work/backend/internal/supabase"
	"github.com/gigs-work/backend/internal/verification"
	"github.com/gigs-work/backend/pkg/auth"

	"github.com/google/uuid"
)

type Services struct {
	Auth   Auth
	Jobs   Jobs
	Cities Cities
}

type Deps struct {
	Config       *config.Config
	TokenManager auth.TokenManager
	Repos        *repository.Repositories
	Flow         *verification.Flow
	Sessions     *verification.SessionStore
	Backend      *supabase.Client
}

func NewServices(deps Deps) *Services {
	return &Services{
		Auth: newAuthService(
			deps.Repos.Users,
			deps.Repos.RefreshSession,
			deps.Repos.PhoneVerifications,
			deps.Flow,
			deps.Sessions,
			deps.TokenManager,
			deps.Backend,
			deps.Config.Identity.Provider,
		),
		Jobs: newJobService(
			deps.Repos.Jobs,
			deps.Repos.SavedJobs,
			deps.Repos.Cities,
			deps.Backend.Bucket(deps.Config.Supabase.Bucket),
			deps.Config.Moderation.Enabled,
		),
		Cities: newCityService(deps.Repos.Cities),
	}
}

type Auth interface {
	SendOTP(ctx context.Context, rawPhone string, challengeToken string, userAgent string, userIP string) (*SendOTPResult, error)
	ConfirmOTP(ctx context.Context, verificationID string, code string, userAgent string, userIP string) (*Tokens, error)
	Refresh(ctx context.Context, refreshToken string, userAgent string, userIP string) (*Tokens, error)
	SignOut(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

type Jobs interface {
	GetAll(ctx context.Context, page, limit int, filters *JobFilters) ([]domain.Job, int64, error)
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	Create(ctx context.Context, userID uuid.UUID, input CreateJobInput) (*domain.Job, error)
	UploadLogo(ctx context.Context, userID uuid.UUID, jobID string, file *multipart.FileHeader) (string, error)
	ToggleSaved(ctx context.Context, userID uuid.UUID, jobID string) (bool, error)
	GetSaved(ctx context.Context, userID uuid.UUID) ([]domain.Job, error)
}

type Cities interface {
	GetAll(ctx context.Context) ([]domain.City, error)
}
