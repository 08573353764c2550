package worker

import (
	"context"

	"github.com/gigs-work/backend/internal/config"
	"github.com/gigs-work/backend/internal/moderation"
	"github.com/gigs-work/backend/internal/repository"
	emailProvider "github.com/gigs-work/backend/pkg/email"
)

type Workers struct {
	EmailSender EmailSender
	Moderator   Moderator
}

type Deps struct {
	Config           *config.Config
	EmailProvider    emailProvider.Sender
	ModerationClient *moderation.Client
	Jobs             repository.Jobs
}

type EmailSender interface {
	SendJobPublishedEmail(ctx context.Context, jobID string, email string, jobTitle string) error
}

type Moderator interface {
	ModerateJob(ctx context.Context, jobID string, title string, description string) error
}

func NewWorkers(deps Deps) *Workers {
	return &Workers{
		EmailSender: newEmailSender(deps.EmailProvider, deps.Config.Email, deps.Jobs),
		Moderator:   newModerator(deps.ModerationClient, deps.Jobs),
	}
}
