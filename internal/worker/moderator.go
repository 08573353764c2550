package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gigs-work/backend/internal/domain"
	"github.com/gigs-work/backend/internal/moderation"
	"github.com/gigs-work/backend/internal/repository"
	"github.com/gigs-work/backend/pkg/logger"
)

func newModerator(client *moderation.Client, jobs repository.Jobs) Moderator {
	return &moderator{
		client: client,
		jobs:   jobs,
	}
}

type moderator struct {
	client *moderation.Client
	jobs   repository.Jobs
}

// ModerateJob прогоняет объявление через внешний сервис модерации.
// Отклонённое объявление закрывается в hosted-бэкенде.
func (m *moderator) ModerateJob(ctx context.Context, jobID string, title string, description string) error {
	resp, err := m.client.Check(ctx, moderation.CheckRequest{
		JobID:       jobID,
		Title:       title,
		Description: description,
	})
	if err != nil {
		return fmt.Errorf("moderation check failed: %w", err)
	}

	if resp.Verdict != moderation.VerdictRejected {
		return nil
	}

	logger.Info("job rejected by moderation",
		zap.String("job_id", jobID),
		zap.String("reason", resp.Reason),
	)

	if err := m.jobs.UpdateStatus(ctx, jobID, domain.JobClosed); err != nil {
		return fmt.Errorf("close rejected job failed: %w", err)
	}

	return nil
}
