package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gigs-work/backend/internal/queue/task"
	"github.com/gigs-work/backend/internal/worker"

	"github.com/hibiken/asynq"
)

type jobPublishedEmailProcessor struct {
	workers *worker.Workers
}

func NewJobPublishedEmailProcessor(workers *worker.Workers) *jobPublishedEmailProcessor {
	return &jobPublishedEmailProcessor{
		workers: workers,
	}
}

func (p *jobPublishedEmailProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var data task.JobPublishedEmail
	err := json.Unmarshal(t.Payload(), &data)
	if err != nil {
		return fmt.Errorf("process job published email task json unmarshal failed: %w", err)
	}

	if err = p.workers.EmailSender.SendJobPublishedEmail(ctx, data.JobID, data.Email, data.JobTitle); err != nil {
		return fmt.Errorf("send job published email failed: %w", err)
	}

	return nil
}
