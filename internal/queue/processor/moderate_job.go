package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gigs-work/backend/internal/queue/task"
	"github.com/gigs-work/backend/internal/worker"

	"github.com/hibiken/asynq"
)

type moderateJobProcessor struct {
	workers *worker.Workers
}

func NewModerateJobProcessor(workers *worker.Workers) *moderateJobProcessor {
	return &moderateJobProcessor{
		workers: workers,
	}
}

func (p *moderateJobProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var data task.ModerateJob
	err := json.Unmarshal(t.Payload(), &data)
	if err != nil {
		return fmt.Errorf("process moderate job task json unmarshal failed: %w", err)
	}

	if err = p.workers.Moderator.ModerateJob(ctx, data.JobID, data.Title, data.Description); err != nil {
		return fmt.Errorf("moderate job failed: %w", err)
	}

	return nil
}
