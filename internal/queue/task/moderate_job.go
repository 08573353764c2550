package task

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	ModerateJobTaskName  = "moderateJobTask"
	ModerateJobQueueName = "moderateJobQueue"
)

type ModerateJob struct {
	JobID       string `json:"job_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NewModerateJobTask создает задачу на модерацию опубликованного объявления
func NewModerateJobTask(jobID string, title string, description string) (*asynq.Task, error) {
	data := ModerateJob{
		JobID:       jobID,
		Title:       title,
		Description: description,
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("json data marshal failed: %w", err)
	}

	return asynq.NewTask(
		ModerateJobTaskName,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(ModerateJobQueueName),
	), nil
}
