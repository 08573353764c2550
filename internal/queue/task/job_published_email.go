package task

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	JobPublishedEmailTaskName  = "jobPublishedEmailTask"
	JobPublishedEmailQueueName = "jobPublishedEmailQueue"
)

type JobPublishedEmail struct {
	JobID    string `json:"job_id"`
	Email    string `json:"email"`
	JobTitle string `json:"job_title"`
}

// NewJobPublishedEmailTask создает задачу на письмо автору о публикации
func NewJobPublishedEmailTask(jobID string, email string, jobTitle string) (*asynq.Task, error) {
	data := JobPublishedEmail{
		JobID:    jobID,
		Email:    email,
		JobTitle: jobTitle,
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("json data marshal failed: %w", err)
	}

	return asynq.NewTask(
		JobPublishedEmailTaskName,
		payload,
		asynq.MaxRetry(5),
		asynq.Queue(JobPublishedEmailQueueName),
	), nil
}
