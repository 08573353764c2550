package domain

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobOpen   JobStatus = "open"
	JobClosed JobStatus = "closed"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobOpen, JobClosed:
		return true
	}
	return false
}

// Job - объявление о подработке. Хранится в hosted-бэкенде,
// json-теги совпадают с именами колонок таблицы jobs.
type Job struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Pay          string    `json:"pay"`
	Description  string    `json:"description"`
	ContactEmail string    `json:"contact_email"`
	LogoURL      *string   `json:"logo_url"`  // nullable
	Status       JobStatus `json:"status"`
	PostedBy     *string   `json:"posted_by"` // nullable, local user id
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (j *Job) IsOpen() bool {
	return j.Status == JobOpen
}

type SavedJob struct {
	ID        uuid.UUID  `db:"id"`
	UserID    uuid.UUID  `db:"user_id"`
	JobID     string     `db:"job_id"` // id строки в hosted-бэкенде
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"` // nullable
}

func (s *SavedJob) IsDeleted() bool {
	return s.DeletedAt != nil
}
