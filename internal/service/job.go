package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gigs-work/backend/internal/domain"
	"github.com/gigs-work/backend/internal/queue/client"
	"github.com/gigs-work/backend/internal/queue/task"
	"github.com/gigs-work/backend/internal/repository"
	"github.com/gigs-work/backend/internal/supabase"
	"github.com/gigs-work/backend/pkg/logger"
)

// JobFilters - псевдоним для удобства использования
type JobFilters = repository.JobFilters

type CreateJobInput struct {
	Title        string
	Company      string
	Location     string
	Pay          string
	Description  string
	ContactEmail string
	CityID       *uuid.UUID
}

type jobService struct {
	jobRepository      repository.Jobs
	savedJobRepository repository.SavedJobs
	cityRepository     repository.Cities
	mediaBucket        *supabase.Bucket
	moderationEnabled  bool
}

func newJobService(
	jobRepository repository.Jobs,
	savedJobRepository repository.SavedJobs,
	cityRepository repository.Cities,
	mediaBucket *supabase.Bucket,
	moderationEnabled bool,
) *jobService {
	return &jobService{
		jobRepository:      jobRepository,
		savedJobRepository: savedJobRepository,
		cityRepository:     cityRepository,
		mediaBucket:        mediaBucket,
		moderationEnabled:  moderationEnabled,
	}
}

func (s *jobService) GetAll(ctx context.Context, page, limit int, filters *JobFilters) ([]domain.Job, int64, error) {
	// Валидация параметров пагинации
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	offset := (page - 1) * limit

	return s.jobRepository.GetAll(ctx, limit, offset, filters)
}

func (s *jobService) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	return s.jobRepository.GetByID(ctx, id)
}

// Create публикует объявление в hosted-бэкенде и ставит в очередь
// письмо автору и задачу модерации.
func (s *jobService) Create(ctx context.Context, userID uuid.UUID, input CreateJobInput) (*domain.Job, error) {
	if input.CityID != nil {
		if _, err := s.cityRepository.GetOneByID(ctx, *input.CityID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, ErrCityNotFound
			}
			return nil, fmt.Errorf("get city by id failed: %w", err)
		}
	}

	postedBy := userID.String()
	job := &domain.Job{
		Title:        input.Title,
		Company:      input.Company,
		Location:     input.Location,
		Pay:          input.Pay,
		Description:  input.Description,
		ContactEmail: input.ContactEmail,
		Status:       domain.JobOpen,
		PostedBy:     &postedBy,
	}

	created, err := s.jobRepository.Create(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("create job failed: %w", err)
	}

	s.enqueuePostPublication(ctx, created)

	return created, nil
}

// enqueuePostPublication ставит фоновые задачи после публикации.
// Сбой постановки не валит публикацию, объявление уже создано.
func (s *jobService) enqueuePostPublication(ctx context.Context, job *domain.Job) {
	queueClient := client.GetClient(ctx)
	if queueClient == nil {
		return
	}

	if job.ContactEmail != "" {
		emailTask, err := task.NewJobPublishedEmailTask(job.ID, job.ContactEmail, job.Title)
		if err != nil {
			logger.Error("create job published email task failed", zap.Error(err))
		} else if _, err := queueClient.Enqueue(emailTask); err != nil {
			logger.Error("enqueue job published email task failed", zap.Error(err), zap.String("job_id", job.ID))
		}
	}

	if s.moderationEnabled {
		moderateTask, err := task.NewModerateJobTask(job.ID, job.Title, job.Description)
		if err != nil {
			logger.Error("create moderate job task failed", zap.Error(err))
		} else if _, err := queueClient.Enqueue(moderateTask); err != nil {
			logger.Error("enqueue moderate job task failed", zap.Error(err), zap.String("job_id", job.ID))
		}
	}
}

// UploadLogo кладёт логотип в media bucket и прописывает публичную
// ссылку в объявление. Логотип меняет только автор объявления.
func (s *jobService) UploadLogo(ctx context.Context, userID uuid.UUID, jobID string, file *multipart.FileHeader) (string, error) {
	job, err := s.jobRepository.GetByID(ctx, jobID)
	if err != nil {
		return "", err
	}

	if job.PostedBy == nil || *job.PostedBy != userID.String() {
		return "", domain.ErrForbidden
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded file failed: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("read uploaded file failed: %w", err)
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectPath := jobID + "/logo" + strings.ToLower(filepath.Ext(file.Filename))
	if err := s.mediaBucket.Upload(ctx, objectPath, contentType, data); err != nil {
		return "", fmt.Errorf("upload logo failed: %w", err)
	}

	logoURL := s.mediaBucket.PublicURL(objectPath)
	if err := s.jobRepository.UpdateLogoURL(ctx, jobID, logoURL); err != nil {
		return "", fmt.Errorf("update job logo url failed: %w", err)
	}

	return logoURL, nil
}

// ToggleSaved переключает отметку "сохранено" и возвращает новое
// состояние: true - объявление в сохранённых.
func (s *jobService) ToggleSaved(ctx context.Context, userID uuid.UUID, jobID string) (bool, error) {
	if _, err := s.jobRepository.GetByID(ctx, jobID); err != nil {
		return false, err
	}

	now := time.Now()

	existing, err := s.savedJobRepository.GetByUserIDAndJobID(ctx, userID, jobID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return false, fmt.Errorf("get saved job failed: %w", err)
		}

		id, err := uuid.NewV7()
		if err != nil {
			return false, fmt.Errorf("generate saved job id failed: %w", err)
		}

		savedJob := &domain.SavedJob{
			ID:        id,
			UserID:    userID,
			JobID:     jobID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.savedJobRepository.Create(ctx, savedJob); err != nil {
			return false, err
		}

		return true, nil
	}

	existing.UpdatedAt = now
	if existing.IsDeleted() {
		existing.DeletedAt = nil
	} else {
		existing.DeletedAt = &now
	}

	if err := s.savedJobRepository.Update(ctx, existing); err != nil {
		return false, err
	}

	return !existing.IsDeleted(), nil
}

func (s *jobService) GetSaved(ctx context.Context, userID uuid.UUID) ([]domain.Job, error) {
	jobIDs, err := s.savedJobRepository.ListJobIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved job ids failed: %w", err)
	}

	if len(jobIDs) == 0 {
		return []domain.Job{}, nil
	}

	jobs, _, err := s.jobRepository.GetAll(ctx, len(jobIDs), 0, &JobFilters{IDs: jobIDs})
	if err != nil {
		return nil, fmt.Errorf("fetch saved jobs failed: %w", err)
	}

	return jobs, nil
}
