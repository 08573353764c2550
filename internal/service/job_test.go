package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gigs-work/backend/internal/domain"
	"github.com/gigs-work/backend/internal/repository"
)

type stubJobRepo struct {
	byID map[string]*domain.Job

	lastLimit   int
	lastOffset  int
	lastFilters *repository.JobFilters
}

func newStubJobRepo() *stubJobRepo {
	return &stubJobRepo{byID: map[string]*domain.Job{}}
}

func (r *stubJobRepo) GetAll(_ context.Context, limit, offset int, filters *repository.JobFilters) ([]domain.Job, int64, error) {
	r.lastLimit = limit
	r.lastOffset = offset
	r.lastFilters = filters

	jobs := make([]domain.Job, 0, len(r.byID))
	for _, job := range r.byID {
		jobs = append(jobs, *job)
	}
	return jobs, int64(len(jobs)), nil
}

func (r *stubJobRepo) GetByID(_ context.Context, id string) (*domain.Job, error) {
	job, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

func (r *stubJobRepo) Create(_ context.Context, job *domain.Job) (*domain.Job, error) {
	created := *job
	created.ID = uuid.NewString()
	r.byID[created.ID] = &created
	return &created, nil
}

func (r *stubJobRepo) UpdateStatus(_ context.Context, id string, status domain.JobStatus) error {
	job, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	job.Status = status
	return nil
}

func (r *stubJobRepo) UpdateLogoURL(_ context.Context, id string, logoURL string) error {
	job, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	job.LogoURL = &logoURL
	return nil
}

type stubSavedJobRepo struct {
	rows map[string]*domain.SavedJob // key: userID + "/" + jobID
}

func newStubSavedJobRepo() *stubSavedJobRepo {
	return &stubSavedJobRepo{rows: map[string]*domain.SavedJob{}}
}

func savedKey(userID uuid.UUID, jobID string) string {
	return userID.String() + "/" + jobID
}

func (r *stubSavedJobRepo) GetByUserIDAndJobID(_ context.Context, userID uuid.UUID, jobID string) (*domain.SavedJob, error) {
	row, ok := r.rows[savedKey(userID, jobID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return row, nil
}

func (r *stubSavedJobRepo) Create(_ context.Context, savedJob *domain.SavedJob) error {
	r.rows[savedKey(savedJob.UserID, savedJob.JobID)] = savedJob
	return nil
}

func (r *stubSavedJobRepo) Update(_ context.Context, savedJob *domain.SavedJob) error {
	r.rows[savedKey(savedJob.UserID, savedJob.JobID)] = savedJob
	return nil
}

func (r *stubSavedJobRepo) ListJobIDs(_ context.Context, userID uuid.UUID) ([]string, error) {
	var ids []string
	for _, row := range r.rows {
		if row.UserID == userID && !row.IsDeleted() {
			ids = append(ids, row.JobID)
		}
	}
	return ids, nil
}

type stubCityRepo struct {
	byID map[uuid.UUID]*domain.City
}

func newStubCityRepo() *stubCityRepo {
	return &stubCityRepo{byID: map[uuid.UUID]*domain.City{}}
}

func (r *stubCityRepo) GetOneByID(_ context.Context, id uuid.UUID) (*domain.City, error) {
	city, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return city, nil
}

func (r *stubCityRepo) GetAll(_ context.Context) ([]domain.City, error) {
	cities := make([]domain.City, 0, len(r.byID))
	for _, city := range r.byID {
		cities = append(cities, *city)
	}
	return cities, nil
}

type jobFixture struct {
	service *jobService
	jobs    *stubJobRepo
	saved   *stubSavedJobRepo
	cities  *stubCityRepo
}

func newJobFixture(t *testing.T) *jobFixture {
	t.Helper()

	jobs := newStubJobRepo()
	saved := newStubSavedJobRepo()
	cities := newStubCityRepo()

	return &jobFixture{
		service: newJobService(jobs, saved, cities, nil, false),
		jobs:    jobs,
		saved:   saved,
		cities:  cities,
	}
}

func TestJobsGetAllPagination(t *testing.T) {
	f := newJobFixture(t)

	_, _, err := f.service.GetAll(context.Background(), 3, 20, nil)
	require.NoError(t, err)
	require.Equal(t, 20, f.jobs.lastLimit)
	require.Equal(t, 40, f.jobs.lastOffset)

	// кривые значения сводятся к первой странице с лимитом по умолчанию
	_, _, err = f.service.GetAll(context.Background(), 0, 1000, nil)
	require.NoError(t, err)
	require.Equal(t, 10, f.jobs.lastLimit)
	require.Equal(t, 0, f.jobs.lastOffset)
}

func TestJobsCreate(t *testing.T) {
	f := newJobFixture(t)
	userID := uuid.New()

	created, err := f.service.Create(context.Background(), userID, CreateJobInput{
		Title:        "Курьер",
		Company:      "Быстрая доставка",
		Location:     "Москва",
		ContactEmail: "hr@example.com",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, domain.JobOpen, created.Status)
	require.NotNil(t, created.PostedBy)
	require.Equal(t, userID.String(), *created.PostedBy)
}

func TestJobsCreateUnknownCity(t *testing.T) {
	f := newJobFixture(t)

	cityID := uuid.New()
	_, err := f.service.Create(context.Background(), uuid.New(), CreateJobInput{
		Title:  "Курьер",
		CityID: &cityID,
	})
	require.ErrorIs(t, err, ErrCityNotFound)
	require.Empty(t, f.jobs.byID)
}

func TestJobsToggleSaved(t *testing.T) {
	f := newJobFixture(t)
	userID := uuid.New()

	job, err := f.jobs.Create(context.Background(), &domain.Job{Title: "t", Status: domain.JobOpen})
	require.NoError(t, err)

	saved, err := f.service.ToggleSaved(context.Background(), userID, job.ID)
	require.NoError(t, err)
	require.True(t, saved)

	saved, err = f.service.ToggleSaved(context.Background(), userID, job.ID)
	require.NoError(t, err)
	require.False(t, saved)

	// повторное включение реанимирует прежнюю строку
	saved, err = f.service.ToggleSaved(context.Background(), userID, job.ID)
	require.NoError(t, err)
	require.True(t, saved)
}

func TestJobsToggleSavedUnknownJob(t *testing.T) {
	f := newJobFixture(t)

	_, err := f.service.ToggleSaved(context.Background(), uuid.New(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJobsGetSaved(t *testing.T) {
	f := newJobFixture(t)
	userID := uuid.New()

	job, err := f.jobs.Create(context.Background(), &domain.Job{Title: "t", Status: domain.JobOpen})
	require.NoError(t, err)

	_, err = f.service.ToggleSaved(context.Background(), userID, job.ID)
	require.NoError(t, err)

	jobs, err := f.service.GetSaved(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.NotNil(t, f.jobs.lastFilters)
	require.Equal(t, []string{job.ID}, f.jobs.lastFilters.IDs)

	// пустой список без похода за объявлениями
	jobs, err = f.service.GetSaved(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Empty(t, jobs)
}
