package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/gigs-work/backend/internal/domain"
	"github.com/gigs-work/backend/internal/supabase"
)

type JobFilters struct {
	Status   *string
	Search   *string // частичный поиск по title и company
	Location *string
	PostedBy *string
	IDs      []string // явный набор id, используется для сохранённых
	SortBy   string   // "created_at", "updated_at"
	Order    string   // "asc", "desc"
}

// jobRepository читает и пишет объявления напрямую в hosted-бэкенд,
// собственной таблицы в MySQL у объявлений нет.
type jobRepository struct {
	backend *supabase.Client
	table   string
}

func newJobRepository(backend *supabase.Client, table string) *jobRepository {
	return &jobRepository{
		backend: backend,
		table:   table,
	}
}

func (r *jobRepository) applyFilters(query *supabase.Query, filters *JobFilters) *supabase.Query {
	if filters == nil {
		return query.Order("created_at", false)
	}

	if filters.Status != nil {
		query = query.Eq("status", *filters.Status)
	}

	if filters.Location != nil {
		query = query.Ilike("location", "*"+*filters.Location+"*")
	}

	if filters.PostedBy != nil {
		query = query.Eq("posted_by", *filters.PostedBy)
	}

	if len(filters.IDs) > 0 {
		query = query.In("id", filters.IDs)
	}

	if filters.Search != nil && *filters.Search != "" {
		pattern := "*" + strings.TrimSpace(*filters.Search) + "*"
		query = query.Or(fmt.Sprintf("title.ilike.%s,company.ilike.%s", pattern, pattern))
	}

	sortBy := filters.SortBy
	switch sortBy {
	case "created_at", "updated_at":
	default:
		sortBy = "created_at"
	}

	return query.Order(sortBy, filters.Order == "asc")
}

func (r *jobRepository) GetAll(ctx context.Context, limit, offset int, filters *JobFilters) ([]domain.Job, int64, error) {
	query := r.applyFilters(r.backend.From(r.table), filters).
		Limit(limit).
		Offset(offset)

	jobs := make([]domain.Job, 0, limit)
	total, err := query.GetWithCount(ctx, &jobs)
	if err != nil {
		return nil, 0, fmt.Errorf("backend select jobs: %w", err)
	}

	return jobs, total, nil
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	var jobs []domain.Job
	err := r.backend.From(r.table).Eq("id", id).Limit(1).Get(ctx, &jobs)
	if err != nil {
		return nil, fmt.Errorf("backend select job by id: %w", err)
	}

	if len(jobs) == 0 {
		return nil, domain.ErrNotFound
	}

	return &jobs[0], nil
}

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	row := map[string]interface{}{
		"title":         job.Title,
		"company":       job.Company,
		"location":      job.Location,
		"pay":           job.Pay,
		"description":   job.Description,
		"contact_email": job.ContactEmail,
		"status":        job.Status,
	}
	if job.PostedBy != nil {
		row["posted_by"] = *job.PostedBy
	}

	var inserted []domain.Job
	if err := r.backend.From(r.table).Insert(ctx, row, &inserted); err != nil {
		return nil, fmt.Errorf("backend insert job: %w", err)
	}

	if len(inserted) == 0 {
		return nil, fmt.Errorf("backend insert job: empty representation")
	}

	return &inserted[0], nil
}

func (r *jobRepository) UpdateStatus(ctx context.Context, id string, status domain.JobStatus) error {
	patch := map[string]interface{}{"status": status}

	if err := r.backend.From(r.table).Eq("id", id).Update(ctx, patch); err != nil {
		return fmt.Errorf("backend update job status: %w", err)
	}

	return nil
}

func (r *jobRepository) UpdateLogoURL(ctx context.Context, id string, logoURL string) error {
	patch := map[string]interface{}{"logo_url": logoURL}

	if err := r.backend.From(r.table).Eq("id", id).Update(ctx, patch); err != nil {
		return fmt.Errorf("backend update job logo: %w", err)
	}

	return nil
}
