package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gigs-work/backend/internal/config"
	"github.com/gigs-work/backend/internal/domain"
	"github.com/gigs-work/backend/internal/supabase"
)

func newJobRepoForTest(t *testing.T, status int, body string) (*jobRepository, *url.Values) {
	t.Helper()

	var captured url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		w.Header().Set("Content-Range", "0-0/1")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	backend := supabase.New(config.SupabaseConfig{
		URL:     srv.URL,
		APIKey:  "k",
		Timeout: 5 * time.Second,
	})

	return newJobRepository(backend, "jobs"), &captured
}

func strPtr(s string) *string { return &s }

func TestJobRepositoryFilters(t *testing.T) {
	repo, captured := newJobRepoForTest(t, http.StatusOK, `[]`)

	_, _, err := repo.GetAll(context.Background(), 20, 40, &JobFilters{
		Status:   strPtr("open"),
		Search:   strPtr(" курьер "),
		Location: strPtr("Москва"),
		SortBy:   "updated_at",
		Order:    "asc",
	})
	require.NoError(t, err)

	require.Equal(t, "eq.open", captured.Get("status"))
	require.Equal(t, "ilike.*Москва*", captured.Get("location"))
	require.Equal(t, "(title.ilike.*курьер*,company.ilike.*курьер*)", captured.Get("or"))
	require.Equal(t, "updated_at.asc", captured.Get("order"))
	require.Equal(t, "20", captured.Get("limit"))
	require.Equal(t, "40", captured.Get("offset"))
}

func TestJobRepositoryFiltersDefaults(t *testing.T) {
	repo, captured := newJobRepoForTest(t, http.StatusOK, `[]`)

	// мусорный sort_by и отсутствующий order сводятся к created_at.desc
	_, _, err := repo.GetAll(context.Background(), 10, 0, &JobFilters{SortBy: "pay"})
	require.NoError(t, err)
	require.Equal(t, "created_at.desc", captured.Get("order"))

	_, _, err = repo.GetAll(context.Background(), 10, 0, nil)
	require.NoError(t, err)
	require.Equal(t, "created_at.desc", captured.Get("order"))
}

func TestJobRepositoryIDsFilter(t *testing.T) {
	repo, captured := newJobRepoForTest(t, http.StatusOK, `[]`)

	_, _, err := repo.GetAll(context.Background(), 10, 0, &JobFilters{IDs: []string{"a", "b", "c"}})
	require.NoError(t, err)
	require.Equal(t, "in.(a,b,c)", captured.Get("id"))
}

func TestJobRepositoryGetAllCount(t *testing.T) {
	repo, _ := newJobRepoForTest(t, http.StatusOK, `[{"id":"a","status":"open"}]`)

	jobs, total, err := repo.GetAll(context.Background(), 10, 0, nil)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, jobs, 1)
	require.Equal(t, "a", jobs[0].ID)
}

func TestJobRepositoryGetByIDNotFound(t *testing.T) {
	repo, captured := newJobRepoForTest(t, http.StatusOK, `[]`)

	_, err := repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Equal(t, "eq.missing", captured.Get("id"))
}

func TestJobRepositoryCreate(t *testing.T) {
	repo, _ := newJobRepoForTest(t, http.StatusCreated, `[{"id":"new-id","title":"Курьер","status":"open"}]`)

	created, err := repo.Create(context.Background(), &domain.Job{
		Title:  "Курьер",
		Status: domain.JobOpen,
	})
	require.NoError(t, err)
	require.Equal(t, "new-id", created.ID)
}

func TestJobRepositoryCreateEmptyRepresentation(t *testing.T) {
	repo, _ := newJobRepoForTest(t, http.StatusCreated, `[]`)

	_, err := repo.Create(context.Background(), &domain.Job{Title: "t"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty representation")
}
