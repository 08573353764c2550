package v1

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gigs-work/backend/internal/domain"
	"github.com/gigs-work/backend/internal/service"
	"github.com/gigs-work/backend/pkg/logger"
)

const maxLogoSizeBytes = 5 << 20

func (h *Handler) initJobsRoutes(api *gin.RouterGroup) {
	jobs := api.Group("/jobs")
	{
		jobs.GET("", h.optionalUserIdentityMiddleware, h.getJobsList)
		jobs.GET("/:id", h.getJobByID)
		jobs.POST("", h.userIdentityMiddleware, h.createJob)
		jobs.POST("/:id/logo", h.userIdentityMiddleware, h.uploadJobLogo)
		jobs.POST("/:id/save", h.userIdentityMiddleware, h.toggleSavedJob)
	}
}

type jobResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Company      string  `json:"company"`
	Location     string  `json:"location"`
	Pay          string  `json:"pay"`
	Description  string  `json:"description"`
	ContactEmail string  `json:"contact_email"`
	LogoURL      *string `json:"logo_url,omitempty"`
	Status       string  `json:"status"`
	PostedBy     *string `json:"posted_by,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type jobsListResponse struct {
	Jobs  []jobResponse `json:"jobs"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func toJobResponse(job domain.Job) jobResponse {
	return jobResponse{
		ID:           job.ID,
		Title:        job.Title,
		Company:      job.Company,
		Location:     job.Location,
		Pay:          job.Pay,
		Description:  job.Description,
		ContactEmail: job.ContactEmail,
		LogoURL:      job.LogoURL,
		Status:       string(job.Status),
		PostedBy:     job.PostedBy,
		CreatedAt:    job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    job.UpdatedAt.Format(time.RFC3339),
	}
}

// @Summary Get Jobs List
// @Tags Jobs
// @Description Список объявлений с пагинацией, фильтрами и поиском по названию/компании
// @ModuleID getJobsList
// @Accept  json
// @Produce  json
// @Param page query int false "Номер страницы (по умолчанию 1)"
// @Param limit query int false "Количество элементов на странице (по умолчанию 10, максимум 100)"
// @Param status query string false "Фильтр по статусу (open, closed)"
// @Param search query string false "Поисковый запрос по названию и компании"
// @Param location query string false "Фильтр по городу (частичное совпадение)"
// @Param sort_by query string false "Поле для сортировки (created_at, updated_at) - по умолчанию created_at"
// @Param order query string false "Направление сортировки (asc, desc) - по умолчанию desc"
// @Param saved query boolean false "Показать только сохранённые объявления (работает только при авторизации)"
// @Success 200 {object} jobsListResponse
// @Failure 500 {object} ErrorStruct
// @Router /jobs [get]
func (h *Handler) getJobsList(c *gin.Context) {
	page := 1
	limit := 10

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	// Список сохранённых - отдельная ветка: набор id живёт локально
	if c.Query("saved") == "true" {
		if userID, err := h.getUserUUID(c); err == nil {
			h.getSavedJobsList(c, userID, page, limit)
			return
		}
		logger.Info("saved filter requested but user not authenticated")
	}

	filters := &service.JobFilters{}

	if status := c.Query("status"); status != "" {
		if domain.JobStatus(status).Valid() {
			filters.Status = &status
		}
	}

	if search := c.Query("search"); search != "" {
		filters.Search = &search
	}

	if location := c.Query("location"); location != "" {
		filters.Location = &location
	}

	sortBy := c.Query("sort_by")
	switch sortBy {
	case "created_at", "updated_at":
		filters.SortBy = sortBy
	default:
		filters.SortBy = "created_at"
	}

	order := strings.ToLower(c.Query("order"))
	switch order {
	case "asc", "desc":
		filters.Order = order
	default:
		filters.Order = "desc"
	}

	jobs, total, err := h.services.Jobs.GetAll(c.Request.Context(), page, limit, filters)
	if err != nil {
		logger.Error("failed to get jobs list", zap.Error(err))
		errorResponseWithStatus(c, http.StatusInternalServerError, UnknownErrorCode)
		return
	}

	response := jobsListResponse{
		Jobs:  make([]jobResponse, 0, len(jobs)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for _, job := range jobs {
		response.Jobs = append(response.Jobs, toJobResponse(job))
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) getSavedJobsList(c *gin.Context, userID uuid.UUID, page, limit int) {
	jobs, err := h.services.Jobs.GetSaved(c.Request.Context(), userID)
	if err != nil {
		logger.Error("failed to get saved jobs", zap.Error(err), zap.String("user_id", userID.String()))
		errorResponseWithStatus(c, http.StatusInternalServerError, UnknownErrorCode)
		return
	}

	response := jobsListResponse{
		Jobs:  make([]jobResponse, 0, len(jobs)),
		Total: int64(len(jobs)),
		Page:  page,
		Limit: limit,
	}
	for _, job := range jobs {
		response.Jobs = append(response.Jobs, toJobResponse(job))
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Get Job By ID
// @Tags Jobs
// @Description Получить объявление по ID
// @ModuleID getJobByID
// @Accept  json
// @Produce  json
// @Param id path string true "Job ID"
// @Success 200 {object} jobResponse
// @Failure 404 {object} ErrorStruct
// @Failure 500 {object} ErrorStruct
// @Router /jobs/{id} [get]
func (h *Handler) getJobByID(c *gin.Context) {
	id := c.Param("id")

	job, err := h.services.Jobs.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			errorResponseWithStatus(c, http.StatusNotFound, JobNotFoundCode)
			return
		}
		logger.Error("failed to get job by id", zap.Error(err), zap.String("id", id))
		errorResponseWithStatus(c, http.StatusInternalServerError, UnknownErrorCode)
		return
	}

	c.JSON(http.StatusOK, toJobResponse(*job))
}

type createJobRequest struct {
	Title        string `json:"title" binding:"required,min=3,max=120"`
	Company      string `json:"company" binding:"required,max=120"`
	Location     string `json:"location" binding:"required,max=120"`
	Pay          string `json:"pay" binding:"max=60"`
	Description  string `json:"description" binding:"required"`
	ContactEmail string `json:"contact_email" binding:"required,email"`
	CityID       string `json:"city_id" binding:"omitempty,uuid"`
}

// @Summary Create Job
// @Tags Jobs
// @Description Опубликовать объявление о подработке
// @ModuleID createJob
// @Accept  json
// @Produce  json
// @Param input body createJobRequest true "job"
// @Security UserAuth
// @Success 201 {object} jobResponse
// @Failure 400 {object} ErrorStruct
// @Failure 401
// @Failure 500 {object} ErrorStruct
// @Router /jobs [post]
func (h *Handler) createJob(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	input := service.CreateJobInput{
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Pay:          req.Pay,
		Description:  req.Description,
		ContactEmail: req.ContactEmail,
	}
	if req.CityID != "" {
		cityID, err := uuid.Parse(req.CityID)
		if err != nil {
			validationErrorResponse(c, err)
			return
		}
		input.CityID = &cityID
	}

	job, err := h.services.Jobs.Create(c.Request.Context(), userID, input)
	if err != nil {
		if errors.Is(err, service.ErrCityNotFound) {
			errorResponse(c, CityNotFoundCode)
			return
		}
		logger.Error("failed to create job", zap.Error(err))
		errorResponseWithStatus(c, http.StatusInternalServerError, UnknownErrorCode)
		return
	}

	c.JSON(http.StatusCreated, toJobResponse(*job))
}

type uploadLogoResponse struct {
	LogoURL string `json:"logo_url"`
}

// @Summary Upload Job Logo
// @Tags Jobs
// @Description Загрузить логотип компании для объявления (multipart, поле file)
// @ModuleID uploadJobLogo
// @Accept  multipart/form-data
// @Produce  json
// @Param id path string true "Job ID"
// @Param file formData file true "logo image"
// @Security UserAuth
// @Success 200 {object} uploadLogoResponse
// @Failure 400 {object} ErrorStruct
// @Failure 401
// @Failure 403 {object} ErrorStruct
// @Failure 404 {object} ErrorStruct
// @Router /jobs/{id}/logo [post]
func (h *Handler) uploadJobLogo(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	id := c.Param("id")

	file, err := c.FormFile("file")
	if err != nil {
		validationErrorResponse(c, err)
		return
	}

	if file.Size > maxLogoSizeBytes {
		errorResponse(c, UnknownErrorCode)
		return
	}

	logoURL, err := h.services.Jobs.UploadLogo(c.Request.Context(), userID, id, file)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			errorResponseWithStatus(c, http.StatusNotFound, JobNotFoundCode)
		case errors.Is(err, domain.ErrForbidden):
			errorResponseWithStatus(c, http.StatusForbidden, NotJobOwnerCode)
		default:
			logger.Error("failed to upload job logo", zap.Error(err), zap.String("id", id))
			errorResponseWithStatus(c, http.StatusInternalServerError, UnknownErrorCode)
		}
		return
	}

	c.JSON(http.StatusOK, uploadLogoResponse{LogoURL: logoURL})
}

type toggleSavedResponse struct {
	Saved bool `json:"saved"`
}

// @Summary Toggle Saved Job
// @Tags Jobs
// @Description Переключить отметку "сохранено": сохранённое объявление убирается, несохранённое добавляется
// @ModuleID toggleSavedJob
// @Accept  json
// @Produce  json
// @Param id path string true "Job ID"
// @Security UserAuth
// @Success 200 {object} toggleSavedResponse
// @Failure 401
// @Failure 404 {object} ErrorStruct
// @Failure 500 {object} ErrorStruct
// @Router /jobs/{id}/save [post]
func (h *Handler) toggleSavedJob(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	id := c.Param("id")

	saved, err := h.services.Jobs.ToggleSaved(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			errorResponseWithStatus(c, http.StatusNotFound, JobNotFoundCode)
			return
		}
		logger.Error("failed to toggle saved job", zap.Error(err), zap.String("id", id))
		errorResponseWithStatus(c, http.StatusInternalServerError, UnknownErrorCode)
		return
	}

	c.JSON(http.StatusOK, toggleSavedResponse{Saved: saved})
}
