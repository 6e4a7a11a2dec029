package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/api/respond"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// NextCursorHeader carries the cursor of the next page of jobs
	NextCursorHeader = "X-Next-Cursor"

	defaultPageSize = 20
	maxPageSize     = 100
)

var (
	errInvalidBody  = domain.NewValidationError("Invalid request body")
	errInvalidJobID = domain.NewValidationError("Invalid job id")
)

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	logger *slog.Logger
	jobs   JobStore
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger: deps.Logger,
		jobs:   deps.Jobs,
	}
}

// createJobRequest carries no binding tags: required fields are checked by
// domain.Job.Validate so every store enforces them and the response names
// the missing field.
type createJobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Company     string `json:"company"`
	Location    string `json:"location"`
}

// CreateJob handles POST /api/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	log := requestLogger(c, h.logger)

	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, log, errInvalidBody, "")
		return
	}

	job := &domain.Job{
		Title:       req.Title,
		Description: req.Description,
		Company:     req.Company,
		Location:    req.Location,
	}

	if err := h.jobs.CreateJob(c.Request.Context(), job); err != nil {
		respond.Error(c, log, err, "Failed to create job")
		return
	}

	log.Info("Job created",
		slog.String("job_id", job.ID),
		slog.String("title", job.Title),
	)

	c.JSON(http.StatusCreated, job)
}

// ListJobs handles GET /api/jobs. Without page_size every job is returned;
// with it the response holds one page and NextCursorHeader points at the next.
func (h *JobHandler) ListJobs(c *gin.Context) {
	log := requestLogger(c, h.logger)

	page, err := parseJobPage(c.Query("page_size"), c.Query("cursor"))
	if err != nil {
		respond.Error(c, log, err, "")
		return
	}

	jobs, err := h.jobs.ListJobs(c.Request.Context(), page)
	if err != nil {
		respond.Error(c, log, err, "Failed to list jobs")
		return
	}

	if page != nil && len(jobs) > page.Size {
		jobs = jobs[:page.Size]
		last := jobs[len(jobs)-1]
		c.Header(NextCursorHeader, EncodeJobCursor(&domain.JobCursor{CreatedAt: last.CreatedAt, ID: last.ID}))
	}

	c.JSON(http.StatusOK, jobs)
}

// GetJob handles GET /api/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	log := requestLogger(c, h.logger)

	id, ok := h.jobID(c, log)
	if !ok {
		return
	}

	job, err := h.jobs.GetJob(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, log, err, "Failed to get job")
		return
	}

	c.JSON(http.StatusOK, job)
}

// UpdateJob handles PUT /api/jobs/:id. Fields absent from the body keep
// their stored value.
func (h *JobHandler) UpdateJob(c *gin.Context) {
	log := requestLogger(c, h.logger)

	id, ok := h.jobID(c, log)
	if !ok {
		return
	}

	var patch domain.JobPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.Error(c, log, errInvalidBody, "")
		return
	}

	job, err := h.jobs.UpdateJob(c.Request.Context(), id, &patch)
	if err != nil {
		respond.Error(c, log, err, "Failed to update job")
		return
	}

	log.Info("Job updated", slog.String("job_id", job.ID))

	c.JSON(http.StatusOK, job)
}

// DeleteJob handles DELETE /api/jobs/:id
func (h *JobHandler) DeleteJob(c *gin.Context) {
	log := requestLogger(c, h.logger)

	id, ok := h.jobID(c, log)
	if !ok {
		return
	}

	if err := h.jobs.DeleteJob(c.Request.Context(), id); err != nil {
		respond.Error(c, log, err, "Failed to delete job")
		return
	}

	log.Info("Job deleted", slog.String("job_id", id))

	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully"})
}

func (h *JobHandler) jobID(c *gin.Context, log *slog.Logger) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		respond.Error(c, log, errInvalidJobID, "")
		return "", false
	}
	return id, true
}

func parseJobPage(pageSize, cursor string) (*domain.JobPage, error) {
	if pageSize == "" && cursor == "" {
		return nil, nil
	}

	page := &domain.JobPage{Size: defaultPageSize}

	if pageSize != "" {
		size, err := strconv.Atoi(pageSize)
		if err != nil || size < 1 || size > maxPageSize {
			return nil, domain.NewValidationError("page_size must be between 1 and " + strconv.Itoa(maxPageSize))
		}
		page.Size = size
	}

	c, err := DecodeJobCursor(cursor)
	if err != nil {
		return nil, domain.NewValidationError("Invalid cursor")
	}
	page.Cursor = c

	return page, nil
}
