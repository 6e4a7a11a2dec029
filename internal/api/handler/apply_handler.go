package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/api/intake"
	"github.com/cuongbtq/job-board/internal/api/respond"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const applyFailedMessage = "Error submitting resume"

// ApplicationHandler accepts job applications. The resume has already been
// stored by the intake middleware when Apply runs.
type ApplicationHandler struct {
	logger *slog.Logger
	jobs   JobStore
}

// NewApplicationHandler creates a new ApplicationHandler instance
func NewApplicationHandler(deps *Dependencies) *ApplicationHandler {
	return &ApplicationHandler{
		logger: deps.Logger,
		jobs:   deps.Jobs,
	}
}

// Apply handles POST /api/jobs/apply/:jobId
func (h *ApplicationHandler) Apply(c *gin.Context) {
	log := requestLogger(c, h.logger)

	doc, ok := intake.FromContext(c)
	if !ok {
		respond.Error(c, log, errors.New("apply route is missing document intake"), applyFailedMessage)
		return
	}

	jobID := c.Param("jobId")
	if _, err := uuid.Parse(jobID); err != nil {
		respond.Error(c, log, domain.ErrJobNotFound, "")
		return
	}

	job, err := h.jobs.GetJob(c.Request.Context(), jobID)
	if err != nil {
		respond.Error(c, log, err, applyFailedMessage)
		return
	}

	log.Info("Application received",
		slog.String("job_id", job.ID),
		slog.String("resume", doc.Path),
	)

	c.JSON(http.StatusOK, gin.H{
		"message":   "Congrats, you are selected!",
		"resumeUrl": filepath.ToSlash(doc.Path),
		"jobTitle":  job.Title,
		"company":   job.Company,
	})
}
