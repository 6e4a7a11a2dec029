package handler

import (
	"context"
	"log/slog"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/shared/logger"
	"github.com/gin-gonic/gin"
)

// JobStore persists job postings
type JobStore interface {
	CreateJob(ctx context.Context, job *domain.Job) error
	ListJobs(ctx context.Context, page *domain.JobPage) ([]domain.Job, error)
	GetJob(ctx context.Context, id string) (*domain.Job, error)
	UpdateJob(ctx context.Context, id string, patch *domain.JobPatch) (*domain.Job, error)
	DeleteJob(ctx context.Context, id string) error
}

// FeedbackStore persists feedback entries
type FeedbackStore interface {
	CreateFeedback(ctx context.Context, fb *domain.Feedback) error
	MarkNotified(ctx context.Context, id string) error
}

// Notifier acknowledges stored feedback to its author
type Notifier interface {
	NotifyFeedback(ctx context.Context, fb *domain.Feedback) error
}

// HealthChecker reports whether a backing service is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger      *slog.Logger
	ServiceName string
	DBClient    HealthChecker
	Jobs        JobStore
	Feedback    FeedbackStore
	Notifier    Notifier

	// InlineDelivery is set when Notifier sends the mail before returning.
	// The handler then marks the entry notified; otherwise the mail worker does.
	InlineDelivery bool
}

// requestLogger returns the request-scoped logger set by the logging middleware
func requestLogger(c *gin.Context, fallback *slog.Logger) *slog.Logger {
	return logger.FromContext(c.Request.Context(), fallback)
}
