// Package respond maps domain errors onto HTTP responses. Every handler and
// middleware reports failures through Error so clients see one error shape.
package respond

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/shared/logger"
	"github.com/gin-gonic/gin"
)

// Error aborts the request with the status and client message for err.
// Errors outside the domain taxonomy are logged and answered with fallback.
func Error(c *gin.Context, log *slog.Logger, err error, fallback string) {
	log = logger.FromContext(c.Request.Context(), log)

	status, message := classify(err)
	if status == http.StatusInternalServerError {
		log.Error("Request failed",
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
		message = fallback
	} else {
		log.Debug("Request rejected",
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
	}

	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	status, _ := classify(err)
	return status
}

func classify(err error) (int, string) {
	var verr *domain.ValidationError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, domain.ErrValidation.Error()
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, domain.ErrUnauthenticated.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, domain.ErrForbidden.Error()
	case errors.Is(err, domain.ErrJobNotFound):
		return http.StatusNotFound, "Job not found"
	case errors.Is(err, domain.ErrFeedbackNotFound):
		return http.StatusNotFound, "Feedback not found"
	default:
		return http.StatusInternalServerError, ""
	}
}
