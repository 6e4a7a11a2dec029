package handler

import (
	"log/slog"
	"net/http"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/api/respond"
	"github.com/gin-gonic/gin"
)

const feedbackFailedMessage = "Something went wrong."

var errInvalidFeedback = domain.NewValidationError("Name, a valid email and feedback are required")

// FeedbackHandler stores feedback and acknowledges it to the sender
type FeedbackHandler struct {
	logger   *slog.Logger
	feedback FeedbackStore
	notifier Notifier
	inline   bool
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(deps *Dependencies) *FeedbackHandler {
	return &FeedbackHandler{
		logger:   deps.Logger,
		feedback: deps.Feedback,
		notifier: deps.Notifier,
		inline:   deps.InlineDelivery,
	}
}

type submitFeedbackRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Feedback string `json:"feedback" binding:"required"`
}

// SubmitFeedback handles POST /submit-feedback
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	log := requestLogger(c, h.logger)

	var req submitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, log, errInvalidFeedback, "")
		return
	}

	fb := &domain.Feedback{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Feedback,
	}

	if err := h.feedback.CreateFeedback(c.Request.Context(), fb); err != nil {
		respond.Error(c, log, err, feedbackFailedMessage)
		return
	}

	if err := h.notifier.NotifyFeedback(c.Request.Context(), fb); err != nil {
		respond.Error(c, log, err, feedbackFailedMessage)
		return
	}

	if h.inline {
		// the mail is out; a failed marker must not fail the request
		if err := h.feedback.MarkNotified(c.Request.Context(), fb.ID); err != nil {
			log.Error("Failed to mark feedback notified",
				slog.String("feedback_id", fb.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	log.Info("Feedback submitted", slog.String("feedback_id", fb.ID))

	c.JSON(http.StatusOK, gin.H{"message": "Feedback submitted successfully and email sent!"})
}
