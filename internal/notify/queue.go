package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/job-board/internal/api/domain"
)

// FeedbackMessage asks the mail worker to acknowledge a stored feedback entry
type FeedbackMessage struct {
	FeedbackID string `json:"feedback_id"`
}

// Publisher publishes a JSON message. *rabbitmq.Client satisfies it.
type Publisher interface {
	PublishJSON(ctx context.Context, v any) error
}

// QueueNotifier hands acknowledgements to the mail worker through the queue
type QueueNotifier struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewQueueNotifier creates a notifier publishing through publisher
func NewQueueNotifier(publisher Publisher, logger *slog.Logger) *QueueNotifier {
	return &QueueNotifier{
		publisher: publisher,
		logger:    logger,
	}
}

// NotifyFeedback queues a FeedbackMessage for fb
func (n *QueueNotifier) NotifyFeedback(ctx context.Context, fb *domain.Feedback) error {
	if err := n.publisher.PublishJSON(ctx, FeedbackMessage{FeedbackID: fb.ID}); err != nil {
		return fmt.Errorf("failed to queue feedback notification: %w", err)
	}

	n.logger.Info("Feedback notification queued", slog.String("feedback_id", fb.ID))
	return nil
}
