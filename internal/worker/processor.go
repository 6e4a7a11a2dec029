package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apidomain "github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/worker/domain"
)

// processMessage sends the acknowledgement for one feedback entry. Entries
// that were already notified are skipped.
func (w *Worker) processMessage(ctx context.Context, msg *domain.NotificationMessage) error {
	log := w.logger.With(
		slog.String("feedback_id", msg.FeedbackID),
		slog.Bool("redelivered", msg.Redelivered),
	)

	fb, err := w.storage.GetFeedback(ctx, msg.FeedbackID)
	if err != nil {
		if errors.Is(err, apidomain.ErrFeedbackNotFound) {
			return fmt.Errorf("%w: %v", domain.ErrInvalidMessage, err)
		}
		return retryOnce(msg, err)
	}

	if fb.NotifiedAt != nil {
		log.Info("Feedback already notified, skipping")
		return nil
	}

	sendCtx := ctx
	if w.jobTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, w.jobTimeout)
		defer cancel()
	}

	if err := w.notifier.NotifyFeedback(sendCtx, fb); err != nil {
		return retryOnce(msg, err)
	}

	// the mail is out; a failed marker must not cause a second send
	if err := w.storage.MarkNotified(ctx, fb.ID); err != nil {
		log.Error("Failed to mark feedback notified", slog.String("error", err.Error()))
	}

	log.Info("Feedback notification processed")
	return nil
}

// retryOnce requeues a first delivery and gives up on a redelivery
func retryOnce(msg *domain.NotificationMessage, err error) error {
	if msg.Redelivered {
		return fmt.Errorf("%w: %v", domain.ErrMaxRetriesExceeded, err)
	}
	return domain.NewRetryableError(err)
}
