package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/job-board/internal/worker/domain"
)

// spawnWorkerPool spawns N worker goroutines based on concurrency configuration
func (w *Worker) spawnWorkerPool(ctx context.Context) {
	w.logger.Info("Spawning worker pool",
		slog.Int("concurrency", w.concurrency),
		slog.String("worker_id", w.workerID),
	)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.workerLoop(ctx, i)
	}
}

// workerLoop is the main processing loop for each worker goroutine
func (w *Worker) workerLoop(ctx context.Context, workerNum int) {
	defer w.wg.Done()

	workerName := fmt.Sprintf("%s-%d", w.workerID, workerNum)
	w.logger.Debug("Worker goroutine started", slog.String("worker_name", workerName))

	for {
		select {
		case <-w.stopChan:
			w.logger.Debug("Worker goroutine stopping - stopChan closed",
				slog.String("worker_name", workerName),
			)
			return

		case <-ctx.Done():
			w.logger.Debug("Worker goroutine stopping - context canceled",
				slog.String("worker_name", workerName),
			)
			return

		case msg := <-w.jobsChan:
			// in-flight mail is allowed to finish after shutdown begins
			err := w.processMessage(context.WithoutCancel(ctx), msg)
			w.settle(workerName, msg, err)
		}
	}
}

// settle acks a processed message or nacks it, requeueing only retryable failures
func (w *Worker) settle(workerName string, msg *domain.NotificationMessage, err error) {
	if msg.Ack == nil {
		w.logger.Error("Message has no acknowledger",
			slog.String("worker_name", workerName),
			slog.String("feedback_id", msg.FeedbackID),
		)
		return
	}

	if err == nil {
		if ackErr := msg.Ack.Ack(msg.DeliveryTag, false); ackErr != nil {
			w.logger.Error("Failed to ACK message",
				slog.String("worker_name", workerName),
				slog.String("feedback_id", msg.FeedbackID),
				slog.String("error", ackErr.Error()),
			)
		}
		return
	}

	requeue := shouldRequeue(err)
	w.logger.Error("Notification processing failed",
		slog.String("worker_name", workerName),
		slog.String("feedback_id", msg.FeedbackID),
		slog.Bool("requeue", requeue),
		slog.String("error", err.Error()),
	)

	if nackErr := msg.Ack.Nack(msg.DeliveryTag, false, requeue); nackErr != nil {
		w.logger.Error("Failed to NACK message",
			slog.String("worker_name", workerName),
			slog.String("feedback_id", msg.FeedbackID),
			slog.String("error", nackErr.Error()),
		)
	}
}

// shouldRequeue determines if a message should be requeued based on the error type
func shouldRequeue(err error) bool {
	if errors.Is(err, domain.ErrMaxRetriesExceeded) || errors.Is(err, domain.ErrInvalidMessage) {
		return false
	}

	var retryableErr *domain.RetryableError
	return errors.As(err, &retryableErr)
}
