// Package worker consumes feedback notification messages and mails the
// acknowledgement for each one.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	apidomain "github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/worker/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// FeedbackStore loads feedback entries and records their notification
type FeedbackStore interface {
	GetFeedback(ctx context.Context, id string) (*apidomain.Feedback, error)
	MarkNotified(ctx context.Context, id string) error
}

// Notifier sends the acknowledgement mail
type Notifier interface {
	NotifyFeedback(ctx context.Context, fb *apidomain.Feedback) error
}

// MessageSource delivers queue messages. *rabbitmq.Client satisfies it.
type MessageSource interface {
	Consume(consumerTag string, prefetchCount int) (<-chan amqp.Delivery, error)
}

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	Storage       FeedbackStore
	Notifier      Notifier
	Source        MessageSource
	WorkerID      string
	Concurrency   int
	PrefetchCount int
	JobTimeout    time.Duration
}

// Worker represents the background notification worker
type Worker struct {
	logger        *slog.Logger
	storage       FeedbackStore
	notifier      Notifier
	source        MessageSource
	workerID      string
	concurrency   int
	prefetchCount int
	jobTimeout    time.Duration
	jobsChan      chan *domain.NotificationMessage
	wg            sync.WaitGroup
	stopChan      chan struct{}
	stopOnce      sync.Once
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Worker{
		logger:        cfg.Logger,
		storage:       cfg.Storage,
		notifier:      cfg.Notifier,
		source:        cfg.Source,
		workerID:      cfg.WorkerID,
		concurrency:   concurrency,
		prefetchCount: cfg.PrefetchCount,
		jobTimeout:    cfg.JobTimeout,
		jobsChan:      make(chan *domain.NotificationMessage, concurrency),
		stopChan:      make(chan struct{}),
	}
}

// errDeliveriesClosed is returned by Start when the broker closes the consumer
var errDeliveriesClosed = errors.New("rabbitmq delivery channel closed")

// Start consumes messages until ctx is canceled or the broker closes the
// delivery channel. Call Stop afterwards to wait for in-flight messages.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("job_timeout", w.jobTimeout),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return fmt.Errorf("failed to set up consumer: %w", err)
	}

	w.spawnWorkerPool(ctx)

	if !w.startMessageDispatcher(ctx, deliveries) {
		return errDeliveriesClosed
	}

	w.logger.Info("Worker context canceled, stopping...")
	return nil
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("Stopping worker...")
		close(w.stopChan)
		w.wg.Wait()
		w.logger.Info("Worker stopped")
	})
}
