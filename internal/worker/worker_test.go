package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	apidomain "github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/worker/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedbackID = "3f2b6f0e-3c1a-4c55-9d1e-6f9a1b2c3d4e"

type settlement struct {
	tag     uint64
	ack     bool
	requeue bool
}

type fakeAcknowledger struct {
	mu    sync.Mutex
	calls []settlement
}

func (f *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, settlement{tag: tag, ack: true})
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, settlement{tag: tag, requeue: requeue})
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func (f *fakeAcknowledger) settlements() []settlement {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]settlement(nil), f.calls...)
}

type fakeStore struct {
	mu       sync.Mutex
	entries  map[string]*apidomain.Feedback
	getErr   error
	markErr  error
	notified []string
}

func (s *fakeStore) GetFeedback(_ context.Context, id string) (*apidomain.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	fb, ok := s.entries[id]
	if !ok {
		return nil, apidomain.ErrFeedbackNotFound
	}
	copied := *fb
	return &copied, nil
}

func (s *fakeStore) MarkNotified(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.markErr != nil {
		return s.markErr
	}
	now := time.Now()
	s.entries[id].NotifiedAt = &now
	s.notified = append(s.notified, id)
	return nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (n *fakeNotifier) NotifyFeedback(_ context.Context, fb *apidomain.Feedback) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, fb.ID)
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type fakeSource struct {
	deliveries chan amqp.Delivery
	err        error
}

func (s *fakeSource) Consume(string, int) (<-chan amqp.Delivery, error) {
	return s.deliveries, s.err
}

func newTestWorker(store *fakeStore, notifier *fakeNotifier, source *fakeSource) *Worker {
	return NewWorker(&Config{
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Storage:     store,
		Notifier:    notifier,
		Source:      source,
		WorkerID:    "test-worker",
		Concurrency: 2,
		JobTimeout:  time.Second,
	})
}

func newStore() *fakeStore {
	return &fakeStore{entries: map[string]*apidomain.Feedback{
		feedbackID: {ID: feedbackID, Name: "Ada", Email: "ada@example.com", Message: "Great site"},
	}}
}

func TestShouldRequeue(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "retryable", err: domain.NewRetryableError(errors.New("smtp timeout")), want: true},
		{name: "max retries", err: domain.ErrMaxRetriesExceeded, want: false},
		{name: "invalid message", err: domain.ErrInvalidMessage, want: false},
		{name: "unknown", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldRequeue(tt.err))
		})
	}
}

func TestProcessMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("sends and marks notified", func(t *testing.T) {
		store, notifier := newStore(), &fakeNotifier{}
		w := newTestWorker(store, notifier, &fakeSource{})

		require.NoError(t, w.processMessage(ctx, &domain.NotificationMessage{FeedbackID: feedbackID}))
		assert.Equal(t, []string{feedbackID}, notifier.sent)
		assert.Equal(t, []string{feedbackID}, store.notified)
	})

	t.Run("already notified is skipped", func(t *testing.T) {
		store, notifier := newStore(), &fakeNotifier{}
		now := time.Now()
		store.entries[feedbackID].NotifiedAt = &now
		w := newTestWorker(store, notifier, &fakeSource{})

		require.NoError(t, w.processMessage(ctx, &domain.NotificationMessage{FeedbackID: feedbackID}))
		assert.Empty(t, notifier.sent)
	})

	t.Run("unknown feedback is dropped", func(t *testing.T) {
		w := newTestWorker(newStore(), &fakeNotifier{}, &fakeSource{})

		err := w.processMessage(ctx, &domain.NotificationMessage{FeedbackID: "8b0d3f5e-3c59-4b5e-9f7e-2c1d0a9b8c7d"})
		assert.ErrorIs(t, err, domain.ErrInvalidMessage)
		assert.False(t, shouldRequeue(err))
	})

	t.Run("send failure is retried once", func(t *testing.T) {
		store, notifier := newStore(), &fakeNotifier{err: errors.New("421 service not available")}
		w := newTestWorker(store, notifier, &fakeSource{})

		err := w.processMessage(ctx, &domain.NotificationMessage{FeedbackID: feedbackID})
		assert.True(t, shouldRequeue(err))

		err = w.processMessage(ctx, &domain.NotificationMessage{FeedbackID: feedbackID, Redelivered: true})
		assert.ErrorIs(t, err, domain.ErrMaxRetriesExceeded)
		assert.False(t, shouldRequeue(err))
		assert.Empty(t, store.notified)
	})

	t.Run("database failure is retried", func(t *testing.T) {
		store := newStore()
		store.getErr = errors.New("connection reset")
		w := newTestWorker(store, &fakeNotifier{}, &fakeSource{})

		err := w.processMessage(ctx, &domain.NotificationMessage{FeedbackID: feedbackID})
		assert.True(t, shouldRequeue(err))
	})

	t.Run("marker failure still succeeds", func(t *testing.T) {
		store, notifier := newStore(), &fakeNotifier{}
		store.markErr = errors.New("connection reset")
		w := newTestWorker(store, notifier, &fakeSource{})

		require.NoError(t, w.processMessage(ctx, &domain.NotificationMessage{FeedbackID: feedbackID}))
		assert.Len(t, notifier.sent, 1)
	})
}

func TestWorker_StartSettlesDeliveries(t *testing.T) {
	store, notifier := newStore(), &fakeNotifier{}
	source := &fakeSource{deliveries: make(chan amqp.Delivery, 4)}
	w := newTestWorker(store, notifier, source)
	acker := &fakeAcknowledger{}

	source.deliveries <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 1, Body: []byte(`{"feedback_id":"` + feedbackID + `"}`)}
	source.deliveries <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 2, Body: []byte(`not json`)}
	source.deliveries <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 3, Body: []byte(`{"feedback_id":"42"}`)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.Eventually(t, func() bool { return len(acker.settlements()) == 3 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	w.Stop()

	byTag := map[uint64]settlement{}
	for _, s := range acker.settlements() {
		byTag[s.tag] = s
	}
	assert.True(t, byTag[1].ack)
	assert.Equal(t, settlement{tag: 2}, byTag[2])
	assert.Equal(t, settlement{tag: 3}, byTag[3])
	assert.Equal(t, 1, notifier.count())
}

func TestWorker_StartReturnsWhenDeliveriesClose(t *testing.T) {
	source := &fakeSource{deliveries: make(chan amqp.Delivery)}
	close(source.deliveries)
	w := newTestWorker(newStore(), &fakeNotifier{}, source)

	err := w.Start(context.Background())
	assert.ErrorIs(t, err, errDeliveriesClosed)
	w.Stop()
}

func TestWorker_StartFailsWithoutConsumer(t *testing.T) {
	w := newTestWorker(newStore(), &fakeNotifier{}, &fakeSource{err: errors.New("not connected to RabbitMQ")})

	assert.Error(t, w.Start(context.Background()))
	w.Stop()
}
