// Package storagetest provides in-memory stores for handler and router tests.
package storagetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/google/uuid"
)

// JobStore keeps jobs in memory and follows the ordering and validation of
// the PostgreSQL store.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]domain.Job
	now  time.Time

	// Err, when set, is returned by every call
	Err error
}

func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[string]domain.Job),
		now:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp so creation order is stable
func (s *JobStore) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func (s *JobStore) CreateJob(_ context.Context, job *domain.Job) error {
	if s.Err != nil {
		return s.Err
	}
	if err := job.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick()
	job.ID = uuid.New().String()
	job.CreatedAt = now
	job.UpdatedAt = now
	s.jobs[job.ID] = *job
	return nil
}

func (s *JobStore) ListJobs(_ context.Context, page *domain.JobPage) ([]domain.Job, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]domain.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if page != nil && page.Cursor != nil && !before(j, page.Cursor) {
			continue
		}
		jobs = append(jobs, j)
	}

	sort.Slice(jobs, func(a, b int) bool {
		if !jobs[a].CreatedAt.Equal(jobs[b].CreatedAt) {
			return jobs[a].CreatedAt.After(jobs[b].CreatedAt)
		}
		return jobs[a].ID > jobs[b].ID
	})

	if page != nil && len(jobs) > page.Size+1 {
		jobs = jobs[:page.Size+1]
	}

	return jobs, nil
}

func before(j domain.Job, c *domain.JobCursor) bool {
	if j.CreatedAt.Equal(c.CreatedAt) {
		return j.ID < c.ID
	}
	return j.CreatedAt.Before(c.CreatedAt)
}

func (s *JobStore) GetJob(_ context.Context, id string) (*domain.Job, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return &job, nil
}

func (s *JobStore) UpdateJob(_ context.Context, id string, patch *domain.JobPatch) (*domain.Job, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	patch.Apply(&job)
	job.UpdatedAt = s.tick()
	s.jobs[id] = job
	return &job, nil
}

func (s *JobStore) DeleteJob(_ context.Context, id string) error {
	if s.Err != nil {
		return s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.jobs, id)
	return nil
}

// FeedbackStore keeps feedback entries in memory
type FeedbackStore struct {
	mu      sync.Mutex
	Entries []domain.Feedback

	// Err, when set, is returned by every call
	Err error
	// MarkErr, when set, is returned by MarkNotified
	MarkErr error
}

func (s *FeedbackStore) CreateFeedback(_ context.Context, fb *domain.Feedback) error {
	if s.Err != nil {
		return s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fb.ID = uuid.New().String()
	fb.CreatedAt = time.Now().UTC()
	s.Entries = append(s.Entries, *fb)
	return nil
}

func (s *FeedbackStore) MarkNotified(_ context.Context, id string) error {
	if s.Err != nil {
		return s.Err
	}
	if s.MarkErr != nil {
		return s.MarkErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.Entries {
		if s.Entries[i].ID == id && s.Entries[i].NotifiedAt == nil {
			now := time.Now().UTC()
			s.Entries[i].NotifiedAt = &now
		}
	}
	return nil
}

// Notifier records acknowledged feedback
type Notifier struct {
	mu       sync.Mutex
	Notified []domain.Feedback

	// Err, when set, is returned by every call
	Err error
}

func (n *Notifier) NotifyFeedback(_ context.Context, fb *domain.Feedback) error {
	if n.Err != nil {
		return n.Err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.Notified = append(n.Notified, *fb)
	return nil
}

// HealthChecker reports Err as the health status
type HealthChecker struct {
	Err error
}

func (h HealthChecker) HealthCheck(context.Context) error {
	return h.Err
}
