package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/shared/postgresql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// FeedbackStorage persists feedback entries
type FeedbackStorage struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewFeedbackStorage creates a new feedback storage instance
func NewFeedbackStorage(pg *postgresql.Client) *FeedbackStorage {
	return &FeedbackStorage{
		db:  pg.GetDB(),
		now: time.Now,
	}
}

// CreateFeedback assigns the entry an ID and inserts it
func (s *FeedbackStorage) CreateFeedback(ctx context.Context, fb *domain.Feedback) error {
	fb.ID = uuid.New().String()
	fb.CreatedAt = s.now().UTC()

	query := `
		INSERT INTO feedback (id, name, email, feedback, created_at)
		VALUES (:id, :name, :email, :feedback, :created_at)
	`

	if _, err := s.db.NamedExecContext(ctx, query, fb); err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}

	return nil
}

// MarkNotified stamps the entry as acknowledged. An entry that is already
// marked keeps its first timestamp.
func (s *FeedbackStorage) MarkNotified(ctx context.Context, id string) error {
	query := `
		UPDATE feedback
		SET notified_at = $2
		WHERE id = $1 AND notified_at IS NULL
	`

	if _, err := s.db.ExecContext(ctx, query, id, s.now().UTC()); err != nil {
		return fmt.Errorf("failed to mark feedback notified: %w", err)
	}

	return nil
}
