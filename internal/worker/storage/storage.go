package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	apidomain "github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/jmoiron/sqlx"
)

// Storage handles all database operations for the worker
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// GetFeedback retrieves a feedback entry by its ID
func (s *Storage) GetFeedback(ctx context.Context, id string) (*apidomain.Feedback, error) {
	query := `
		SELECT id, name, email, feedback, created_at, notified_at
		FROM feedback
		WHERE id = $1
	`

	var fb apidomain.Feedback
	if err := s.db.GetContext(ctx, &fb, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apidomain.ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	return &fb, nil
}

// MarkNotified records that the acknowledgement for id was sent. Marking an
// entry twice keeps the first timestamp.
func (s *Storage) MarkNotified(ctx context.Context, id string) error {
	query := `
		UPDATE feedback
		SET notified_at = NOW()
		WHERE id = $1 AND notified_at IS NULL
	`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark feedback notified: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		s.logger.Warn("Feedback notified marker not updated (already set or missing)",
			slog.String("feedback_id", id),
		)
	}

	return nil
}
