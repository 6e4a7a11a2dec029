package storage

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	apidomain "github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewStorage(sqlx.NewDb(db, "postgres"), slog.New(slog.NewTextHandler(io.Discard, nil))), mock
}

func TestStorage_GetFeedback(t *testing.T) {
	s, mock := newMockStorage(t)
	created := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM feedback")).
		WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "feedback", "created_at", "notified_at"}).
			AddRow("f1", "Ada", "ada@example.com", "Great site", created, nil))

	fb, err := s.GetFeedback(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", fb.Name)
	assert.Equal(t, "Great site", fb.Message)
	assert.Nil(t, fb.NotifiedAt)

	mock.ExpectQuery(regexp.QuoteMeta("FROM feedback")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err = s.GetFeedback(context.Background(), "missing")
	assert.ErrorIs(t, err, apidomain.ErrFeedbackNotFound)

	mock.ExpectQuery(regexp.QuoteMeta("FROM feedback")).
		WithArgs("f2").
		WillReturnError(errors.New("connection reset"))

	_, err = s.GetFeedback(context.Background(), "f2")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apidomain.ErrFeedbackNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_MarkNotified(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectExec(regexp.QuoteMeta("SET notified_at = NOW()")).
		WithArgs("f1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.MarkNotified(context.Background(), "f1"))

	// already marked is not an error
	mock.ExpectExec(regexp.QuoteMeta("SET notified_at = NOW()")).
		WithArgs("f1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, s.MarkNotified(context.Background(), "f1"))

	mock.ExpectExec(regexp.QuoteMeta("SET notified_at = NOW()")).
		WithArgs("f2").
		WillReturnError(errors.New("connection reset"))
	assert.Error(t, s.MarkNotified(context.Background(), "f2"))

	assert.NoError(t, mock.ExpectationsWereMet())
}
