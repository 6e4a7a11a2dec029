package postgresql

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockClient(t *testing.T) (*Client, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewFromDB(sqlx.NewDb(db, "sqlmock"), logger), mock
}

func TestClient_Migrate(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS jobs").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_jobs_created_at_id").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS feedback").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, client.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_MigrateStopsOnError(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS jobs").WillReturnError(errors.New("permission denied"))

	err := client.Migrate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to apply schema statement 0")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_HealthCheck(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"result"}).AddRow(1))
	require.NoError(t, client.HealthCheck(context.Background()))

	mock.ExpectQuery("SELECT 1").WillReturnError(errors.New("connection reset"))
	err := client.HealthCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database query health check failed")
}
