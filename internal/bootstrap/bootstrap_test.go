package bootstrap

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cuongbtq/job-board/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigPath(t *testing.T) {
	t.Setenv("JOBBOARD_TEST_CONFIG_PATH", "")
	assert.Equal(t, "configs/api-service/config.yaml", ConfigPath("JOBBOARD_TEST_CONFIG_PATH", "configs/api-service/config.yaml"))

	t.Setenv("JOBBOARD_TEST_CONFIG_PATH", "/etc/job-board/api.yaml")
	assert.Equal(t, "/etc/job-board/api.yaml", ConfigPath("JOBBOARD_TEST_CONFIG_PATH", "configs/api-service/config.yaml"))
}

func TestLogger(t *testing.T) {
	l, err := Logger(&config.LoggingConfig{Level: "debug", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.NotNil(t, l.Logger)
}

func TestMailNotifier(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	n, err := MailNotifier(&config.MailConfig{
		Host:        "smtp.example.com",
		Port:        587,
		Username:    "mailer",
		Password:    "secret",
		From:        "noreply@example.com",
		SendTimeout: 10 * time.Second,
	}, log)
	require.NoError(t, err)
	assert.NotNil(t, n)

	_, err = MailNotifier(&config.MailConfig{Host: "smtp.example.com", Port: 0, From: "noreply@example.com"}, log)
	assert.Error(t, err)
}
