// Package bootstrap builds the process-scoped clients shared by the binaries
// from loaded configuration.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cuongbtq/job-board/internal/config"
	"github.com/cuongbtq/job-board/internal/notify"
	"github.com/cuongbtq/job-board/shared/logger"
	"github.com/cuongbtq/job-board/shared/postgresql"
	"github.com/cuongbtq/job-board/shared/rabbitmq"
)

// Logger initializes and configures the application logger
func Logger(cfg *config.LoggingConfig) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableSource: cfg.EnableCaller,
		TimeFormat:   time.RFC3339,
	})
}

// PostgreSQL connects to the database and applies the schema when
// auto_migrate is set
func PostgreSQL(ctx context.Context, cfg *config.DatabaseConfig, log *slog.Logger) (*postgresql.Client, error) {
	client, err := postgresql.NewClient(&postgresql.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		Database:        cfg.Database,
		SSLMode:         cfg.SSLMode,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	}, log)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := client.Migrate(ctx); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return client, nil
}

// RabbitMQ connects to the broker and declares the notification exchange and queue
func RabbitMQ(cfg *config.RabbitMQConfig, log *slog.Logger) (*rabbitmq.Client, error) {
	return rabbitmq.NewClient(&rabbitmq.Config{
		Host:               cfg.Host,
		Port:               cfg.Port,
		User:               cfg.User,
		Password:           cfg.Password,
		VHost:              cfg.VHost,
		ExchangeName:       cfg.Exchange.Name,
		ExchangeType:       cfg.Exchange.Type,
		ExchangeDurable:    cfg.Exchange.Durable,
		ExchangeAutoDelete: cfg.Exchange.AutoDelete,
		QueueName:          cfg.Queue.Name,
		QueueDurable:       cfg.Queue.Durable,
		QueueAutoDelete:    cfg.Queue.AutoDelete,
		QueueExclusive:     cfg.Queue.Exclusive,
		RoutingKey:         cfg.RoutingKey,
		RetryAttempts:      cfg.Connection.RetryAttempts,
		RetryInterval:      cfg.Connection.RetryInterval,
		Heartbeat:          cfg.Connection.Heartbeat,
		PublishRetries:     cfg.Publish.RetryAttempts,
		PublishRetryDelay:  cfg.Publish.RetryInterval,
		PublishBackoffMult: cfg.Publish.BackoffMultiplier,
	}, log)
}

// MailNotifier builds the SMTP notifier from the mail settings
func MailNotifier(cfg *config.MailConfig, log *slog.Logger) (*notify.MailNotifier, error) {
	return notify.NewMailNotifier(notify.MailConfig{
		Host:        cfg.Host,
		Port:        cfg.Port,
		Username:    cfg.Username,
		Password:    cfg.Password,
		From:        cfg.From,
		SendTimeout: cfg.SendTimeout,
	}, log)
}

// ConfigPath returns the value of envVar, or fallback when it is unset
func ConfigPath(envVar, fallback string) string {
	if p := os.Getenv(envVar); p != "" {
		return p
	}
	return fallback
}
