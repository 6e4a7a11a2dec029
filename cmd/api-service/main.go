package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cuongbtq/job-board/internal/api/auth"
	"github.com/cuongbtq/job-board/internal/api/handler"
	"github.com/cuongbtq/job-board/internal/api/intake"
	"github.com/cuongbtq/job-board/internal/api/router"
	"github.com/cuongbtq/job-board/internal/api/storage"
	"github.com/cuongbtq/job-board/internal/bootstrap"
	"github.com/cuongbtq/job-board/internal/config"
	"github.com/cuongbtq/job-board/internal/notify"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	configPath := flag.String("config",
		bootstrap.ConfigPath("API_SERVICE_CONFIG_PATH", "configs/api-service/config.yaml"),
		"Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ValidateAPIConfig(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	appLogger, err := bootstrap.Logger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	appLogger.Info("Starting API service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
		slog.String("mail_delivery", cfg.Mail.Delivery),
	)

	dbClient, err := bootstrap.PostgreSQL(context.Background(), &cfg.Database, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbClient.Close()

	appLogger.Info("Database connection established")

	var notifier handler.Notifier
	switch cfg.Mail.Delivery {
	case config.MailDeliveryQueue:
		rabbitClient, err := bootstrap.RabbitMQ(&cfg.RabbitMQ, appLogger.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ: %w", err)
		}
		defer rabbitClient.Close()

		appLogger.Info("RabbitMQ connection established")
		notifier = notify.NewQueueNotifier(rabbitClient, appLogger.Logger)
	default:
		mailer, err := bootstrap.MailNotifier(&cfg.Mail, appLogger.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize mailer: %w", err)
		}
		notifier = mailer
	}

	deps := &handler.Dependencies{
		Logger:      appLogger.Logger,
		ServiceName: cfg.App.Name,
		DBClient:    dbClient,
		Jobs:        storage.NewJobStorage(dbClient),
		Feedback:    storage.NewFeedbackStorage(dbClient),
		Notifier:    notifier,

		InlineDelivery: cfg.Mail.Delivery != config.MailDeliveryQueue,
	}
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	uploads := intake.New(cfg.Uploads.Dir, cfg.Uploads.MaxBytes, appLogger.Logger)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	r := router.SetupRouter(deps, tokens, uploads)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	appLogger.Info("Starting HTTP server",
		slog.String("address", addr),
		slog.Duration("read_timeout", cfg.Server.ReadTimeout),
		slog.Duration("write_timeout", cfg.Server.WriteTimeout),
		slog.String("uploads_dir", uploads.Dir()),
	)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		appLogger.Info("Shutting down server...", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown",
			slog.Any("error", err),
		)
		return err
	}

	appLogger.Info("Server shutdown complete")
	return nil
}
