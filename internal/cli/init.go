// Package cli provides common initialization utilities shared by the
// fintrack command and the alert-worker process.
package cli

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"fintrack/internal/alert"
	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *log.Logger {
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitNotifier builds the budget-alert notifier chain. Alerts always
// reach the structured log; when AMQP is configured they are published
// to the message bus as well. A failed AMQP connection degrades to
// log-only with a warning.
func InitNotifier(logger *log.Logger, cfg *config.Config) (alert.Notifier, *alert.Publisher) {
	notifiers := alert.MultiNotifier{alert.LogNotifier{}}
	var publisher *alert.Publisher
	if cfg.AMQPURL != "" {
		p, err := alert.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP publisher, alerts will be logged only", "error", err)
		} else {
			notifiers = append(notifiers, p)
			publisher = p
			logger.Info("Initialized AMQP alert publisher",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}
	return notifiers, publisher
}

// InitStore wires the snapshot backend and restores the ledger from it.
// Returns the store and a cleanup function; exits the process when the
// backend cannot be initialized.
func InitStore(ctx context.Context, logger *log.Logger, cfg *config.Config, notifier alert.Notifier) (*ledger.Store, func()) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	store := ledger.New(ctx, result.Backend, notifier)

	cleanup := func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}
	}
	return store, cleanup
}
