// Command recurring-worker runs the recurring-expense processor as a
// long-lived process, expanding due templates on a fixed interval.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"fintrack/internal/cli"
	"fintrack/internal/services"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	logger.Info("Starting recurring-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifier, publisher := cli.InitNotifier(logger, cfg)
	if publisher != nil {
		defer publisher.Close()
	}

	store, cleanup := cli.InitStore(ctx, logger, cfg, notifier)
	defer cleanup()

	logger.Info("Recurring expense processor configured",
		"interval", cfg.RecurringInterval,
		"backend", cfg.DataBackend)

	w := worker.NewRecurringWorker(services.NewRecurringProcessor(store), cfg.RecurringInterval)
	w.Run(ctx)

	logger.Info("Recurring-worker shutdown complete")
}
