// alert-worker consumes budget alerts from the message bus and surfaces
// them. It is the presentation collaborator: the ledger only publishes
// the structured payload.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fintrack/internal/alert"
	"fintrack/internal/cli"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting alert-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the alert worker")
		os.Exit(1)
	}

	publisher, err := alert.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = publisher.Consume(ctx, func(a *alert.BudgetAlert) error {
		fmt.Printf("BUDGET ALERT: %s at %.1f%% (spent %.2f of %.2f)\n",
			a.Category, a.Percent, a.Spent, a.Limit)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Alert consumption stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("alert-worker stopped")
}
