// Package worker runs the recurring-expense processor on a schedule.
package worker

import (
	"context"
	"log/slog"
	"time"

	"fintrack/internal/services"
)

// RecurringWorker invokes the processor once at startup and then on every
// tick until the context is cancelled. Processing is idempotent within a
// calendar day, so a short interval only costs wasted scans.
type RecurringWorker struct {
	processor *services.RecurringProcessor
	interval  time.Duration
}

func NewRecurringWorker(processor *services.RecurringProcessor, interval time.Duration) *RecurringWorker {
	return &RecurringWorker{processor: processor, interval: interval}
}

// Run blocks until ctx is cancelled. A failed pass is logged and the loop
// keeps going; the next tick retries.
func (w *RecurringWorker) Run(ctx context.Context) {
	w.process(ctx, time.Now())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Recurring worker stopping")
			return
		case now := <-ticker.C:
			w.process(ctx, now)
		}
	}
}

func (w *RecurringWorker) process(ctx context.Context, now time.Time) {
	count, err := w.processor.ProcessDue(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "Recurring processing failed", "error", err)
		return
	}
	slog.InfoContext(ctx, "Recurring processing pass complete",
		"expenses_created", count,
		"next_check", now.Add(w.interval).Format("15:04:05"))
}
