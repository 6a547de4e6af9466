// Package alert carries budget-alert notifications out of the ledger.
//
// The ledger itself has no output-device dependency: it reports threshold
// crossings through the Notifier port and the process wiring decides how
// they surface (log line, AMQP message, both).
package alert

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// BudgetAlert is emitted when a create operation pushes current-month
// spend at or above a budget's alert threshold.
type BudgetAlert struct {
	Category string    `json:"category"`
	Spent    float64   `json:"spent"`
	Limit    float64   `json:"limit"`
	Percent  float64   `json:"percent"`
	At       time.Time `json:"at"`
}

// ToJSON converts the alert to JSON bytes for the message bus.
func (a *BudgetAlert) ToJSON() ([]byte, error) {
	return json.Marshal(a)
}

// FromJSON decodes an alert received from the message bus.
func FromJSON(data []byte) (*BudgetAlert, error) {
	var a BudgetAlert
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Notifier receives budget alerts. Implementations must not block the
// ledger: delivery failures are theirs to report, never to propagate.
type Notifier interface {
	Notify(ctx context.Context, a BudgetAlert)
}

// LogNotifier writes alerts to the structured log. It is the default
// collaborator when no message bus is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, a BudgetAlert) {
	slog.WarnContext(ctx, "Budget alert",
		"category", a.Category,
		"spent", a.Spent,
		"limit", a.Limit,
		"percent", a.Percent)
}

// MultiNotifier fans an alert out to several notifiers.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, a BudgetAlert) {
	for _, n := range m {
		n.Notify(ctx, a)
	}
}
