package alert

import (
	"context"
	"testing"
	"time"
)

func TestBudgetAlertJSONRoundTrip(t *testing.T) {
	original := BudgetAlert{
		Category: "Food",
		Spent:    340,
		Limit:    400,
		Percent:  85,
		At:       time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
	}

	data, err := original.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if decoded.Category != original.Category || decoded.Spent != original.Spent ||
		decoded.Limit != original.Limit || decoded.Percent != original.Percent {
		t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, original)
	}
	if !decoded.At.Equal(original.At) {
		t.Fatalf("timestamp: got %v, want %v", decoded.At, original.At)
	}
}

func TestFromJSONRejectsGarbage(t *testing.T) {
	if _, err := FromJSON([]byte("{broken")); err == nil {
		t.Fatal("expected a decode error")
	}
}

type recordingNotifier struct {
	alerts []BudgetAlert
}

func (r *recordingNotifier) Notify(_ context.Context, a BudgetAlert) {
	r.alerts = append(r.alerts, a)
}

func TestMultiNotifierFansOut(t *testing.T) {
	first := &recordingNotifier{}
	second := &recordingNotifier{}
	multi := MultiNotifier{first, second}

	multi.Notify(context.Background(), BudgetAlert{Category: "Food", Percent: 90})

	if len(first.alerts) != 1 || len(second.alerts) != 1 {
		t.Fatalf("fan-out: got %d and %d deliveries, want 1 each", len(first.alerts), len(second.alerts))
	}
	if first.alerts[0].Category != "Food" {
		t.Fatalf("delivered alert: got %+v", first.alerts[0])
	}
}

func TestMultiNotifierEmptyIsNoop(t *testing.T) {
	MultiNotifier{}.Notify(context.Background(), BudgetAlert{})
}
