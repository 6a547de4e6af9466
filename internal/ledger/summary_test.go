package ledger

import (
	"context"
	"math"
	"testing"
	"time"

	"fintrack/internal/core"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil)
	if sum.Total != 0 || sum.Count != 0 || sum.Average != 0 {
		t.Fatalf("empty summary: got total=%v count=%d average=%v", sum.Total, sum.Count, sum.Average)
	}
	if len(sum.CategoryBreakdown) != 0 || len(sum.MonthlyTrend) != 0 || len(sum.PaymentMethodBreakdown) != 0 {
		t.Fatal("empty summary must have empty breakdowns")
	}
}

func TestSummarizeTotals(t *testing.T) {
	june := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	july := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
	expenses := []core.Expense{
		{Amount: 45.50, Category: "Food", Date: june, PaymentMethod: core.Cash},
		{Amount: 60.00, Category: "Transportation", Date: july, PaymentMethod: core.CreditCard},
	}

	sum := Summarize(expenses)
	if !approx(sum.Total, 105.50) {
		t.Fatalf("total: got %v, want 105.50", sum.Total)
	}
	if sum.Count != 2 {
		t.Fatalf("count: got %d, want 2", sum.Count)
	}
	if !approx(sum.Average, 52.75) {
		t.Fatalf("average: got %v, want 52.75", sum.Average)
	}
	if !approx(sum.CategoryBreakdown["Food"], 45.50) || !approx(sum.CategoryBreakdown["Transportation"], 60.00) {
		t.Fatalf("category breakdown: got %v", sum.CategoryBreakdown)
	}
	if !approx(sum.MonthlyTrend["2025-06"], 45.50) || !approx(sum.MonthlyTrend["2025-07"], 60.00) {
		t.Fatalf("monthly trend: got %v", sum.MonthlyTrend)
	}
	if !approx(sum.PaymentMethodBreakdown[core.Cash], 45.50) {
		t.Fatalf("payment breakdown: got %v", sum.PaymentMethodBreakdown)
	}
}

func TestSummarizeGroupsByCalendarMonth(t *testing.T) {
	expenses := []core.Expense{
		{Amount: 10, Category: "Misc", Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{Amount: 20, Category: "Misc", Date: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)},
	}
	sum := Summarize(expenses)
	if len(sum.MonthlyTrend) != 1 {
		t.Fatalf("expected a single month bucket, got %v", sum.MonthlyTrend)
	}
	if !approx(sum.MonthlyTrend["2025-06"], 30) {
		t.Fatalf("month bucket: got %v", sum.MonthlyTrend["2025-06"])
	}
}

func TestStoreSummaryHonorsFilter(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.Create(ctx, NewExpense{Description: "x", Amount: 10, Category: "Food"})
	s.Create(ctx, NewExpense{Description: "y", Amount: 15, Category: "Food"})
	s.Create(ctx, NewExpense{Description: "z", Amount: 99, Category: "Transportation"})

	sum := s.Summary(Filter{Category: "Food"})
	if sum.Count != 2 || !approx(sum.Total, 25) {
		t.Fatalf("filtered summary: got count=%d total=%v", sum.Count, sum.Total)
	}
}
