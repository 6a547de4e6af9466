package ledger

import (
	"testing"
	"time"

	"fintrack/internal/core"
)

func ptr[T any](v T) *T { return &v }

func TestFilterEmptyMatchesAll(t *testing.T) {
	e := core.Expense{Category: "Food", Amount: 5, Date: time.Now(), PaymentMethod: core.Cash}
	if !(Filter{}).Matches(e) {
		t.Fatal("empty filter must match every record")
	}
}

func TestFilterPredicatesAreANDCombined(t *testing.T) {
	record := core.Expense{
		Category:      "Food",
		Amount:        12,
		Date:          time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		PaymentMethod: core.CreditCard,
		Tags:          []string{"work", "lunch"},
	}

	base := Filter{Category: "Food", MinAmount: ptr(10.0)}
	if !base.Matches(record) {
		t.Fatal("record should satisfy both predicates")
	}

	// Changing either predicate to exclude the record must exclude it.
	byCategory := base
	byCategory.Category = "Transportation"
	if byCategory.Matches(record) {
		t.Fatal("category mismatch must exclude the record")
	}
	byAmount := base
	byAmount.MinAmount = ptr(20.0)
	if byAmount.Matches(record) {
		t.Fatal("amount bound must exclude the record")
	}
}

func TestFilterDateBoundsInclusive(t *testing.T) {
	day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	e := core.Expense{Category: "Misc", Date: day}

	if !(Filter{DateFrom: ptr(day)}).Matches(e) {
		t.Fatal("dateFrom is inclusive")
	}
	if !(Filter{DateTo: ptr(day)}).Matches(e) {
		t.Fatal("dateTo is inclusive")
	}
	if (Filter{DateFrom: ptr(day.AddDate(0, 0, 1))}).Matches(e) {
		t.Fatal("record before dateFrom must not match")
	}
	if (Filter{DateTo: ptr(day.AddDate(0, 0, -1))}).Matches(e) {
		t.Fatal("record after dateTo must not match")
	}
}

func TestFilterAmountBoundsInclusive(t *testing.T) {
	e := core.Expense{Amount: 10}
	if !(Filter{MinAmount: ptr(10.0), MaxAmount: ptr(10.0)}).Matches(e) {
		t.Fatal("amount bounds are inclusive")
	}
	if (Filter{MaxAmount: ptr(9.99)}).Matches(e) {
		t.Fatal("amount above maxAmount must not match")
	}
}

func TestFilterTagSupersetSemantics(t *testing.T) {
	e := core.Expense{Tags: []string{"a", "b", "c"}}

	if !(Filter{Tags: []string{"a", "b"}}).Matches(e) {
		t.Fatal("record carrying a superset of the filter tags must match")
	}
	if (Filter{Tags: []string{"a", "d"}}).Matches(e) {
		t.Fatal("record missing a filter tag must not match")
	}
	if !(Filter{Tags: []string{}}).Matches(e) {
		t.Fatal("empty tag list matches everything")
	}
}

func TestFilterPaymentMethod(t *testing.T) {
	e := core.Expense{PaymentMethod: core.Cash}
	if !(Filter{PaymentMethod: core.Cash}).Matches(e) {
		t.Fatal("matching payment method")
	}
	if (Filter{PaymentMethod: core.CreditCard}).Matches(e) {
		t.Fatal("different payment method must not match")
	}
}
