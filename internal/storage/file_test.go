package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"
)

func sampleSnapshot() Snapshot {
	end := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return Snapshot{
		Expenses: []core.Expense{
			{
				ID:            "e-1",
				Description:   "groceries",
				Amount:        45.50,
				Category:      "Food",
				Date:          time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
				PaymentMethod: core.Cash,
				Tags:          []string{"weekly", "market"},
			},
			{
				ID:            "e-2",
				Description:   "rent",
				Amount:        900,
				Category:      "Housing",
				Date:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
				PaymentMethod: core.BankTransfer,
				Recurring: &core.RecurrenceRule{
					Frequency: core.Monthly,
					NextDue:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
					EndDate:   &end,
				},
			},
		},
		Budgets: []core.Budget{
			{Category: "Food", MonthlyLimit: 400, AlertThreshold: 80},
		},
		LastUpdated: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "ledger.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	ctx := context.Background()
	want := sampleSnapshot()
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Expenses) != 2 || len(got.Budgets) != 1 {
		t.Fatalf("snapshot shape: got %d expenses, %d budgets", len(got.Expenses), len(got.Budgets))
	}

	first := got.Expenses[0]
	if first.ID != "e-1" || first.Amount != 45.50 || len(first.Tags) != 2 {
		t.Fatalf("first expense: got %+v", first)
	}
	if first.Recurring != nil {
		t.Fatal("non-recurring expense must load without a rule")
	}

	second := got.Expenses[1]
	if second.Recurring == nil {
		t.Fatal("recurring rule lost in round trip")
	}
	if second.Recurring.Frequency != core.Monthly {
		t.Fatalf("frequency: got %q", second.Recurring.Frequency)
	}
	if !second.Recurring.NextDue.Equal(want.Expenses[1].Recurring.NextDue) {
		t.Fatalf("nextDue: got %v", second.Recurring.NextDue)
	}
	if second.Recurring.EndDate == nil || !second.Recurring.EndDate.Equal(*want.Expenses[1].Recurring.EndDate) {
		t.Fatalf("endDate: got %v", second.Recurring.EndDate)
	}

	if got.Budgets[0] != want.Budgets[0] {
		t.Fatalf("budget: got %+v, want %+v", got.Budgets[0], want.Budgets[0])
	}
	if !got.LastUpdated.Equal(want.LastUpdated) {
		t.Fatalf("lastUpdated: got %v, want %v", got.LastUpdated, want.LastUpdated)
	}
}

func TestFileStoreMissingFileYieldsEmptySnapshot(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	snap, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load on a missing file must not fail, got %v", err)
	}
	if len(snap.Expenses) != 0 || len(snap.Budgets) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatal("expected a decode error for a corrupt file")
	}
}

func TestFileStoreSaveStampsLastUpdated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	snap := sampleSnapshot()
	snap.LastUpdated = time.Time{}
	if err := store.Save(context.Background(), snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.LastUpdated.IsZero() {
		t.Fatal("save must stamp lastUpdated when the caller leaves it zero")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read data file: %v", err)
	}
	if !strings.Contains(string(raw), `"lastUpdated"`) {
		t.Fatal("document missing lastUpdated field")
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	snap, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Expenses) != 2 || len(snap.Budgets) != 1 {
		t.Fatalf("snapshot shape: got %+v", snap)
	}
}
