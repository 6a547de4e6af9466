package storage

import (
	"context"
	"time"

	"fintrack/internal/core"
)

// Snapshot is the full persisted state: every expense, every budget and
// the time of the last mutation. The ledger rewrites the whole snapshot
// on each mutating operation; there is no incremental persistence.
type Snapshot struct {
	Expenses    []core.Expense
	Budgets     []core.Budget
	LastUpdated time.Time
}

// Backend persists and restores ledger snapshots.
type Backend interface {
	// Load restores the last saved snapshot. A backend with no prior
	// state returns an empty snapshot and no error.
	Load(ctx context.Context) (Snapshot, error)
	// Save replaces the persisted state with the given snapshot.
	Save(ctx context.Context, snap Snapshot) error
}

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error
