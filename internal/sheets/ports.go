package sheets

import (
	"context"

	"fintrack/internal/core"
)

// Exporter pushes a batch of expenses to an external spreadsheet.
// Returns the number of rows written.
type Exporter interface {
	ExportExpenses(ctx context.Context, expenses []core.Expense) (int, error)
}
