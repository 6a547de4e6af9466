package csvio

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// ErrInvalidDocument rejects a CSV document that cannot contain data:
// fewer than two lines (header plus at least one row).
var ErrInvalidDocument = errors.New("csv document must contain a header and at least one data row")

// RowError describes a data row that was dropped during import.
type RowError struct {
	Line   int // 1-based line number within the document
	Reason string
}

// ImportResult reports how an import went. Skipped rows are excluded
// from the imported count.
type ImportResult struct {
	Imported int
	Skipped  []RowError
}

// Import parses the document and submits each well-shaped row through
// the store's create primitive, so imported rows receive fresh ids and
// participate in budget-alert checking.
//
// Rows whose field count does not match the header are skipped with a
// warning; the header's contents are not validated, only its width.
// Field parsing is total: a bad date defaults to the current timestamp,
// a bad amount to 0, an unknown payment method to "other" and a blank
// category to "Other".
func Import(ctx context.Context, store *ledger.Store, document string) (ImportResult, error) {
	lines := strings.Split(strings.ReplaceAll(document, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) < 2 {
		return ImportResult{}, ErrInvalidDocument
	}

	header := splitLine(lines[0])
	want := len(header)

	var result ImportResult
	for i, line := range lines[1:] {
		lineNo := i + 2
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitLine(line)
		if len(fields) != want {
			reason := "field count mismatch"
			slog.WarnContext(ctx, "Skipping malformed CSV row",
				"line", lineNo,
				"fields", len(fields),
				"expected", want)
			result.Skipped = append(result.Skipped, RowError{Line: lineNo, Reason: reason})
			continue
		}
		store.Create(ctx, rowToExpense(fields))
		result.Imported++
	}

	slog.InfoContext(ctx, "CSV import complete",
		"imported", result.Imported,
		"skipped", len(result.Skipped))

	return result, nil
}

// rowToExpense maps a row's fields onto a creation input by position.
// The id column is read but discarded: imported rows get fresh ids.
func rowToExpense(fields []string) ledger.NewExpense {
	amount, err := core.ParseAmount(fieldAt(fields, 2))
	if err != nil {
		amount = 0
	}
	category := strings.TrimSpace(fieldAt(fields, 3))
	if category == "" {
		category = core.DefaultCategory
	}
	return ledger.NewExpense{
		Description:   fieldAt(fields, 1),
		Amount:        amount,
		Category:      category,
		Date:          parseDate(fieldAt(fields, 4)),
		PaymentMethod: core.ParsePaymentMethod(fieldAt(fields, 5)),
		Tags:          parseTags(fieldAt(fields, 6)),
	}
}
