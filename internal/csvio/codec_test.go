package csvio

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/storage"
)

func newLedger(t *testing.T) *ledger.Store {
	t.Helper()
	return ledger.New(context.Background(), storage.NewMemoryStore(), nil)
}

func TestExportHeaderAndQuoting(t *testing.T) {
	expenses := []core.Expense{{
		ID:            "id-1",
		Description:   `say "hi"`,
		Amount:        12.5,
		Category:      "Misc",
		Date:          time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC),
		PaymentMethod: core.Cash,
		Tags:          []string{"a", "b"},
	}}

	doc := Export(expenses)
	lines := strings.Split(strings.TrimRight(doc, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if lines[0] != `"id","description","amount","category","date","payment_method","tags"` {
		t.Fatalf("header: got %q", lines[0])
	}
	if lines[1] != `"id-1","say ""hi""","12.50","Misc","2025-06-15","cash","a;b"` {
		t.Fatalf("row: got %q", lines[1])
	}
}

func TestSplitLineDecodesDoubledQuotes(t *testing.T) {
	fields := splitLine(`"say ""hi""","plain","a, with comma"`)
	want := []string{`say "hi"`, "plain", "a, with comma"}
	if len(fields) != len(want) {
		t.Fatalf("field count: got %d, want %d", len(fields), len(want))
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Fatalf("field %d: got %q, want %q", i, fields[i], want[i])
		}
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := newLedger(t)
	source.Create(ctx, ledger.NewExpense{
		Description:   `quoted "desc"`,
		Amount:        45.50,
		Category:      "Food",
		Date:          time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		PaymentMethod: core.CreditCard,
		Tags:          []string{"work", "lunch"},
	})
	source.Create(ctx, ledger.NewExpense{
		Description: "bus ticket, return",
		Amount:      3.20,
		Category:    "Transportation",
		Date:        time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
	})

	doc := Export(source.List())

	dest := newLedger(t)
	result, err := Import(ctx, dest, doc)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Imported != 2 || len(result.Skipped) != 0 {
		t.Fatalf("import result: %+v", result)
	}

	got := dest.List()
	origin := source.List()
	if len(got) != len(origin) {
		t.Fatalf("record count after round trip: got %d, want %d", len(got), len(origin))
	}
	for i := range got {
		if got[i].ID == origin[i].ID {
			t.Fatalf("imported record %d must get a fresh id", i)
		}
		if got[i].Description != origin[i].Description {
			t.Fatalf("description %d: got %q, want %q", i, got[i].Description, origin[i].Description)
		}
		if got[i].Amount != origin[i].Amount {
			t.Fatalf("amount %d: got %v, want %v", i, got[i].Amount, origin[i].Amount)
		}
		if got[i].Category != origin[i].Category {
			t.Fatalf("category %d: got %q, want %q", i, got[i].Category, origin[i].Category)
		}
		if !got[i].Date.Equal(origin[i].Date) {
			t.Fatalf("date %d: got %v, want %v", i, got[i].Date, origin[i].Date)
		}
		if got[i].PaymentMethod != origin[i].PaymentMethod {
			t.Fatalf("payment method %d: got %q, want %q", i, got[i].PaymentMethod, origin[i].PaymentMethod)
		}
		if strings.Join(got[i].Tags, ";") != strings.Join(origin[i].Tags, ";") {
			t.Fatalf("tags %d: got %v, want %v", i, got[i].Tags, origin[i].Tags)
		}
	}
}

func TestImportRejectsHeaderOnlyDocument(t *testing.T) {
	_, err := Import(context.Background(), newLedger(t), `"id","description"`)
	if !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
	if _, err := Import(context.Background(), newLedger(t), ""); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("empty document: expected ErrInvalidDocument, got %v", err)
	}
}

func TestImportSkipsRowsWithWrongFieldCount(t *testing.T) {
	doc := strings.Join([]string{
		`"id","description","amount","category","date","payment_method","tags"`,
		`"1","ok","10.00","Food","2025-06-15","cash",""`,
		`"2","short row","10.00"`,
	}, "\n")

	store := newLedger(t)
	result, err := Import(context.Background(), store, doc)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Imported != 1 {
		t.Fatalf("imported: got %d, want 1", result.Imported)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Line != 3 {
		t.Fatalf("skipped: got %+v", result.Skipped)
	}
	if got := len(store.List()); got != 1 {
		t.Fatalf("store holds %d records, want 1", got)
	}
}

func TestImportFieldDefaults(t *testing.T) {
	doc := strings.Join([]string{
		`"id","description","amount","category","date","payment_method","tags"`,
		`"1","defaults","not-a-number","","bad-date","carrier pigeon",""`,
	}, "\n")

	store := newLedger(t)
	result, err := Import(context.Background(), store, doc)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Imported != 1 {
		t.Fatalf("imported: got %d, want 1", result.Imported)
	}

	e := store.List()[0]
	if e.Amount != 0 {
		t.Fatalf("bad amount must default to 0, got %v", e.Amount)
	}
	if e.Category != core.DefaultCategory {
		t.Fatalf("blank category must default to %q, got %q", core.DefaultCategory, e.Category)
	}
	if e.PaymentMethod != core.Other {
		t.Fatalf("unknown payment method must default to %q, got %q", core.Other, e.PaymentMethod)
	}
	if e.Date.IsZero() {
		t.Fatal("unparsable date must be replaced with the current timestamp on create")
	}
}

func TestImportAcceptsWindowsLineEndings(t *testing.T) {
	doc := `"id","description","amount","category","date","payment_method","tags"` + "\r\n" +
		`"1","crlf","5.00","Misc","2025-06-15","cash",""` + "\r\n"

	store := newLedger(t)
	result, err := Import(context.Background(), store, doc)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Imported != 1 {
		t.Fatalf("imported: got %d, want 1", result.Imported)
	}
}

func TestParseTags(t *testing.T) {
	if got := parseTags("a;b; c ;"); len(got) != 3 || got[2] != "c" {
		t.Fatalf("parseTags: got %v", got)
	}
	if got := parseTags("  "); got != nil {
		t.Fatalf("blank tag list must be nil, got %v", got)
	}
}
