package storage

import (
	"fmt"
	"time"

	"fintrack/internal/core"
)

// Wire representation of the persisted JSON document. All date-bearing
// fields travel as RFC 3339 strings and are re-parsed on load; the
// ledger never sees raw date strings.
type (
	wireDocument struct {
		Expenses    []wireExpense `json:"expenses"`
		Budgets     []wireBudget  `json:"budgets"`
		LastUpdated string        `json:"lastUpdated"`
	}

	wireExpense struct {
		ID            string          `json:"id"`
		Description   string          `json:"description"`
		Amount        float64         `json:"amount"`
		Category      string          `json:"category"`
		Date          string          `json:"date"`
		PaymentMethod string          `json:"paymentMethod"`
		Tags          []string        `json:"tags"`
		Recurring     *wireRecurrence `json:"recurring,omitempty"`
	}

	wireRecurrence struct {
		Frequency string `json:"frequency"`
		NextDue   string `json:"nextDue"`
		EndDate   string `json:"endDate,omitempty"`
	}

	wireBudget struct {
		Category       string  `json:"category"`
		MonthlyLimit   float64 `json:"monthlyLimit"`
		AlertThreshold float64 `json:"alertThreshold"`
	}
)

func toWire(snap Snapshot) wireDocument {
	doc := wireDocument{
		Expenses:    make([]wireExpense, 0, len(snap.Expenses)),
		Budgets:     make([]wireBudget, 0, len(snap.Budgets)),
		LastUpdated: snap.LastUpdated.Format(time.RFC3339),
	}
	for _, e := range snap.Expenses {
		we := wireExpense{
			ID:            e.ID,
			Description:   e.Description,
			Amount:        e.Amount,
			Category:      e.Category,
			Date:          e.Date.Format(time.RFC3339),
			PaymentMethod: string(e.PaymentMethod),
			Tags:          e.Tags,
		}
		if e.Recurring != nil {
			wr := &wireRecurrence{
				Frequency: string(e.Recurring.Frequency),
				NextDue:   e.Recurring.NextDue.Format(time.RFC3339),
			}
			if e.Recurring.EndDate != nil {
				wr.EndDate = e.Recurring.EndDate.Format(time.RFC3339)
			}
			we.Recurring = wr
		}
		doc.Expenses = append(doc.Expenses, we)
	}
	for _, b := range snap.Budgets {
		doc.Budgets = append(doc.Budgets, wireBudget{
			Category:       b.Category,
			MonthlyLimit:   b.MonthlyLimit,
			AlertThreshold: b.AlertThreshold,
		})
	}
	return doc
}

func fromWire(doc wireDocument) (Snapshot, error) {
	snap := Snapshot{
		Expenses: make([]core.Expense, 0, len(doc.Expenses)),
		Budgets:  make([]core.Budget, 0, len(doc.Budgets)),
	}
	if doc.LastUpdated != "" {
		t, err := time.Parse(time.RFC3339, doc.LastUpdated)
		if err != nil {
			return Snapshot{}, fmt.Errorf("parse lastUpdated: %w", err)
		}
		snap.LastUpdated = t
	}
	for _, we := range doc.Expenses {
		date, err := time.Parse(time.RFC3339, we.Date)
		if err != nil {
			return Snapshot{}, fmt.Errorf("parse date for expense %s: %w", we.ID, err)
		}
		e := core.Expense{
			ID:            we.ID,
			Description:   we.Description,
			Amount:        we.Amount,
			Category:      we.Category,
			Date:          date,
			PaymentMethod: core.ParsePaymentMethod(we.PaymentMethod),
			Tags:          we.Tags,
		}
		if we.Recurring != nil {
			nextDue, err := time.Parse(time.RFC3339, we.Recurring.NextDue)
			if err != nil {
				return Snapshot{}, fmt.Errorf("parse nextDue for expense %s: %w", we.ID, err)
			}
			rule := &core.RecurrenceRule{
				Frequency: core.Frequency(we.Recurring.Frequency),
				NextDue:   nextDue,
			}
			if we.Recurring.EndDate != "" {
				end, err := time.Parse(time.RFC3339, we.Recurring.EndDate)
				if err != nil {
					return Snapshot{}, fmt.Errorf("parse endDate for expense %s: %w", we.ID, err)
				}
				rule.EndDate = &end
			}
			e.Recurring = rule
		}
		snap.Expenses = append(snap.Expenses, e)
	}
	for _, wb := range doc.Budgets {
		snap.Budgets = append(snap.Budgets, core.Budget{
			Category:       wb.Category,
			MonthlyLimit:   wb.MonthlyLimit,
			AlertThreshold: wb.AlertThreshold,
		})
	}
	return snap, nil
}
