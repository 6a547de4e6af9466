// Package ledger owns the in-memory expense and budget collections and
// every derived view over them. Callers hold an explicit *Store handle;
// there is no shared singleton.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/alert"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// DefaultAlertThreshold is the percentage of the monthly limit at which
// a budget warning is raised when the caller does not choose one.
const DefaultAlertThreshold = 80.0

// NewExpense is the input to Create: an expense without identity.
type NewExpense struct {
	Description   string
	Amount        float64
	Category      string
	Date          time.Time
	PaymentMethod core.PaymentMethod
	Tags          []string
	Recurring     *core.RecurrenceRule
}

// ExpensePatch is a partial update. Nil fields are preserved from the
// existing record.
type ExpensePatch struct {
	Description   *string
	Amount        *float64
	Category      *string
	Date          *time.Time
	PaymentMethod *core.PaymentMethod
	Tags          []string
	Recurring     *core.RecurrenceRule
}

// Store owns the ledger state. It is single-threaded: one exclusive
// process, no locking, full snapshot rewrite on every mutation.
type Store struct {
	backend  storage.Backend
	notifier alert.Notifier
	now      func() time.Time

	expenses []core.Expense
	index    map[string]int // expense id -> position in expenses

	budgets     map[string]core.Budget // keyed by category
	budgetOrder []string
}

// New restores a store from the backend. A load failure resets the state
// to empty rather than propagating: the data file is treated as
// recoverable, and the next save rewrites it.
func New(ctx context.Context, backend storage.Backend, notifier alert.Notifier) *Store {
	s := &Store{
		backend:  backend,
		notifier: notifier,
		now:      time.Now,
		index:    make(map[string]int),
		budgets:  make(map[string]core.Budget),
	}
	if notifier == nil {
		s.notifier = alert.LogNotifier{}
	}

	snap, err := backend.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load ledger state, starting empty", "error", err)
		return s
	}
	for _, e := range snap.Expenses {
		s.index[e.ID] = len(s.expenses)
		s.expenses = append(s.expenses, e)
	}
	for _, b := range snap.Budgets {
		if _, ok := s.budgets[b.Category]; !ok {
			s.budgetOrder = append(s.budgetOrder, b.Category)
		}
		s.budgets[b.Category] = b
	}
	return s
}

// Create assigns a fresh id, normalizes the date, appends the record,
// persists and runs the budget-alert check for the record's category.
func (s *Store) Create(ctx context.Context, in NewExpense) core.Expense {
	e := core.Expense{
		ID:            uuid.NewString(),
		Description:   in.Description,
		Amount:        in.Amount,
		Category:      in.Category,
		Date:          s.normalizeDate(in.Date),
		PaymentMethod: in.PaymentMethod,
		Tags:          append([]string(nil), in.Tags...),
		Recurring:     in.Recurring,
	}
	if !e.PaymentMethod.IsValid() {
		e.PaymentMethod = core.Other
	}

	s.index[e.ID] = len(s.expenses)
	s.expenses = append(s.expenses, e)
	s.persist(ctx)
	s.checkBudgetAlert(ctx, e.Category)
	return e.Clone()
}

// Update merges the patch over the record with the given id. The second
// return value is false when no such record exists; the collection is
// left untouched in that case.
func (s *Store) Update(ctx context.Context, id string, patch ExpensePatch) (core.Expense, bool) {
	pos, ok := s.index[id]
	if !ok {
		return core.Expense{}, false
	}
	e := &s.expenses[pos]

	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.Amount != nil {
		e.Amount = *patch.Amount
	}
	if patch.Category != nil {
		e.Category = *patch.Category
	}
	if patch.Date != nil {
		e.Date = s.normalizeDate(*patch.Date)
	}
	if patch.PaymentMethod != nil && patch.PaymentMethod.IsValid() {
		e.PaymentMethod = *patch.PaymentMethod
	}
	if patch.Tags != nil {
		e.Tags = append([]string(nil), patch.Tags...)
	}
	if patch.Recurring != nil {
		rule := *patch.Recurring
		e.Recurring = &rule
	}

	s.persist(ctx)
	return e.Clone(), true
}

// Delete removes the record with the given id and reports whether one
// was found.
func (s *Store) Delete(ctx context.Context, id string) bool {
	pos, ok := s.index[id]
	if !ok {
		return false
	}
	s.expenses = append(s.expenses[:pos], s.expenses[pos+1:]...)
	delete(s.index, id)
	for i := pos; i < len(s.expenses); i++ {
		s.index[s.expenses[i].ID] = i
	}
	s.persist(ctx)
	return true
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (core.Expense, bool) {
	pos, ok := s.index[id]
	if !ok {
		return core.Expense{}, false
	}
	return s.expenses[pos].Clone(), true
}

// List returns a defensive copy of all records in insertion order.
func (s *Store) List() []core.Expense {
	out := make([]core.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		out = append(out, e.Clone())
	}
	return out
}

// SetBudget replaces the budget for the category, recomputes the current
// spend and persists. At most one budget exists per category.
func (s *Store) SetBudget(ctx context.Context, category string, monthlyLimit, alertThreshold float64) (core.Budget, error) {
	b := core.Budget{
		Category:       category,
		MonthlyLimit:   monthlyLimit,
		AlertThreshold: alertThreshold,
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	b.CurrentSpent = s.currentMonthSpent(category, s.now())

	if _, ok := s.budgets[category]; !ok {
		s.budgetOrder = append(s.budgetOrder, category)
	}
	s.budgets[category] = b
	s.persist(ctx)
	return b, nil
}

// GetBudget returns the budget for the category with a fresh spend figure.
func (s *Store) GetBudget(category string) (core.Budget, bool) {
	b, ok := s.budgets[category]
	if !ok {
		return core.Budget{}, false
	}
	b.CurrentSpent = s.currentMonthSpent(category, s.now())
	return b, true
}

// ListBudgets returns every budget, recomputing the current spend for
// each entry. Cached spend figures are never trusted.
func (s *Store) ListBudgets() []core.Budget {
	now := s.now()
	out := make([]core.Budget, 0, len(s.budgets))
	for _, category := range s.budgetOrder {
		b := s.budgets[category]
		b.CurrentSpent = s.currentMonthSpent(category, now)
		out = append(out, b)
	}
	return out
}

// normalizeDate replaces a missing date with the wall clock.
func (s *Store) normalizeDate(t time.Time) time.Time {
	if t.IsZero() {
		return s.now()
	}
	return t
}

// persist rewrites the full snapshot. A save failure leaves memory ahead
// of disk; it is reported but the mutation is not rolled back.
func (s *Store) persist(ctx context.Context) {
	snap := storage.Snapshot{
		Expenses:    s.expenses,
		Budgets:     make([]core.Budget, 0, len(s.budgets)),
		LastUpdated: s.now(),
	}
	for _, category := range s.budgetOrder {
		snap.Budgets = append(snap.Budgets, s.budgets[category])
	}
	if err := s.backend.Save(ctx, snap); err != nil {
		slog.ErrorContext(ctx, "Failed to persist ledger state", "error", err)
	}
}

// checkBudgetAlert emits a notification when the category's current-month
// spend sits at or above the budget's alert threshold.
func (s *Store) checkBudgetAlert(ctx context.Context, category string) {
	b, ok := s.budgets[category]
	if !ok || b.MonthlyLimit <= 0 {
		return
	}
	spent := s.currentMonthSpent(category, s.now())
	pct := spent / b.MonthlyLimit * 100
	if pct < b.AlertThreshold {
		return
	}
	s.notifier.Notify(ctx, alert.BudgetAlert{
		Category: category,
		Spent:    spent,
		Limit:    b.MonthlyLimit,
		Percent:  pct,
		At:       s.now(),
	})
}
