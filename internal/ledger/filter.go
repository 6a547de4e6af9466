package ledger

import (
	"time"

	"fintrack/internal/core"
)

// Filter is a set of optional predicates, AND-combined. The zero value
// matches every record.
type Filter struct {
	DateFrom      *time.Time
	DateTo        *time.Time
	Category      string
	MinAmount     *float64
	MaxAmount     *float64
	PaymentMethod core.PaymentMethod
	Tags          []string
}

// Matches reports whether the record satisfies every supplied predicate.
// Date and amount bounds are inclusive. The tag predicate uses superset
// semantics: the record must carry every tag listed in the filter.
func (f Filter) Matches(e core.Expense) bool {
	if f.DateFrom != nil && e.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && e.Date.After(*f.DateTo) {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.MinAmount != nil && e.Amount < *f.MinAmount {
		return false
	}
	if f.MaxAmount != nil && e.Amount > *f.MaxAmount {
		return false
	}
	if f.PaymentMethod != "" && e.PaymentMethod != f.PaymentMethod {
		return false
	}
	for _, want := range f.Tags {
		found := false
		for _, have := range e.Tags {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Find returns defensive copies of all records matching the filter,
// insertion order preserved.
func (s *Store) Find(f Filter) []core.Expense {
	var out []core.Expense
	for _, e := range s.expenses {
		if f.Matches(e) {
			out = append(out, e.Clone())
		}
	}
	return out
}
