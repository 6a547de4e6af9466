package ledger

import (
	"time"

	"fintrack/internal/core"
)

// Summary aggregates a record collection: grand totals plus three
// breakdown groupings. Map iteration order carries no meaning.
type Summary struct {
	Total                  float64
	Count                  int
	Average                float64
	CategoryBreakdown      map[string]float64
	MonthlyTrend           map[string]float64
	PaymentMethodBreakdown map[core.PaymentMethod]float64
}

// Summarize computes all aggregates in a single linear pass.
// Average is defined as 0 for an empty collection.
func Summarize(expenses []core.Expense) Summary {
	sum := Summary{
		CategoryBreakdown:      make(map[string]float64),
		MonthlyTrend:           make(map[string]float64),
		PaymentMethodBreakdown: make(map[core.PaymentMethod]float64),
	}
	for _, e := range expenses {
		sum.Total += e.Amount
		sum.Count++
		sum.CategoryBreakdown[e.Category] += e.Amount
		sum.MonthlyTrend[e.Date.Format("2006-01")] += e.Amount
		sum.PaymentMethodBreakdown[e.PaymentMethod] += e.Amount
	}
	if sum.Count > 0 {
		sum.Average = sum.Total / float64(sum.Count)
	}
	return sum
}

// Summary aggregates the records matching the filter.
func (s *Store) Summary(f Filter) Summary {
	var matched []core.Expense
	for _, e := range s.expenses {
		if f.Matches(e) {
			matched = append(matched, e)
		}
	}
	return Summarize(matched)
}

// currentMonthSpent sums the category's expenses dated within the current
// calendar month, both endpoints inclusive, using the wall-clock date.
func (s *Store) currentMonthSpent(category string, now time.Time) float64 {
	var total float64
	for _, e := range s.expenses {
		if e.Category != category {
			continue
		}
		if e.Date.Year() == now.Year() && e.Date.Month() == now.Month() {
			total += e.Amount
		}
	}
	return total
}
