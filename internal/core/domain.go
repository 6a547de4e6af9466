package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

const (
	Cash          PaymentMethod = "cash"
	CreditCard    PaymentMethod = "credit_card"
	DebitCard     PaymentMethod = "debit_card"
	BankTransfer  PaymentMethod = "bank_transfer"
	DigitalWallet PaymentMethod = "digital_wallet"
	Other         PaymentMethod = "other"
)

// DefaultCategory is assigned when an imported row carries no category.
const DefaultCategory = "Other"

type (
	// Frequency is the cadence of a recurring expense.
	Frequency string

	// PaymentMethod is the fixed set of supported payment instruments.
	PaymentMethod string

	// Expense is a single ledger entry. ID is assigned by the store at
	// creation time and never reassigned. Amount may be negative: refunds
	// and adjustments are recorded as negative entries and flow into
	// every aggregate unchanged.
	Expense struct {
		ID            string
		Description   string
		Amount        float64
		Category      string
		Date          time.Time
		PaymentMethod PaymentMethod
		Tags          []string
		Recurring     *RecurrenceRule
	}

	// RecurrenceRule is attached to an expense that acts as a template
	// for future instances. NextDue is the date the next instance should
	// be generated; EndDate, when set, is the inclusive cutoff.
	RecurrenceRule struct {
		Frequency Frequency
		NextDue   time.Time
		EndDate   *time.Time
	}

	// Budget is a per-category monthly ceiling. CurrentSpent is derived
	// from the expense collection and recomputed on demand, never trusted
	// from a stale copy.
	Budget struct {
		Category       string
		MonthlyLimit   float64
		CurrentSpent   float64
		AlertThreshold float64
	}
)

var (
	ErrInvalidLimit     = errors.New("monthly limit must be positive")
	ErrInvalidThreshold = errors.New("alert threshold must be between 0 and 100")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidNextDue   = errors.New("next due date cannot be zero")
)

// IsValid reports whether f is one of the supported frequencies.
func (f Frequency) IsValid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	default:
		return false
	}
}

// Advance returns the date one period after t for the frequency.
// Monthly and yearly use calendar arithmetic; overflowing a short month
// normalizes forward (Jan 31 + one month lands in early March), which is
// applied consistently on every advancement.
func (f Frequency) Advance(t time.Time) time.Time {
	switch f {
	case Daily:
		return t.AddDate(0, 0, 1)
	case Weekly:
		return t.AddDate(0, 0, 7)
	case Monthly:
		return t.AddDate(0, 1, 0)
	case Yearly:
		return t.AddDate(1, 0, 0)
	default:
		return t
	}
}

// IsValid reports whether m is one of the supported payment methods.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case Cash, CreditCard, DebitCard, BankTransfer, DigitalWallet, Other:
		return true
	default:
		return false
	}
}

// ParsePaymentMethod maps free text onto the payment method set.
// Unknown or blank input falls back to Other.
func ParsePaymentMethod(s string) PaymentMethod {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	if m.IsValid() {
		return m
	}
	return Other
}

func (r RecurrenceRule) Validate() error {
	if !r.Frequency.IsValid() {
		return ErrInvalidFrequency
	}
	if r.NextDue.IsZero() {
		return ErrInvalidNextDue
	}
	return nil
}

func (b Budget) Validate() error {
	if b.MonthlyLimit <= 0 {
		return ErrInvalidLimit
	}
	if b.AlertThreshold < 0 || b.AlertThreshold > 100 {
		return ErrInvalidThreshold
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate stored state
// through shared tag slices or recurrence rules.
func (e Expense) Clone() Expense {
	out := e
	if e.Tags != nil {
		out.Tags = append([]string(nil), e.Tags...)
	}
	if e.Recurring != nil {
		rule := *e.Recurring
		if e.Recurring.EndDate != nil {
			end := *e.Recurring.EndDate
			rule.EndDate = &end
		}
		out.Recurring = &rule
	}
	return out
}

// SameDayOrBefore reports whether a falls on the same calendar day as b
// or earlier, ignoring time of day.
func SameDayOrBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad <= bd
}
