package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// RecurringMarkerTag is added to every generated instance so recurring
// spending can be filtered and audited separately.
const RecurringMarkerTag = "auto-recurring"

// recurringSuffix marks the description of a generated instance.
const recurringSuffix = " (recurring)"

// RecurringProcessor expands due recurrence templates into concrete
// ledger entries. It runs only when explicitly invoked (CLI command or
// scheduler); mutations never trigger it.
type RecurringProcessor struct {
	store *ledger.Store
}

func NewRecurringProcessor(store *ledger.Store) *RecurringProcessor {
	return &RecurringProcessor{store: store}
}

// ProcessDue walks every expense carrying a recurrence template and, for
// each due one, creates the next instance and advances the template.
// A template is due when nextDue falls on or before today's date and the
// end date (when set) has not passed. Because the origin's nextDue is
// advanced in place, running twice in the same day generates nothing on
// the second pass.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	expenses := p.store.List()
	processed := 0

	for _, origin := range expenses {
		rule := origin.Recurring
		if rule == nil {
			continue
		}
		if !isDue(*rule, now) {
			continue
		}

		next := rule.Frequency.Advance(rule.NextDue)

		tags := make([]string, 0, len(origin.Tags)+1)
		tags = append(tags, origin.Tags...)
		tags = append(tags, RecurringMarkerTag)

		instance := p.store.Create(ctx, ledger.NewExpense{
			Description:   origin.Description + recurringSuffix,
			Amount:        origin.Amount,
			Category:      origin.Category,
			Date:          rule.NextDue,
			PaymentMethod: origin.PaymentMethod,
			Tags:          tags,
			Recurring: &core.RecurrenceRule{
				Frequency: rule.Frequency,
				NextDue:   next,
				EndDate:   rule.EndDate,
			},
		})

		// Advance the origin template so repeated invocations do not
		// regenerate the same instance.
		advanced := core.RecurrenceRule{
			Frequency: rule.Frequency,
			NextDue:   next,
			EndDate:   rule.EndDate,
		}
		if _, ok := p.store.Update(ctx, origin.ID, ledger.ExpensePatch{Recurring: &advanced}); !ok {
			slog.ErrorContext(ctx, "Recurring origin vanished during processing",
				"origin_id", origin.ID)
			continue
		}

		processed++
		slog.InfoContext(ctx, "Created expense from recurring template",
			"origin_id", origin.ID,
			"instance_id", instance.ID,
			"description", instance.Description,
			"amount", instance.Amount,
			"frequency", rule.Frequency,
			"next_due", next.Format("2006-01-02"))
	}

	slog.InfoContext(ctx, "Recurring expense processing complete",
		"processed", processed,
		"total_checked", len(expenses),
		"processing_date", now.Format("2006-01-02"))

	return processed, nil
}

// isDue reports whether the template should fire: nextDue has arrived
// (same calendar day or earlier) and the end date has not passed.
func isDue(rule core.RecurrenceRule, now time.Time) bool {
	if !core.SameDayOrBefore(rule.NextDue, now) {
		return false
	}
	if rule.EndDate != nil && !core.SameDayOrBefore(now, *rule.EndDate) {
		return false
	}
	return true
}
