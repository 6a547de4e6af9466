// Package csvio serializes expenses to quoted CSV text and parses CSV
// documents back into expense-creation inputs.
//
// The dialect is fixed: every field double-quoted, embedded quotes
// doubled on both sides of the round trip, unquoted commas as field
// separators, tags joined with ";".
package csvio

import (
	"strings"
	"time"

	"fintrack/internal/core"
)

// Columns is the fixed export column order.
var Columns = []string{"id", "description", "amount", "category", "date", "payment_method", "tags"}

const dateLayout = "2006-01-02"

// Export renders the expenses as a CSV document, header first.
// Dates are exported calendar-day only, without time of day.
func Export(expenses []core.Expense) string {
	var b strings.Builder
	writeRow(&b, Columns)
	for _, e := range expenses {
		writeRow(&b, []string{
			e.ID,
			e.Description,
			core.FormatAmount(e.Amount),
			e.Category,
			e.Date.Format(dateLayout),
			string(e.PaymentMethod),
			strings.Join(e.Tags, ";"),
		})
	}
	return b.String()
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

// splitLine splits a data row on unquoted commas. A doubled quote inside
// a quoted span decodes to a single literal quote.
func splitLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

// parseDate accepts the export layout or a full timestamp. The zero time
// signals "absent": the store substitutes the current wall clock.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

// parseTags splits a ";"-joined tag list, dropping empty entries.
func parseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func fieldAt(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return fields[idx]
}
