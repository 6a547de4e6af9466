// Package core provides the expense ledger's domain types.
//
// This file contains amount parsing helpers shared by the CSV importer
// and the CLI argument layer.
package core

import (
	"strconv"
	"strings"
)

// ParseAmount converts a decimal string to a float64 amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and an
// optional leading sign; negative amounts are accepted and represent
// refunds or adjustments.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}

// FormatAmount renders an amount with two decimal places, the canonical
// form used by the CSV codec and the CLI output layer.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
