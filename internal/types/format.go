package types

import "github.com/shopspring/decimal"

// FormatSeconds renders a time or duration with exactly three decimal places,
// rounding ties away from zero. Touch tables, the audit log, and summary
// reports all format seconds through this one function so the same touch
// never shows two different values.
func FormatSeconds(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(3)
}
