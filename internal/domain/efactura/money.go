// Package efactura contains the jurisdiction-independent core of the
// e-Factura document pipeline: monetary rounding, VAT aggregation and the
// ordered business-rule validator. Everything here is a pure function over
// immutable input; safe for concurrent use without synchronization.
package efactura

import "github.com/shopspring/decimal"

// RoundMoney applies the single disclosed-total rounding: two fractional
// digits, half away from zero. Intermediate sums and products are carried
// at full decimal precision and must pass through here exactly once.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatAmount renders a monetary value as a fixed two-decimal string, the
// only form amounts take in the serialized document.
func FormatAmount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

// RateKey rounds a VAT rate to its two-decimal equivalence class. Grouping
// on the key (not the amounts) merges float-noise near-duplicates such as
// 19.0 vs 19.00000001 while keeping 19.004 and 19.006 apart.
func RateKey(rate decimal.Decimal) decimal.Decimal {
	return rate.Round(2)
}

// FormatRate renders a VAT percentage without trailing zeros ("19", "9.5").
func FormatRate(rate decimal.Decimal) string {
	return RateKey(rate).String()
}
