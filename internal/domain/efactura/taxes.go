package efactura

import (
	"github.com/shopspring/decimal"

	"github.com/facturis/efactura-pro/internal/domain/entity"
	"github.com/facturis/efactura-pro/pkg/anaf"
)

// rateEpsilon separates zero-rated from standard-rated lines: anything
// below one cent of a percent counts as zero.
var rateEpsilon = decimal.NewFromFloat(0.01)

// TaxGroup is one VAT subtotal bucket, keyed by the rate's two-decimal
// equivalence class. Built fresh per document build and discarded after the
// totals are read; never persisted.
type TaxGroup struct {
	Rate        decimal.Decimal // rounded to 2 decimals (the bucket key)
	Category    string          // UNTDID 5305: S, Z or O
	RawTaxable  decimal.Decimal // accumulated unrounded line extensions
	Taxable     decimal.Decimal // RawTaxable rounded once
	TaxAmount   decimal.Decimal // round(Taxable × Rate/100), once per bucket
}

// Totals carries the ordered tax groups and the grand totals of one build.
type Totals struct {
	Groups  []TaxGroup
	Taxable decimal.Decimal // sum of rounded line extensions, rounded once
	Tax     decimal.Decimal // sum of group tax amounts (already rounded)
	Gross   decimal.Decimal // Taxable + Tax, rounded
}

var oneHundred = decimal.NewFromInt(100)

// AggregateTaxes groups the lines by effective VAT rate and computes the
// subtotals and grand totals with a single rounding point per bucket, so
// the sum of group tax amounts always equals the disclosed tax total.
// Groups keep first-appearance order for deterministic serialization.
// With no lines it emits one synthetic zero-rate bucket so the tax-summary
// block is always structurally present.
func AggregateTaxes(lines []entity.Line, supplierVATPayer bool) Totals {
	var (
		order   []string
		buckets = make(map[string]*TaxGroup)
		lineSum decimal.Decimal // sum of individually rounded extensions
	)

	for i := range lines {
		line := &lines[i]
		rate := RateKey(line.TaxRate)
		key := rate.StringFixed(2)
		bucket, ok := buckets[key]
		if !ok {
			bucket = &TaxGroup{Rate: rate, Category: CategoryForRate(rate, supplierVATPayer)}
			buckets[key] = bucket
			order = append(order, key)
		}
		bucket.RawTaxable = bucket.RawTaxable.Add(line.RawExtension())
		lineSum = lineSum.Add(RoundMoney(line.RawExtension()))
	}

	if len(order) == 0 {
		zero := TaxGroup{
			Rate:     decimal.Zero,
			Category: CategoryForRate(decimal.Zero, supplierVATPayer),
		}
		return Totals{Groups: []TaxGroup{zero}}
	}

	totals := Totals{Groups: make([]TaxGroup, 0, len(order))}
	var taxSum decimal.Decimal
	for _, key := range order {
		bucket := buckets[key]
		bucket.Taxable = RoundMoney(bucket.RawTaxable)
		bucket.TaxAmount = RoundMoney(bucket.Taxable.Mul(bucket.Rate).Div(oneHundred))
		taxSum = taxSum.Add(bucket.TaxAmount)
		totals.Groups = append(totals.Groups, *bucket)
	}

	totals.Taxable = RoundMoney(lineSum)
	totals.Tax = taxSum
	totals.Gross = RoundMoney(totals.Taxable.Add(totals.Tax))
	return totals
}

// CategoryForRate classifies a bucket or line for the VAT category element.
// A supplier that is not a registered VAT payer puts everything outside the
// scope of tax regardless of rate.
func CategoryForRate(rate decimal.Decimal, supplierVATPayer bool) string {
	switch {
	case !supplierVATPayer:
		return anaf.TaxCategoryNotSubject
	case rate.Abs().LessThan(rateEpsilon):
		return anaf.TaxCategoryZeroRated
	default:
		return anaf.TaxCategoryStandard
	}
}
