// Package tax computes the progressive tax liability for a declaration.
package tax

import "math"

// Result holds the derived tax figures for a declaration.
type Result struct {
	TaxDue    float64
	TaxRefund float64
}

// bracket taxes the slice of taxable income between the previous bound and
// UpTo at Rate. Rates are marginal: each bracket applies only to the portion
// of income inside it, and bounds are inclusive at the upper end.
type bracket struct {
	UpTo float64
	Rate float64
}

var brackets = []bracket{
	{UpTo: 20_000, Rate: 0.10},
	{UpTo: 50_000, Rate: 0.20},
	{UpTo: math.Inf(1), Rate: 0.30},
}

// Compute derives tax due and refund from total income and total deductions.
// Deterministic, no side effects, total over non-negative inputs.
func Compute(totalIncome, totalDeductions float64) Result {
	taxable := math.Max(totalIncome-totalDeductions, 0)

	var due, lower float64
	for _, b := range brackets {
		if taxable > b.UpTo {
			due += (b.UpTo - lower) * b.Rate
			lower = b.UpTo
			continue
		}
		due += (taxable - lower) * b.Rate
		break
	}

	refund := math.Max(totalDeductions-due, 0)
	return Result{TaxDue: due, TaxRefund: refund}
}
