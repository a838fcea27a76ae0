package core

import "github.com/shopspring/decimal"

// taxBracket taxes the slice of income between min and max at a marginal
// rate. A zero max leaves the bracket unbounded.
type taxBracket struct {
	min  decimal.Decimal
	max  decimal.Decimal
	rate decimal.Decimal
}

// taxBrackets is a fixed illustrative slab table. The figures are not meant
// to track any real tax code.
var taxBrackets = []taxBracket{
	{min: decimal.Zero, max: decimal.NewFromInt(700000), rate: decimal.Zero},
	{min: decimal.NewFromInt(700000), max: decimal.NewFromInt(1000000), rate: decimal.NewFromFloat(0.10)},
	{min: decimal.NewFromInt(1000000), max: decimal.NewFromInt(1200000), rate: decimal.NewFromFloat(0.15)},
	{min: decimal.NewFromInt(1200000), max: decimal.NewFromInt(1500000), rate: decimal.NewFromFloat(0.20)},
	{min: decimal.NewFromInt(1500000), rate: decimal.NewFromFloat(0.30)},
}

var (
	deductionCap   = decimal.NewFromInt(200000)
	deductionShare = decimal.NewFromFloat(0.10)
)

// CalculateTax computes progressive tax on an annual income. Each bracket
// taxes only the slice of income above its lower bound, so the function is
// continuous across bracket boundaries.
func CalculateTax(annualIncome decimal.Decimal) decimal.Decimal {
	tax := decimal.Zero
	for _, b := range taxBrackets {
		if annualIncome.LessThanOrEqual(b.min) {
			break
		}
		slice := annualIncome.Sub(b.min)
		if !b.max.IsZero() {
			width := b.max.Sub(b.min)
			if slice.GreaterThan(width) {
				slice = width
			}
		}
		tax = tax.Add(slice.Mul(b.rate))
	}
	return tax
}

// TaxBenefit is the tax saved by deducting an investment from income. The
// deduction is the invested amount capped at 10% of income and at a flat
// 200000, whichever is lower. Never negative.
func TaxBenefit(invested, annualIncome decimal.Decimal) decimal.Decimal {
	limit := decimal.Min(annualIncome.Mul(deductionShare), deductionCap)
	deduction := decimal.Min(invested, limit)
	benefit := CalculateTax(annualIncome).Sub(CalculateTax(annualIncome.Sub(deduction)))
	if benefit.IsNegative() {
		return decimal.Zero
	}
	return benefit
}
