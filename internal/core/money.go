// Package core holds the pure savings arithmetic: rounding, period
// resolution, growth projection and the illustrative tax table.
//
// Everything in here is synchronous and stateless. Amounts stay
// decimal.Decimal at full precision; rounding to two decimal places happens
// once, at the serialization boundary.
package core

import "github.com/shopspring/decimal"

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Ceiling100 rounds an amount up to the nearest multiple of 100. Amounts
// already on a multiple of 100 come back unchanged.
//
// Examples:
//
//	Ceiling100(250.00) -> 300
//	Ceiling100(500.00) -> 500
//	Ceiling100(101.00) -> 200
func Ceiling100(amount decimal.Decimal) decimal.Decimal {
	return amount.Div(hundred).Ceil().Mul(hundred)
}

// Remainder is the slice swept into savings: the gap between an amount and
// its 100-ceiling. Zero for amounts already on a multiple of 100.
func Remainder(amount decimal.Decimal) decimal.Decimal {
	return Ceiling100(amount).Sub(amount)
}

// RoundMoney rounds a monetary value to two decimal places. Internal
// arithmetic never calls this; only values leaving the system do.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// CompoundInterest grows a principal at a yearly rate over whole years.
func CompoundInterest(principal, annualRate decimal.Decimal, years int) decimal.Decimal {
	growth := one.Add(annualRate).Pow(decimal.NewFromInt(int64(years)))
	return principal.Mul(growth)
}

// InflationAdjust deflates a future amount back to today's purchasing power
// given a yearly inflation percentage (5 means 5%).
func InflationAdjust(amount, inflationPercent decimal.Decimal, years int) decimal.Decimal {
	base := one.Add(inflationPercent.Div(hundred))
	return amount.Div(base.Pow(decimal.NewFromInt(int64(years))))
}

const (
	goalAge         = 60
	minHorizonYears = 5
)

// InvestmentYears returns the compounding horizon for a saver of the given
// age: the years left until 60, or a flat five-year horizon for savers
// already at or past it.
func InvestmentYears(age int) int {
	if age >= goalAge {
		return minHorizonYears
	}
	return goalAge - age
}
