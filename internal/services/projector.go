package services

import (
	"github.com/shopspring/decimal"

	"risparmio/internal/core"
)

var monthsPerYear = decimal.NewFromInt(12)

// RateTable fixes the yearly growth rate per investment type.
type RateTable struct {
	NPS   decimal.Decimal
	Index decimal.Decimal
}

// DefaultRateTable returns the built-in growth assumptions: 9% for the
// pension scheme, 12% for the index fund.
func DefaultRateTable() RateTable {
	return RateTable{
		NPS:   decimal.NewFromFloat(0.09),
		Index: decimal.NewFromFloat(0.12),
	}
}

// RateFor returns the growth rate for an investment type.
func (rt RateTable) RateFor(t core.InvestmentType) (decimal.Decimal, error) {
	switch t {
	case core.InvestmentNPS:
		return rt.NPS, nil
	case core.InvestmentIndex:
		return rt.Index, nil
	default:
		return decimal.Decimal{}, core.ErrUnknownInvestmentType
	}
}

// ProjectionParams carries the request-level inputs of a returns projection.
type ProjectionParams struct {
	MonthlyWage      decimal.Decimal
	Age              int
	InflationPercent decimal.Decimal
	InvestmentType   core.InvestmentType
}

// ProjectWindows aggregates resolved remainders into each window and projects
// them independently: compound growth over the saver's horizon, deflation to
// today's purchasing power, and for the pension scheme the tax benefit of
// deducting the invested total from a year of wages.
//
// Windows may overlap; a transaction inside two windows counts toward both.
func ProjectWindows(transactions []core.ProcessedTransaction, windows []core.KPeriod, params ProjectionParams, rates RateTable) ([]core.SavingsWindow, error) {
	rate, err := rates.RateFor(params.InvestmentType)
	if err != nil {
		return nil, err
	}

	years := core.InvestmentYears(params.Age)
	annualIncome := params.MonthlyWage.Mul(monthsPerYear)

	projected := make([]core.SavingsWindow, 0, len(windows))
	for _, w := range windows {
		invested := decimal.Zero
		for _, tx := range transactions {
			if w.Contains(tx.Instant) {
				invested = invested.Add(tx.Remainder)
			}
		}

		gross := core.CompoundInterest(invested, rate, years)
		real := core.InflationAdjust(gross, params.InflationPercent, years)

		benefit := decimal.Zero
		if params.InvestmentType == core.InvestmentNPS {
			benefit = core.TaxBenefit(invested, annualIncome)
		}

		projected = append(projected, core.SavingsWindow{
			Start:           w.Start,
			End:             w.End,
			InvestedTotal:   invested,
			ProjectedProfit: real.Sub(invested),
			TaxBenefit:      benefit,
		})
	}

	return projected, nil
}
