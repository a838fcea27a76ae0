package core

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrUnparseableDate       = errors.New("date matches no accepted format")
	ErrUnknownInvestmentType = errors.New("unknown investment type")
)

// InvestmentType selects the growth profile of a savings projection.
type InvestmentType string

const (
	// InvestmentNPS is the pension-scheme profile. It grows slower but its
	// contributions qualify for an income-tax deduction.
	InvestmentNPS InvestmentType = "nps"
	// InvestmentIndex is the index-fund profile. It grows faster and carries
	// no tax benefit.
	InvestmentIndex InvestmentType = "index"
)

func (t InvestmentType) String() string {
	return string(t)
}

func (t InvestmentType) IsValid() bool {
	switch t {
	case InvestmentNPS, InvestmentIndex:
		return true
	default:
		return false
	}
}

// ParseInvestmentType converts text into a known InvestmentType.
func ParseInvestmentType(text string) (InvestmentType, error) {
	t := InvestmentType(text)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownInvestmentType, text)
	}
	return t, nil
}

type (
	// TransactionInput is a raw dated amount as supplied by callers. The date
	// stays a string until the pipeline parses it, so a single bad entry can
	// be reported without losing the rest of the batch.
	TransactionInput struct {
		Date   string
		Amount decimal.Decimal
	}

	// ReportedTransaction is a caller-supplied entry carrying the caller's
	// own ceiling and remainder figures, cross-checked during validation.
	ReportedTransaction struct {
		Date      string
		Amount    decimal.Decimal
		Ceiling   decimal.Decimal
		Remainder decimal.Decimal
	}

	// ProcessedTransaction is an accepted entry with the derived savings
	// figures filled in. Remainder holds the base remainder, or the resolved
	// one when the pipeline applied period rules. InSavingsWindow is set only
	// by modes that track window membership.
	ProcessedTransaction struct {
		Instant         Instant
		Amount          decimal.Decimal
		Ceiling         decimal.Decimal
		Remainder       decimal.Decimal
		InSavingsWindow bool
	}

	// InvalidTransaction is a rejected entry together with the reason text.
	// Multiple reasons for one entry are joined with "; ".
	InvalidTransaction struct {
		Date   string
		Amount decimal.Decimal
		Reason string
	}

	// BatchTotals sums the accepted entries of one batch.
	BatchTotals struct {
		Amount    decimal.Decimal
		Ceiling   decimal.Decimal
		Remainder decimal.Decimal
	}

	// QPeriod replaces the remainder of every transaction inside it with a
	// fixed value. When several Q periods contain the same instant the one
	// with the latest start wins; on equal starts the one listed first wins.
	QPeriod struct {
		FixedValue decimal.Decimal
		Start      Instant
		End        Instant
	}

	// PPeriod adds an extra value on top of the remainder of every
	// transaction inside it. All matching P periods stack.
	PPeriod struct {
		ExtraValue decimal.Decimal
		Start      Instant
		End        Instant
	}

	// KPeriod is an aggregation window. Windows are independent: they may
	// overlap and a transaction may count toward several of them.
	KPeriod struct {
		Start Instant
		End   Instant
	}

	// PeriodRules bundles the period sets that shape a batch.
	PeriodRules struct {
		QPeriods []QPeriod
		PPeriods []PPeriod
		KPeriods []KPeriod
	}

	// SavingsWindow is the projection computed for one KPeriod.
	SavingsWindow struct {
		Start           Instant
		End             Instant
		InvestedTotal   decimal.Decimal
		ProjectedProfit decimal.Decimal
		TaxBenefit      decimal.Decimal
	}
)

// Contains reports whether the instant falls inside the period, bounds
// included.
func (q QPeriod) Contains(i Instant) bool {
	return within(i, q.Start, q.End)
}

func (p PPeriod) Contains(i Instant) bool {
	return within(i, p.Start, p.End)
}

func (k KPeriod) Contains(i Instant) bool {
	return within(i, k.Start, k.End)
}

// InAnyWindow reports whether the instant falls inside at least one
// aggregation window.
func InAnyWindow(i Instant, windows []KPeriod) bool {
	for _, k := range windows {
		if k.Contains(i) {
			return true
		}
	}
	return false
}
