package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"risparmio/internal/core"
)

// Rejection reasons surfaced to callers. Several reasons for one entry are
// joined with "; ".
const (
	ReasonInvalidDate    = "Invalid date format"
	ReasonNegativeAmount = "Negative amounts are not allowed"
	ReasonAmountTooLarge = "Amount exceeds maximum allowed transaction value"
	ReasonDuplicate      = "Duplicate transaction"
)

var (
	// MaxTransactionAmount is the exclusive upper bound enforced by the
	// validate mode.
	MaxTransactionAmount = decimal.NewFromInt(500000)

	// MismatchTolerance is how far a caller-supplied ceiling or remainder may
	// drift from the recomputed figure before the entry is rejected.
	MismatchTolerance = decimal.NewFromFloat(0.01)
)

type (
	// ParseReport is the parse mode output: every entry with derived figures
	// plus the batch totals.
	ParseReport struct {
		Transactions []core.ProcessedTransaction
		Totals       core.BatchTotals
	}

	// ValidationReport splits a validate batch into valid entries, echoed as
	// supplied, and invalid ones with reasons.
	ValidationReport struct {
		Valid   []core.ReportedTransaction
		Invalid []core.InvalidTransaction
	}

	// FilterReport is the filter mode output: accepted entries with resolved
	// remainders and window flags, plus the rejected ones.
	FilterReport struct {
		Accepted []core.ProcessedTransaction
		Rejected []core.InvalidTransaction
	}
)

// batchEntry is the pipeline's input row. The supplied ceiling and remainder
// are meaningful only under CrossCheckSupplied.
type batchEntry struct {
	date      string
	amount    decimal.Decimal
	ceiling   decimal.Decimal
	remainder decimal.Decimal
}

// batchResult collects one pipeline run. validIdx holds the input positions
// of accepted entries so mode wrappers can echo the caller's originals.
type batchResult struct {
	processed []core.ProcessedTransaction
	invalid   []core.InvalidTransaction
	validIdx  []int
	totals    core.BatchTotals
}

// runBatch is the single pipeline behind every mode. Per entry: parse the
// date, run the policy's checks, pass the duplicate gate, then derive
// ceiling and remainder and fold them into the totals. Only FailFastOnParse
// policies can return an error.
func runBatch(policy BatchPolicy, entries []batchEntry, rules core.PeriodRules) (*batchResult, error) {
	res := &batchResult{
		totals: core.BatchTotals{
			Amount:    decimal.Zero,
			Ceiling:   decimal.Zero,
			Remainder: decimal.Zero,
		},
	}
	seen := make(map[string]struct{}, len(entries))

	for idx, e := range entries {
		instant, err := core.ParseInstant(e.date)
		if err != nil {
			if policy.FailFastOnParse {
				return nil, fmt.Errorf("transaction %d: %w", idx+1, err)
			}
			res.reject(policy, e, ReasonInvalidDate)
			continue
		}

		if reasons := checkEntry(policy, e); len(reasons) > 0 {
			// Rejected entries skip the duplicate gate: their dates are not
			// recorded as seen.
			res.reject(policy, e, strings.Join(reasons, "; "))
			continue
		}

		if policy.Deduplicate {
			key := instant.String()
			if _, dup := seen[key]; dup {
				res.reject(policy, e, ReasonDuplicate)
				continue
			}
			seen[key] = struct{}{}
		}

		ceiling := core.Ceiling100(e.amount)
		remainder := core.Remainder(e.amount)
		if policy.ApplyPeriodRules {
			remainder = core.ResolveRemainder(remainder, instant, rules.QPeriods, rules.PPeriods)
		}

		tx := core.ProcessedTransaction{
			Instant:   instant,
			Amount:    e.amount,
			Ceiling:   ceiling,
			Remainder: remainder,
		}
		if policy.TrackWindows {
			tx.InSavingsWindow = core.InAnyWindow(instant, rules.KPeriods)
		}

		res.processed = append(res.processed, tx)
		res.validIdx = append(res.validIdx, idx)
		res.totals.Amount = res.totals.Amount.Add(e.amount)
		res.totals.Ceiling = res.totals.Ceiling.Add(ceiling)
		res.totals.Remainder = res.totals.Remainder.Add(remainder)
	}

	return res, nil
}

// checkEntry runs the policy's amount checks in a fixed order: negative,
// maximum, then the supplied-figure cross-checks. Cross-checks are skipped
// for negative amounts.
func checkEntry(policy BatchPolicy, e batchEntry) []string {
	var reasons []string

	if policy.RejectNegative && e.amount.IsNegative() {
		reasons = append(reasons, ReasonNegativeAmount)
		if !policy.AccumulateReasons {
			return reasons
		}
	}

	if policy.EnforceMaxAmount && e.amount.GreaterThanOrEqual(MaxTransactionAmount) {
		reasons = append(reasons, ReasonAmountTooLarge)
		if !policy.AccumulateReasons {
			return reasons
		}
	}

	if policy.CrossCheckSupplied && !e.amount.IsNegative() {
		expectedCeiling := core.Ceiling100(e.amount)
		if expectedCeiling.Sub(e.ceiling).Abs().GreaterThan(MismatchTolerance) {
			reasons = append(reasons, fmt.Sprintf("Ceiling mismatch: expected %s, got %s", expectedCeiling, e.ceiling))
			if !policy.AccumulateReasons {
				return reasons
			}
		}
		expectedRemainder := core.Remainder(e.amount)
		if expectedRemainder.Sub(e.remainder).Abs().GreaterThan(MismatchTolerance) {
			reasons = append(reasons, fmt.Sprintf("Remainder mismatch: expected %s, got %s", expectedRemainder, e.remainder))
		}
	}

	return reasons
}

func (r *batchResult) reject(policy BatchPolicy, e batchEntry, reason string) {
	if policy.SilentDrop {
		return
	}
	r.invalid = append(r.invalid, core.InvalidTransaction{
		Date:   e.date,
		Amount: e.amount,
		Reason: reason,
	})
}

func inputEntries(inputs []core.TransactionInput) []batchEntry {
	entries := make([]batchEntry, len(inputs))
	for i, in := range inputs {
		entries[i] = batchEntry{date: in.Date, amount: in.Amount}
	}
	return entries
}

// ParseTransactions runs the parse mode over a batch. A single unparseable
// date fails the whole batch.
func ParseTransactions(inputs []core.TransactionInput) (*ParseReport, error) {
	res, err := runBatch(batchPolicies[ModeParse], inputEntries(inputs), core.PeriodRules{})
	if err != nil {
		return nil, err
	}
	return &ParseReport{
		Transactions: res.processed,
		Totals:       res.totals,
	}, nil
}

// ValidateTransactions runs the validate mode over caller-supplied entries.
// Every entry ends up in exactly one of the two report lists.
func ValidateTransactions(entries []core.ReportedTransaction) *ValidationReport {
	batch := make([]batchEntry, len(entries))
	for i, e := range entries {
		batch[i] = batchEntry{
			date:      e.Date,
			amount:    e.Amount,
			ceiling:   e.Ceiling,
			remainder: e.Remainder,
		}
	}
	res, _ := runBatch(batchPolicies[ModeValidate], batch, core.PeriodRules{})

	report := &ValidationReport{Invalid: res.invalid}
	for _, idx := range res.validIdx {
		report.Valid = append(report.Valid, entries[idx])
	}
	return report
}

// FilterTransactions runs the filter mode: survivors come back with resolved
// remainders and window membership, rejects with their reasons.
func FilterTransactions(inputs []core.TransactionInput, rules core.PeriodRules) *FilterReport {
	res, _ := runBatch(batchPolicies[ModeFilter], inputEntries(inputs), rules)
	return &FilterReport{
		Accepted: res.processed,
		Rejected: res.invalid,
	}
}
