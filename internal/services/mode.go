// Package services implements the transaction batch pipeline and the savings
// projection orchestration.
//
// This file implements the Strategy Pattern for batch processing modes. Each
// mode (parse, validate, filter, returns) is a policy over one shared
// pipeline rather than its own code path, so parsing, checks and
// deduplication cannot drift between endpoints.
package services

import "fmt"

// Mode names a batch processing mode.
type Mode string

const (
	// ModeParse derives ceiling and remainder for every entry. It runs no
	// checks; the first unparseable date aborts the whole batch.
	ModeParse Mode = "parse"
	// ModeValidate cross-checks caller-supplied figures and reports every
	// entry as valid or invalid with accumulated reasons.
	ModeValidate Mode = "validate"
	// ModeFilter keeps entries surviving minimal validation and resolves
	// their remainders through the period rules.
	ModeFilter Mode = "filter"
	// ModeReturns is filter semantics with rejected entries dropped
	// silently, feeding the projection aggregator.
	ModeReturns Mode = "returns"
)

// BatchPolicy configures the shared pipeline for one processing mode.
type BatchPolicy struct {
	// FailFastOnParse aborts the whole batch on the first unparseable date
	// instead of recording that entry as invalid.
	FailFastOnParse bool
	// RejectNegative marks entries with negative amounts invalid.
	RejectNegative bool
	// EnforceMaxAmount marks entries at or above MaxTransactionAmount
	// invalid.
	EnforceMaxAmount bool
	// CrossCheckSupplied recomputes ceiling and remainder for non-negative
	// amounts and compares them with the caller-supplied figures, tolerating
	// MismatchTolerance.
	CrossCheckSupplied bool
	// AccumulateReasons collects every failed check for an entry instead of
	// stopping at the first.
	AccumulateReasons bool
	// Deduplicate rejects entries whose canonical date was already accepted
	// in this batch. Entries rejected by earlier checks never reach the
	// duplicate gate, so their dates do not block later occurrences.
	Deduplicate bool
	// ApplyPeriodRules resolves every accepted remainder through the Q and P
	// period rules.
	ApplyPeriodRules bool
	// TrackWindows flags accepted entries falling inside at least one K
	// window.
	TrackWindows bool
	// SilentDrop discards rejected entries instead of reporting them.
	SilentDrop bool
}

// batchPolicies maps each mode to its pipeline configuration. The four
// entries are the single place where mode behavior is defined.
var batchPolicies = map[Mode]BatchPolicy{
	ModeParse: {
		FailFastOnParse: true,
	},
	ModeValidate: {
		RejectNegative:     true,
		EnforceMaxAmount:   true,
		CrossCheckSupplied: true,
		AccumulateReasons:  true,
		Deduplicate:        true,
	},
	ModeFilter: {
		RejectNegative:   true,
		Deduplicate:      true,
		ApplyPeriodRules: true,
		TrackWindows:     true,
	},
	ModeReturns: {
		RejectNegative:   true,
		Deduplicate:      true,
		ApplyPeriodRules: true,
		SilentDrop:       true,
	},
}

// PolicyFor returns the pipeline configuration for a mode.
// Unknown modes are an error so wiring mistakes surface immediately.
func PolicyFor(mode Mode) (BatchPolicy, error) {
	policy, ok := batchPolicies[mode]
	if !ok {
		return BatchPolicy{}, fmt.Errorf("unknown processing mode: %s", mode)
	}
	return policy, nil
}
