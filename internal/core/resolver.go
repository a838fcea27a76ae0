package core

import "github.com/shopspring/decimal"

// ResolveRemainder applies the period rules to one transaction's base
// remainder. A winning Q period replaces the base with its fixed value,
// then every P period containing the instant adds its extra value on top.
func ResolveRemainder(base decimal.Decimal, i Instant, qs []QPeriod, ps []PPeriod) decimal.Decimal {
	resolved := base
	if q, ok := winningQPeriod(i, qs); ok {
		resolved = q.FixedValue
	}
	for _, p := range ps {
		if p.Contains(i) {
			resolved = resolved.Add(p.ExtraValue)
		}
	}
	return resolved
}

// winningQPeriod picks the override for an instant: the containing period
// with the latest start. Replacing only on a strictly later start keeps the
// first-listed period when two starts coincide.
func winningQPeriod(i Instant, qs []QPeriod) (QPeriod, bool) {
	var winner QPeriod
	found := false
	for _, q := range qs {
		if !q.Contains(i) {
			continue
		}
		if !found || q.Start.After(winner.Start.Time) {
			winner = q
			found = true
		}
	}
	return winner, found
}
