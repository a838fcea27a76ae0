package core

import (
	"fmt"
	"strings"
	"time"
)

// InstantLayout is the canonical rendering of an Instant. Two transactions
// are duplicates exactly when their instants render to the same string.
const InstantLayout = "2006-01-02 15:04:05"

// instantLayouts are the accepted input formats, tried in order. The first
// layout that parses wins, so "2023-07-01 21:59" resolves through the
// minute-precision layout rather than failing on the canonical one.
var instantLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Instant is a transaction timestamp with second precision.
type Instant struct {
	time.Time
}

// ParseInstant parses text into an Instant. Leading and trailing whitespace
// is ignored. Text that matches none of the accepted layouts yields an error
// wrapping ErrUnparseableDate.
func ParseInstant(text string) (Instant, error) {
	trimmed := strings.TrimSpace(text)
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return Instant{Time: t}, nil
		}
	}
	return Instant{}, fmt.Errorf("%w: %q", ErrUnparseableDate, text)
}

// String renders the canonical "yyyy-MM-dd HH:mm:ss" form. Instants parsed
// without seconds render with ":00".
func (i Instant) String() string {
	return i.Format(InstantLayout)
}

// within reports whether i falls inside the closed interval [start, end].
func within(i, start, end Instant) bool {
	return !i.Before(start.Time) && !i.After(end.Time)
}
