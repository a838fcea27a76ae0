package core

import (
	"errors"
	"testing"
)

func TestParseInstant(t *testing.T) {
	cases := []struct {
		in        string
		canonical string
		ok        bool
	}{
		{"2023-07-01 21:59:00", "2023-07-01 21:59:00", true},
		{"2023-07-01 21:59", "2023-07-01 21:59:00", true},
		{"2023-07-01T21:59:00", "2023-07-01 21:59:00", true},
		{"2023-07-01T21:59", "2023-07-01 21:59:00", true},
		{"  2023-07-01 21:59:00  ", "2023-07-01 21:59:00", true},
		{"2023-12-31 23:59:59", "2023-12-31 23:59:59", true},
		{"2023-07-01", "", false}, // date without time
		{"2023-07-01T21:59:00Z", "", false},
		{"01/07/2023 21:59", "", false},
		{"2023-13-01 00:00", "", false},
		{"not a date", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseInstant(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("ParseInstant(%q) unexpected error: %v", tc.in, err)
			}
			if got.String() != tc.canonical {
				t.Fatalf("ParseInstant(%q) = %q, want %q", tc.in, got.String(), tc.canonical)
			}
		} else {
			if err == nil {
				t.Fatalf("ParseInstant(%q) expected error", tc.in)
			}
			if !errors.Is(err, ErrUnparseableDate) {
				t.Fatalf("ParseInstant(%q) error = %v, want ErrUnparseableDate", tc.in, err)
			}
		}
	}
}

func TestParseInstantRoundTrip(t *testing.T) {
	in := "2024-02-29 08:15:30"
	first, err := ParseInstant(in)
	if err != nil {
		t.Fatalf("ParseInstant(%q) unexpected error: %v", in, err)
	}
	second, err := ParseInstant(first.String())
	if err != nil {
		t.Fatalf("re-parse of %q unexpected error: %v", first.String(), err)
	}
	if !second.Equal(first.Time) {
		t.Fatalf("round trip changed instant: %v != %v", second, first)
	}
	if second.String() != in {
		t.Fatalf("round trip changed rendering: %q != %q", second.String(), in)
	}
}

func TestInstantOrdering(t *testing.T) {
	early, err := ParseInstant("2023-07-01 00:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	late, err := ParseInstant("2023-07-01 00:00:01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !early.Before(late.Time) {
		t.Fatalf("expected %v before %v", early, late)
	}
}
