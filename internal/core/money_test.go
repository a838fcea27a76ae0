package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func TestCeiling100(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"250", "300"},
		{"500", "500"},
		{"101", "200"},
		{"0", "0"},
		{"0.01", "100"},
		{"99.99", "100"},
		{"100", "100"},
		{"750.50", "800"},
		{"199.999", "200"},
		{"-150", "-100"}, // parse mode computes over unvalidated amounts
	}
	for _, tc := range cases {
		got := Ceiling100(dec(t, tc.in))
		if !got.Equal(dec(t, tc.want)) {
			t.Errorf("Ceiling100(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestRemainder(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"250", "50"},
		{"500", "0"},
		{"101", "99"},
		{"0.01", "99.99"},
		{"100", "0"},
		{"0", "0"},
	}
	for _, tc := range cases {
		got := Remainder(dec(t, tc.in))
		if !got.Equal(dec(t, tc.want)) {
			t.Errorf("Remainder(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestRoundMoney(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10.004", "10"},
		{"10.005", "10.01"},
		{"99.999", "100"},
		{"50", "50"},
	}
	for _, tc := range cases {
		got := RoundMoney(dec(t, tc.in))
		if !got.Equal(dec(t, tc.want)) {
			t.Errorf("RoundMoney(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestCompoundInterest(t *testing.T) {
	cases := []struct {
		principal string
		rate      string
		years     int
		want      string
	}{
		{"1000", "0.10", 2, "1210"},
		{"1000", "0.10", 0, "1000"},
		{"0", "0.12", 10, "0"},
		{"500", "0", 7, "500"},
	}
	for _, tc := range cases {
		got := CompoundInterest(dec(t, tc.principal), dec(t, tc.rate), tc.years)
		if !got.Equal(dec(t, tc.want)) {
			t.Errorf("CompoundInterest(%s, %s, %d) = %s, want %s",
				tc.principal, tc.rate, tc.years, got, tc.want)
		}
	}
}

func TestInflationAdjust(t *testing.T) {
	cases := []struct {
		amount  string
		percent string
		years   int
		want    string
	}{
		{"1210", "10", 2, "1000"},
		{"1000", "0", 5, "1000"},
		{"1000", "5", 0, "1000"},
	}
	for _, tc := range cases {
		got := InflationAdjust(dec(t, tc.amount), dec(t, tc.percent), tc.years)
		if !got.Equal(dec(t, tc.want)) {
			t.Errorf("InflationAdjust(%s, %s, %d) = %s, want %s",
				tc.amount, tc.percent, tc.years, got, tc.want)
		}
	}
}

func TestInflationAdjustShrinksAmount(t *testing.T) {
	got := InflationAdjust(dec(t, "1000"), dec(t, "6"), 10)
	if !got.LessThan(dec(t, "1000")) {
		t.Fatalf("InflationAdjust(1000, 6%%, 10y) = %s, expected less than 1000", got)
	}
	if !got.IsPositive() {
		t.Fatalf("InflationAdjust(1000, 6%%, 10y) = %s, expected positive", got)
	}
}

func TestInvestmentYears(t *testing.T) {
	cases := []struct {
		age  int
		want int
	}{
		{29, 31},
		{59, 1},
		{60, 5},
		{65, 5},
		{18, 42},
	}
	for _, tc := range cases {
		if got := InvestmentYears(tc.age); got != tc.want {
			t.Errorf("InvestmentYears(%d) = %d, want %d", tc.age, got, tc.want)
		}
	}
}
