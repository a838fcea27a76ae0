package http

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestHandleParse(t *testing.T) {
	srv := newTestServer(t, 1000)

	rec := postJSON(srv, "/api/v1/transactions/parse", `{
		"transactions": [
			{"date": "2023-07-21 10:00:00", "amount": 250},
			{"date": "2023-07-22 11:30:00", "amount": "101.5"}
		]
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got parseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(got.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(got.Transactions))
	}
	first := got.Transactions[0]
	if first.Date != "2023-07-21 10:00:00" {
		t.Errorf("expected canonical date, got %q", first.Date)
	}
	if !almostEqual(first.Ceiling, 300) || !almostEqual(first.Remainder, 50) {
		t.Errorf("unexpected figures: ceiling=%v remainder=%v", first.Ceiling, first.Remainder)
	}
	second := got.Transactions[1]
	if !almostEqual(second.Ceiling, 200) || !almostEqual(second.Remainder, 98.5) {
		t.Errorf("unexpected figures: ceiling=%v remainder=%v", second.Ceiling, second.Remainder)
	}

	if !almostEqual(got.Totals.Amount, 351.5) {
		t.Errorf("expected amount total 351.5, got %v", got.Totals.Amount)
	}
	if !almostEqual(got.Totals.Ceiling, 500) {
		t.Errorf("expected ceiling total 500, got %v", got.Totals.Ceiling)
	}
	if !almostEqual(got.Totals.Remainder, 148.5) {
		t.Errorf("expected remainder total 148.5, got %v", got.Totals.Remainder)
	}
}

func TestHandleParse_BadDateRejectsBatch(t *testing.T) {
	srv := newTestServer(t, 1000)

	rec := postJSON(srv, "/api/v1/transactions/parse", `{
		"transactions": [
			{"date": "2023-07-21 10:00:00", "amount": 250},
			{"date": "2023-07-21", "amount": 10}
		]
	}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "date matches no accepted format") {
		t.Errorf("expected parse error in body, got %s", rec.Body.String())
	}
}

func TestHandleParse_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, 1000)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/transactions/parse", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if rec.Header().Get("Allow") != http.MethodPost {
		t.Errorf("expected Allow: POST, got %q", rec.Header().Get("Allow"))
	}
}

func TestHandleParse_MalformedBody(t *testing.T) {
	srv := newTestServer(t, 1000)

	for _, body := range []string{"{", `{"transactions": []} trailing`} {
		rec := postJSON(srv, "/api/v1/transactions/parse", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestHandleValidate(t *testing.T) {
	srv := newTestServer(t, 1000)

	rec := postJSON(srv, "/api/v1/transactions/validate", `{
		"monthly_wage": 75000,
		"transactions": [
			{"date": "2023-07-21 10:00", "amount": 100, "ceiling": 100, "remainder": 0},
			{"date": "2023-07-22 11:00:00", "amount": -5, "ceiling": 0, "remainder": 0},
			{"date": "2023-07-23 12:00:00", "amount": 250, "ceiling": 290, "remainder": 50},
			{"date": "2023-07-24 13:00:00", "amount": 500000, "ceiling": 500000, "remainder": 0}
		]
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got validateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(got.Valid) != 1 || len(got.Invalid) != 3 {
		t.Fatalf("expected 1 valid and 3 invalid, got %d/%d", len(got.Valid), len(got.Invalid))
	}
	// Valid entries echo the supplied date untouched.
	if got.Valid[0].Date != "2023-07-21 10:00" {
		t.Errorf("expected supplied date echoed, got %q", got.Valid[0].Date)
	}

	reasons := map[string]string{}
	for _, inv := range got.Invalid {
		reasons[inv.Date] = inv.Reason
	}
	if r := reasons["2023-07-22 11:00:00"]; r != "Negative amounts are not allowed" {
		t.Errorf("negative entry reason = %q", r)
	}
	if r := reasons["2023-07-23 12:00:00"]; !strings.Contains(r, "Ceiling mismatch: expected 300, got 290") {
		t.Errorf("mismatch entry reason = %q", r)
	}
	if r := reasons["2023-07-24 13:00:00"]; r != "Amount exceeds maximum allowed transaction value" {
		t.Errorf("oversized entry reason = %q", r)
	}
}

func TestHandleFilter(t *testing.T) {
	srv := newTestServer(t, 1000)

	rec := postJSON(srv, "/api/v1/transactions/filter", `{
		"transactions": [
			{"date": "2023-07-15 12:00:00", "amount": 250},
			{"date": "2023-09-01 08:00:00", "amount": 101},
			{"date": "2023-07-16 12:00:00", "amount": -1}
		],
		"q_periods": [
			{"fixed_value": 20, "start_date": "2023-07-01 00:00:00", "end_date": "2023-07-31 23:59:59"}
		],
		"p_periods": [
			{"extra_value": 5, "start_date": "2023-07-01 00:00:00", "end_date": "2023-07-31 23:59:59"}
		],
		"k_periods": [
			{"start_date": "2023-07-01 00:00:00", "end_date": "2023-07-31 23:59:59"}
		]
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got filterResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(got.Accepted) != 2 || len(got.Rejected) != 1 {
		t.Fatalf("expected 2 accepted and 1 rejected, got %d/%d", len(got.Accepted), len(got.Rejected))
	}

	july := got.Accepted[0]
	if !almostEqual(july.Remainder, 25) {
		t.Errorf("expected Q then P resolution to 25, got %v", july.Remainder)
	}
	if !july.InSavingsWindow {
		t.Error("expected July entry inside the savings window")
	}

	september := got.Accepted[1]
	if !almostEqual(september.Remainder, 99) {
		t.Errorf("expected base remainder 99 outside periods, got %v", september.Remainder)
	}
	if september.InSavingsWindow {
		t.Error("expected September entry outside the savings window")
	}

	if got.Rejected[0].Reason != "Negative amounts are not allowed" {
		t.Errorf("unexpected rejection reason %q", got.Rejected[0].Reason)
	}
}

func TestHandleFilter_BadPeriodDate(t *testing.T) {
	srv := newTestServer(t, 1000)

	rec := postJSON(srv, "/api/v1/transactions/filter", `{
		"transactions": [],
		"k_periods": [{"start_date": "2023-07-01", "end_date": "2023-07-31 23:59:59"}]
	}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "k_periods[0]") {
		t.Errorf("expected the bad period named, got %s", rec.Body.String())
	}
}

func TestHandleReturns(t *testing.T) {
	srv := newTestServer(t, 1000)

	body := `{
		"transactions": [
			{"date": "2023-07-15 12:00:00", "amount": 250},
			{"date": "2023-07-20 09:30:00", "amount": 150.5},
			{"date": "2023-07-15 12:00", "amount": 77}
		],
		"k_periods": [
			{"start_date": "2023-07-01 00:00:00", "end_date": "2023-07-31 23:59:59"}
		],
		"monthly_wage": 100000,
		"age": 59,
		"inflation_percent": 0,
		"investment_type": "nps"
	}`

	rec := postJSON(srv, "/api/v1/savings/returns", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got returnsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	// The third transaction normalizes to the first one's instant and is
	// dropped silently.
	if got.TransactionCount != 2 {
		t.Errorf("expected duplicate dropped, count = %d", got.TransactionCount)
	}
	if len(got.Windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(got.Windows))
	}

	w := got.Windows[0]
	if !almostEqual(w.InvestedTotal, 99.5) {
		t.Errorf("expected invested total 99.5, got %v", w.InvestedTotal)
	}
	// One year at 9%: 99.5 * 1.09 - 99.5 = 8.955, rounded at the boundary.
	if !almostEqual(w.ProjectedProfit, 8.96) {
		t.Errorf("expected projected profit 8.96, got %v", w.ProjectedProfit)
	}
	// Annual income 1200000, deducting 99.5 at the 15% bracket.
	if !almostEqual(w.TaxBenefit, 14.93) {
		t.Errorf("expected tax benefit 14.93, got %v", w.TaxBenefit)
	}

	if !almostEqual(got.Totals.Ceiling, 500) {
		t.Errorf("expected ceiling total 500, got %v", got.Totals.Ceiling)
	}
}

func TestHandleReturns_IndexHasNoTaxBenefit(t *testing.T) {
	srv := newTestServer(t, 1000)

	rec := postJSON(srv, "/api/v1/savings/returns", `{
		"transactions": [{"date": "2023-07-15 12:00:00", "amount": 250}],
		"k_periods": [{"start_date": "2023-07-01 00:00:00", "end_date": "2023-07-31 23:59:59"}],
		"monthly_wage": 100000,
		"age": 59,
		"inflation_percent": 0,
		"investment_type": "index"
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got returnsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	w := got.Windows[0]
	// One year at 12%: 50 * 1.12 - 50 = 6.
	if !almostEqual(w.ProjectedProfit, 6) {
		t.Errorf("expected projected profit 6, got %v", w.ProjectedProfit)
	}
	if !almostEqual(w.TaxBenefit, 0) {
		t.Errorf("expected no tax benefit for index, got %v", w.TaxBenefit)
	}
}

func TestHandleReturns_InputValidation(t *testing.T) {
	srv := newTestServer(t, 1000)

	const base = `{
		"transactions": [],
		"monthly_wage": 50000,
		"age": %d,
		"inflation_percent": %s,
		"investment_type": %q
	}`

	tests := []struct {
		name           string
		age            int
		inflation      string
		investmentType string
		wantFragment   string
	}{
		{"unknown investment type", 30, "5", "crypto", "unknown investment type"},
		{"zero age", 0, "5", "nps", "age must be a positive integer"},
		{"negative age", -3, "5", "nps", "age must be a positive integer"},
		{"impossible deflation", 30, "-100", "nps", "inflation_percent must be greater than -100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := fmt.Sprintf(base, tt.age, tt.inflation, tt.investmentType)

			rec := postJSON(srv, "/api/v1/savings/returns", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.wantFragment) {
				t.Errorf("expected %q in body, got %s", tt.wantFragment, rec.Body.String())
			}
		})
	}
}
