// Response DTOs. Monetary values leave the service as float64 rounded to
// two decimals here and nowhere else; everything upstream computes at full
// precision.

package http

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"risparmio/internal/core"
	"risparmio/internal/services"
)

type (
	parsedTransactionResponse struct {
		Date      string  `json:"date"`
		Amount    float64 `json:"amount"`
		Ceiling   float64 `json:"ceiling"`
		Remainder float64 `json:"remainder"`
	}

	filteredTransactionResponse struct {
		Date            string  `json:"date"`
		Amount          float64 `json:"amount"`
		Ceiling         float64 `json:"ceiling"`
		Remainder       float64 `json:"remainder"`
		InSavingsWindow bool    `json:"in_savings_window"`
	}

	invalidTransactionResponse struct {
		Date   string  `json:"date"`
		Amount float64 `json:"amount"`
		Reason string  `json:"reason"`
	}

	batchTotalsResponse struct {
		Amount    float64 `json:"amount"`
		Ceiling   float64 `json:"ceiling"`
		Remainder float64 `json:"remainder"`
	}

	parseResponse struct {
		Transactions []parsedTransactionResponse `json:"transactions"`
		Totals       batchTotalsResponse         `json:"totals"`
	}

	validateResponse struct {
		Valid   []parsedTransactionResponse  `json:"valid"`
		Invalid []invalidTransactionResponse `json:"invalid"`
	}

	filterResponse struct {
		Accepted []filteredTransactionResponse `json:"accepted"`
		Rejected []invalidTransactionResponse  `json:"rejected"`
	}

	savingsWindowResponse struct {
		StartDate       string  `json:"start_date"`
		EndDate         string  `json:"end_date"`
		InvestedTotal   float64 `json:"invested_total"`
		ProjectedProfit float64 `json:"projected_profit"`
		TaxBenefit      float64 `json:"tax_benefit"`
	}

	returnsResponse struct {
		Windows          []savingsWindowResponse `json:"windows"`
		Totals           batchTotalsResponse     `json:"totals"`
		TransactionCount int                     `json:"transaction_count"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

// money is the single decimal-to-JSON conversion point.
func money(d decimal.Decimal) float64 {
	return core.RoundMoney(d).InexactFloat64()
}

func totalsResponse(t core.BatchTotals) batchTotalsResponse {
	return batchTotalsResponse{
		Amount:    money(t.Amount),
		Ceiling:   money(t.Ceiling),
		Remainder: money(t.Remainder),
	}
}

func invalidResponses(invalid []core.InvalidTransaction) []invalidTransactionResponse {
	out := make([]invalidTransactionResponse, 0, len(invalid))
	for _, tx := range invalid {
		out = append(out, invalidTransactionResponse{
			Date:   tx.Date,
			Amount: money(tx.Amount),
			Reason: tx.Reason,
		})
	}
	return out
}

func newParseResponse(report *services.ParseReport) parseResponse {
	out := parseResponse{
		Transactions: make([]parsedTransactionResponse, 0, len(report.Transactions)),
		Totals:       totalsResponse(report.Totals),
	}
	for _, tx := range report.Transactions {
		out.Transactions = append(out.Transactions, parsedTransactionResponse{
			Date:      tx.Instant.String(),
			Amount:    money(tx.Amount),
			Ceiling:   money(tx.Ceiling),
			Remainder: money(tx.Remainder),
		})
	}
	return out
}

// newValidateResponse echoes valid entries with the caller's own figures;
// only the rendering is normalized.
func newValidateResponse(report *services.ValidationReport) validateResponse {
	out := validateResponse{
		Valid:   make([]parsedTransactionResponse, 0, len(report.Valid)),
		Invalid: invalidResponses(report.Invalid),
	}
	for _, tx := range report.Valid {
		out.Valid = append(out.Valid, parsedTransactionResponse{
			Date:      tx.Date,
			Amount:    money(tx.Amount),
			Ceiling:   money(tx.Ceiling),
			Remainder: money(tx.Remainder),
		})
	}
	return out
}

func newFilterResponse(report *services.FilterReport) filterResponse {
	out := filterResponse{
		Accepted: make([]filteredTransactionResponse, 0, len(report.Accepted)),
		Rejected: invalidResponses(report.Rejected),
	}
	for _, tx := range report.Accepted {
		out.Accepted = append(out.Accepted, filteredTransactionResponse{
			Date:            tx.Instant.String(),
			Amount:          money(tx.Amount),
			Ceiling:         money(tx.Ceiling),
			Remainder:       money(tx.Remainder),
			InSavingsWindow: tx.InSavingsWindow,
		})
	}
	return out
}

func newReturnsResponse(report *services.ReturnsReport) returnsResponse {
	out := returnsResponse{
		Windows:          make([]savingsWindowResponse, 0, len(report.Windows)),
		Totals:           totalsResponse(report.Totals),
		TransactionCount: report.TransactionCount,
	}
	for _, w := range report.Windows {
		out.Windows = append(out.Windows, savingsWindowResponse{
			StartDate:       w.Start.String(),
			EndDate:         w.End.String(),
			InvestedTotal:   money(w.InvestedTotal),
			ProjectedProfit: money(w.ProjectedProfit),
			TaxBenefit:      money(w.TaxBenefit),
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
