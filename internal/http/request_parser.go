// Package http exposes the batch processing modes and the savings
// projection over a JSON API.
//
// This file decodes and validates request bodies. Amounts unmarshal through
// decimal.Decimal, which accepts JSON numbers and numeric strings alike;
// dates stay strings so the pipeline can report bad ones per entry.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"risparmio/internal/core"
)

// maxBodyBytes caps request bodies. Batches are small; anything near this
// limit is not a legitimate request.
const maxBodyBytes = 1 << 20

type (
	transactionDTO struct {
		Date   string          `json:"date"`
		Amount decimal.Decimal `json:"amount"`
	}

	reportedTransactionDTO struct {
		Date      string          `json:"date"`
		Amount    decimal.Decimal `json:"amount"`
		Ceiling   decimal.Decimal `json:"ceiling"`
		Remainder decimal.Decimal `json:"remainder"`
	}

	qPeriodDTO struct {
		FixedValue decimal.Decimal `json:"fixed_value"`
		StartDate  string          `json:"start_date"`
		EndDate    string          `json:"end_date"`
	}

	pPeriodDTO struct {
		ExtraValue decimal.Decimal `json:"extra_value"`
		StartDate  string          `json:"start_date"`
		EndDate    string          `json:"end_date"`
	}

	kPeriodDTO struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}

	parseRequest struct {
		Transactions []transactionDTO `json:"transactions"`
	}

	validateRequest struct {
		Transactions []reportedTransactionDTO `json:"transactions"`
		MonthlyWage  decimal.Decimal          `json:"monthly_wage"`
	}

	filterRequest struct {
		Transactions []transactionDTO `json:"transactions"`
		QPeriods     []qPeriodDTO     `json:"q_periods"`
		PPeriods     []pPeriodDTO     `json:"p_periods"`
		KPeriods     []kPeriodDTO     `json:"k_periods"`
	}

	returnsRequest struct {
		Transactions     []transactionDTO `json:"transactions"`
		QPeriods         []qPeriodDTO     `json:"q_periods"`
		PPeriods         []pPeriodDTO     `json:"p_periods"`
		KPeriods         []kPeriodDTO     `json:"k_periods"`
		MonthlyWage      decimal.Decimal  `json:"monthly_wage"`
		Age              int              `json:"age"`
		InflationPercent decimal.Decimal  `json:"inflation_percent"`
		InvestmentType   string           `json:"investment_type"`
	}
)

// decodeJSON reads a single JSON document from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON document")
	}
	return nil
}

func toTransactionInputs(dtos []transactionDTO) []core.TransactionInput {
	inputs := make([]core.TransactionInput, len(dtos))
	for i, d := range dtos {
		inputs[i] = core.TransactionInput{Date: d.Date, Amount: d.Amount}
	}
	return inputs
}

func toReportedTransactions(dtos []reportedTransactionDTO) []core.ReportedTransaction {
	entries := make([]core.ReportedTransaction, len(dtos))
	for i, d := range dtos {
		entries[i] = core.ReportedTransaction{
			Date:      d.Date,
			Amount:    d.Amount,
			Ceiling:   d.Ceiling,
			Remainder: d.Remainder,
		}
	}
	return entries
}

// toPeriodRules parses the period lists. Period boundaries must be valid
// instants up front; unlike transaction dates they carry no per-entry error
// reporting.
func toPeriodRules(qs []qPeriodDTO, ps []pPeriodDTO, ks []kPeriodDTO) (core.PeriodRules, error) {
	var rules core.PeriodRules

	for i, q := range qs {
		start, end, err := parsePeriodBounds(q.StartDate, q.EndDate)
		if err != nil {
			return core.PeriodRules{}, fmt.Errorf("q_periods[%d]: %w", i, err)
		}
		rules.QPeriods = append(rules.QPeriods, core.QPeriod{
			FixedValue: q.FixedValue,
			Start:      start,
			End:        end,
		})
	}

	for i, p := range ps {
		start, end, err := parsePeriodBounds(p.StartDate, p.EndDate)
		if err != nil {
			return core.PeriodRules{}, fmt.Errorf("p_periods[%d]: %w", i, err)
		}
		rules.PPeriods = append(rules.PPeriods, core.PPeriod{
			ExtraValue: p.ExtraValue,
			Start:      start,
			End:        end,
		})
	}

	for i, k := range ks {
		start, end, err := parsePeriodBounds(k.StartDate, k.EndDate)
		if err != nil {
			return core.PeriodRules{}, fmt.Errorf("k_periods[%d]: %w", i, err)
		}
		rules.KPeriods = append(rules.KPeriods, core.KPeriod{Start: start, End: end})
	}

	return rules, nil
}

func parsePeriodBounds(startDate, endDate string) (core.Instant, core.Instant, error) {
	start, err := core.ParseInstant(startDate)
	if err != nil {
		return core.Instant{}, core.Instant{}, fmt.Errorf("start_date: %w", err)
	}
	end, err := core.ParseInstant(endDate)
	if err != nil {
		return core.Instant{}, core.Instant{}, fmt.Errorf("end_date: %w", err)
	}
	return start, end, nil
}
