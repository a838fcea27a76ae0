package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"risparmio/internal/amqp"
	"risparmio/internal/core"
)

// PlanService orchestrates the batch processing modes and announces computed
// projections over AMQP.
type PlanService struct {
	rates      RateTable
	amqpClient *amqp.Client
}

func NewPlanService(rates RateTable, amqpClient *amqp.Client) *PlanService {
	return &PlanService{
		rates:      rates,
		amqpClient: amqpClient,
	}
}

// ReturnsReport is the returns mode output: one projection per window plus
// the totals over the accepted batch.
type ReturnsReport struct {
	Windows          []core.SavingsWindow
	Totals           core.BatchTotals
	TransactionCount int
}

// Parse derives ceiling and remainder for a whole batch. One unparseable
// date rejects the batch.
func (s *PlanService) Parse(ctx context.Context, inputs []core.TransactionInput) (*ParseReport, error) {
	report, err := ParseTransactions(inputs)
	if err != nil {
		slog.WarnContext(ctx, "Batch rejected by parse mode",
			"count", len(inputs), "error", err)
		return nil, err
	}

	slog.InfoContext(ctx, "Parsed transaction batch",
		"count", len(report.Transactions),
		"total_remainder", report.Totals.Remainder)
	return report, nil
}

// Validate cross-checks caller-supplied entries against recomputed figures.
// The monthly wage travels with the batch for context and reporting.
func (s *PlanService) Validate(ctx context.Context, entries []core.ReportedTransaction, monthlyWage decimal.Decimal) *ValidationReport {
	report := ValidateTransactions(entries)

	slog.InfoContext(ctx, "Validated transaction batch",
		"count", len(entries),
		"valid", len(report.Valid),
		"invalid", len(report.Invalid),
		"monthly_wage", monthlyWage)
	return report
}

// Filter keeps entries surviving minimal validation, resolving remainders
// through the period rules and flagging window membership.
func (s *PlanService) Filter(ctx context.Context, inputs []core.TransactionInput, rules core.PeriodRules) *FilterReport {
	report := FilterTransactions(inputs, rules)

	slog.InfoContext(ctx, "Filtered transaction batch",
		"count", len(inputs),
		"accepted", len(report.Accepted),
		"rejected", len(report.Rejected))
	return report
}

// Returns runs the returns mode and projects every window. Entries failing
// minimal validation are dropped silently. A computed projection is
// announced over AMQP; publish failures never fail the request.
func (s *PlanService) Returns(ctx context.Context, inputs []core.TransactionInput, rules core.PeriodRules, params ProjectionParams) (*ReturnsReport, error) {
	res, _ := runBatch(batchPolicies[ModeReturns], inputEntries(inputs), rules)

	windows, err := ProjectWindows(res.processed, rules.KPeriods, params, s.rates)
	if err != nil {
		return nil, fmt.Errorf("project windows: %w", err)
	}

	report := &ReturnsReport{
		Windows:          windows,
		Totals:           res.totals,
		TransactionCount: len(res.processed),
	}

	slog.InfoContext(ctx, "Computed savings projection",
		"transactions", report.TransactionCount,
		"windows", len(report.Windows),
		"investment_type", params.InvestmentType,
		"invested_total", report.Totals.Remainder)

	// Announce async (non-blocking); the projection is already computed.
	if err := s.publishProjectionComputed(ctx, params.InvestmentType, report); err != nil {
		slog.ErrorContext(ctx, "Failed to publish projection event",
			"investment_type", params.InvestmentType, "error", err)
		// Don't fail the request - the caller still gets the projection
	}

	return report, nil
}

func (s *PlanService) publishProjectionComputed(ctx context.Context, investmentType core.InvestmentType, report *ReturnsReport) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping projection event")
		return nil
	}

	msg := amqp.NewProjectionComputedMessage(
		investmentType.String(),
		report.TransactionCount,
		len(report.Windows),
		report.Totals.Remainder.String(),
	)
	return s.amqpClient.PublishProjectionComputed(ctx, msg)
}

// PublishingEnabled reports whether projection events go anywhere.
func (s *PlanService) PublishingEnabled() bool {
	return s.amqpClient != nil
}

// Close releases the AMQP connection if one was configured.
func (s *PlanService) Close() error {
	if s.amqpClient == nil {
		return nil
	}
	if err := s.amqpClient.Close(); err != nil {
		return fmt.Errorf("close plan service: %w", err)
	}
	return nil
}
