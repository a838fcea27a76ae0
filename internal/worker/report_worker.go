// Package worker consumes projection events and keeps running aggregates
// for a periodic report line.
package worker

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"risparmio/internal/amqp"
	"risparmio/internal/cache"
	"risparmio/internal/log"
)

// ReportWorker folds projection events into running totals. Events are
// deduplicated by ID so at-least-once delivery cannot skew the counts.
type ReportWorker struct {
	mu     sync.Mutex
	stats  ReportStats
	seen   *cache.LRUCache[struct{}]
	logger *log.Logger
}

// ReportStats is the aggregate state accumulated since the worker started.
type ReportStats struct {
	Events         int64
	Duplicates     int64
	Transactions   int64
	Windows        int64
	InvestedByType map[string]decimal.Decimal
}

// NewReportWorker builds a worker whose dedup window holds dedupSize event
// IDs for dedupTTL each.
func NewReportWorker(dedupSize int, dedupTTL time.Duration, logger *log.Logger) *ReportWorker {
	return &ReportWorker{
		stats: ReportStats{
			InvestedByType: make(map[string]decimal.Decimal),
		},
		seen:   cache.NewLRUCache[struct{}](dedupSize, dedupTTL),
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleProjectionComputed processes a single projection event. Redelivered
// and malformed events are dropped without error so they are not requeued.
func (w *ReportWorker) HandleProjectionComputed(ctx context.Context, msg *amqp.ProjectionComputedMessage) error {
	invested, err := decimal.NewFromString(msg.InvestedTotal)
	if err != nil {
		w.logger.WarnContext(ctx, "Dropping event with unparseable invested total",
			log.FieldEventID, msg.ID,
			log.FieldInvestedTotal, msg.InvestedTotal,
			log.FieldError, err)
		return nil
	}

	if !w.seen.Remember(msg.ID, struct{}{}) {
		w.mu.Lock()
		w.stats.Duplicates++
		w.mu.Unlock()

		w.logger.DebugContext(ctx, "Dropping duplicate projection event",
			log.FieldEventID, msg.ID)
		return nil
	}

	w.mu.Lock()
	w.stats.Events++
	w.stats.Transactions += int64(msg.TransactionCount)
	w.stats.Windows += int64(msg.WindowCount)
	w.stats.InvestedByType[msg.InvestmentType] = w.stats.InvestedByType[msg.InvestmentType].Add(invested)
	w.mu.Unlock()

	w.logger.InfoContext(ctx, "Recorded projection event",
		log.FieldEventID, msg.ID,
		log.FieldInvestmentType, msg.InvestmentType,
		log.FieldTransactionCount, msg.TransactionCount,
		log.FieldWindowCount, msg.WindowCount,
		log.FieldInvestedTotal, msg.InvestedTotal)

	return nil
}

// Snapshot returns a copy of the current aggregates.
func (w *ReportWorker) Snapshot() ReportStats {
	w.mu.Lock()
	defer w.mu.Unlock()

	snapshot := w.stats
	snapshot.InvestedByType = make(map[string]decimal.Decimal, len(w.stats.InvestedByType))
	for investmentType, total := range w.stats.InvestedByType {
		snapshot.InvestedByType[investmentType] = total
	}
	return snapshot
}

// LogSummary emits one report line with everything accumulated so far.
func (w *ReportWorker) LogSummary(ctx context.Context) {
	stats := w.Snapshot()

	types := make([]string, 0, len(stats.InvestedByType))
	for investmentType := range stats.InvestedByType {
		types = append(types, investmentType)
	}
	sort.Strings(types)

	args := []any{
		"events", stats.Events,
		"duplicates", stats.Duplicates,
		"transactions", stats.Transactions,
		"windows", stats.Windows,
	}
	for _, investmentType := range types {
		args = append(args, "invested_"+investmentType, stats.InvestedByType[investmentType].String())
	}

	w.logger.InfoContext(ctx, "Projection report", args...)
}

// CleanExpired drops expired dedup entries and reports how many went.
func (w *ReportWorker) CleanExpired() int {
	return w.seen.CleanExpired()
}
