package http

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"risparmio/internal/core"
	"risparmio/internal/log"
	"risparmio/internal/services"
)

// requirePOST answers 405 for anything but POST.
func requirePOST(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

// handleParse runs the parse mode. One unparseable date rejects the whole
// batch with 422.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if !requirePOST(w, r) {
		return
	}

	var req parseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.logger.WarnContext(r.Context(), "Request body rejected",
			log.FieldOperation, log.OpParse, log.FieldError, err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	report, err := s.plans.Parse(r.Context(), toTransactionInputs(req.Transactions))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	atomic.AddInt64(&s.metrics.batchesProcessed, 1)
	writeJSON(w, http.StatusOK, newParseResponse(report))
}

// handleValidate runs the validate mode over caller-supplied figures.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if !requirePOST(w, r) {
		return
	}

	var req validateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.logger.WarnContext(r.Context(), "Request body rejected",
			log.FieldOperation, log.OpValidate, log.FieldError, err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	report := s.plans.Validate(r.Context(), toReportedTransactions(req.Transactions), req.MonthlyWage)

	atomic.AddInt64(&s.metrics.batchesProcessed, 1)
	writeJSON(w, http.StatusOK, newValidateResponse(report))
}

// handleFilter runs the filter mode with the supplied period rules.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	if !requirePOST(w, r) {
		return
	}

	var req filterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.logger.WarnContext(r.Context(), "Request body rejected",
			log.FieldOperation, log.OpFilter, log.FieldError, err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	rules, err := toPeriodRules(req.QPeriods, req.PPeriods, req.KPeriods)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report := s.plans.Filter(r.Context(), toTransactionInputs(req.Transactions), rules)

	atomic.AddInt64(&s.metrics.batchesProcessed, 1)
	writeJSON(w, http.StatusOK, newFilterResponse(report))
}

// handleReturns runs the returns mode and projects every savings window.
func (s *Server) handleReturns(w http.ResponseWriter, r *http.Request) {
	if !requirePOST(w, r) {
		return
	}

	var req returnsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.logger.WarnContext(r.Context(), "Request body rejected",
			log.FieldOperation, log.OpReturns, log.FieldError, err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	rules, err := toPeriodRules(req.QPeriods, req.PPeriods, req.KPeriods)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	investmentType, err := core.ParseInvestmentType(req.InvestmentType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Age <= 0 {
		writeError(w, http.StatusBadRequest, "age must be a positive integer")
		return
	}
	if req.MonthlyWage.IsNegative() {
		writeError(w, http.StatusBadRequest, "monthly_wage must not be negative")
		return
	}
	// A deflator of -100% or worse has no meaning and would divide by zero.
	if req.InflationPercent.LessThanOrEqual(decimal.NewFromInt(-100)) {
		writeError(w, http.StatusBadRequest, "inflation_percent must be greater than -100")
		return
	}

	params := services.ProjectionParams{
		MonthlyWage:      req.MonthlyWage,
		Age:              req.Age,
		InflationPercent: req.InflationPercent,
		InvestmentType:   investmentType,
	}

	report, err := s.plans.Returns(r.Context(), toTransactionInputs(req.Transactions), rules, params)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Projection failed",
			log.FieldOperation, log.OpReturns,
			log.FieldInvestmentType, req.InvestmentType,
			log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "projection failed")
		return
	}

	atomic.AddInt64(&s.metrics.batchesProcessed, 1)
	atomic.AddInt64(&s.metrics.projectionsComputed, 1)
	writeJSON(w, http.StatusOK, newReturnsResponse(report))
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.metrics.startedAt).String(),
	})
}

// handleReady reports readiness with per-dependency detail. Event publishing
// is optional, so a missing broker degrades the checks without failing them.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]any)

	if s.plans.PublishingEnabled() {
		checks["event_publisher"] = "ok"
	} else {
		checks["event_publisher"] = "not_configured"
	}

	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ready",
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	securityMetrics := s.securityDetector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()

	batches := atomic.LoadInt64(&s.metrics.batchesProcessed)
	projections := atomic.LoadInt64(&s.metrics.projectionsComputed)
	uptime := time.Since(s.metrics.startedAt)

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP http_request_duration_avg_microseconds Average response time\n")
	fmt.Fprintf(w, "# TYPE http_request_duration_avg_microseconds gauge\n")
	fmt.Fprintf(w, "http_request_duration_avg_microseconds %d\n\n", traceMetrics.AverageResponseTime)

	fmt.Fprintf(w, "# HELP transaction_batches_total Total transaction batches processed\n")
	fmt.Fprintf(w, "# TYPE transaction_batches_total counter\n")
	fmt.Fprintf(w, "transaction_batches_total %d\n\n", batches)

	fmt.Fprintf(w, "# HELP projections_computed_total Total savings projections computed\n")
	fmt.Fprintf(w, "# TYPE projections_computed_total counter\n")
	fmt.Fprintf(w, "projections_computed_total %d\n\n", projections)

	fmt.Fprintf(w, "# HELP rate_limit_hits_total Total rate limited requests\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n\n", rateLimitMetrics.TotalHits)

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", rateLimitMetrics.ClientCount)

	fmt.Fprintf(w, "# HELP suspicious_requests_total Total suspicious requests detected\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", securityMetrics.SuspiciousRequests)

	fmt.Fprintf(w, "# HELP invalid_ip_attempts_total Forwarded headers carrying unparseable IPs\n")
	fmt.Fprintf(w, "# TYPE invalid_ip_attempts_total counter\n")
	fmt.Fprintf(w, "invalid_ip_attempts_total %d\n\n", securityMetrics.InvalidIPAttempts)

	fmt.Fprintf(w, "# HELP memory_alloc_bytes Bytes of allocated heap objects\n")
	fmt.Fprintf(w, "# TYPE memory_alloc_bytes gauge\n")
	fmt.Fprintf(w, "memory_alloc_bytes %d\n\n", mem.Alloc)

	fmt.Fprintf(w, "# HELP memory_sys_bytes Bytes obtained from the OS\n")
	fmt.Fprintf(w, "# TYPE memory_sys_bytes gauge\n")
	fmt.Fprintf(w, "memory_sys_bytes %d\n\n", mem.Sys)

	fmt.Fprintf(w, "# HELP goroutines Current number of goroutines\n")
	fmt.Fprintf(w, "# TYPE goroutines gauge\n")
	fmt.Fprintf(w, "goroutines %d\n\n", runtime.NumGoroutine())

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", uptime.Seconds())
}
