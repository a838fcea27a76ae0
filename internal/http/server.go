package http

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"risparmio/internal/config"
	"risparmio/internal/log"
	"risparmio/internal/middleware/ratelimit"
	"risparmio/internal/middleware/security"
	"risparmio/internal/middleware/trace"
	"risparmio/internal/services"
)

// appMetrics holds process-level counters exposed on /metrics.
type appMetrics struct {
	startedAt           time.Time
	batchesProcessed    int64
	projectionsComputed int64
}

// Server wires the plan service behind the JSON API.
type Server struct {
	http.Server

	plans  *services.PlanService
	logger *log.Logger

	rateLimiter      *ratelimit.Limiter
	traceMiddleware  *trace.Middleware
	securityHeaders  *security.HeadersMiddleware
	securityDetector *security.Detector

	metrics      appMetrics
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(cfg *config.Config, plans *services.PlanService, logger *log.Logger) *Server {
	s := &Server{
		plans:  plans,
		logger: logger.WithComponent(log.ComponentHTTP),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
		}),
		securityHeaders:  security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		securityDetector: security.NewDetector(),
		metrics:          appMetrics{startedAt: time.Now()},
	}
	s.traceMiddleware = trace.NewMiddleware(s.securityDetector.ExtractClientIP)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	// Rate limiting covers the processing endpoints only; probes stay cheap
	// and unmetered.
	limited := s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, nil)
	mux.Handle("/api/v1/transactions/parse", limited(http.HandlerFunc(s.handleParse)))
	mux.Handle("/api/v1/transactions/validate", limited(http.HandlerFunc(s.handleValidate)))
	mux.Handle("/api/v1/transactions/filter", limited(http.HandlerFunc(s.handleFilter)))
	mux.Handle("/api/v1/savings/returns", limited(http.HandlerFunc(s.handleReturns)))

	// Headers outermost so every response carries them, then tracing, then
	// detection inside the traced context.
	handler := s.securityHeaders.Middleware(
		s.traceMiddleware.Middleware(
			s.detectSuspicious(mux)))

	s.Server = http.Server{
		Addr:           net.JoinHostPort("", cfg.Port),
		Handler:        handler,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	return s
}

// detectSuspicious logs probe-looking requests. Detection is advisory: the
// request proceeds either way and the counter feeds /metrics.
func (s *Server) detectSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.securityDetector.DetectSuspiciousRequest(r) {
			s.logger.WarnContext(r.Context(), "Suspicious request detected",
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldClientIP, s.securityDetector.ExtractClientIP(r),
				log.FieldUserAgent, r.Header.Get("User-Agent"))
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the HTTP server and the limiter's cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
