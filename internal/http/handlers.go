package http

import (
	"net/http"
	"time"

	"findash/internal/dataset"
)

// handleStatus answers the root route.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, map[string]any{
		"status":  "ok",
		"message": "personal finance API running",
		"source":  s.source,
	})
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}

// handleReady reports the loaded table sizes. The service is ready once
// the ledger holds at least one entry, since every month-scoped route
// depends on it.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	counts := s.engine.Counts()

	status := "ready"
	httpStatus := http.StatusOK
	if counts[dataset.TableLedger] == 0 {
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	}

	traceMetrics := s.traceMiddleware.GetMetrics()
	checks := map[string]any{
		"rate_limiter": s.rateLimiter.GetMetrics(),
		"requests": map[string]int64{
			"total":     traceMetrics.TotalRequests,
			"failed":    traceMetrics.FailedRequests,
			"in_flight": traceMetrics.InFlightRequest,
		},
	}
	if s.responses != nil {
		checks["response_cache"] = s.responses.Stats()
	}

	response := map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"source":    s.source,
		"tables":    counts,
		"checks":    checks,
	}

	if err := NewJSONResponse().Status(httpStatus).Data(response).Write(w); err != nil {
		s.requestLogger(r).ErrorContext(r.Context(), "Response encoding failed", "error", err.Error())
	}
}
