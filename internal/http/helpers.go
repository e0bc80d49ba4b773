package http

import (
	"errors"
	"net/http"

	"findash/internal/core"
	"findash/internal/log"
)

// writeJSON sends v with status 200.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	if err := NewJSONResponse().Data(v).Write(w); err != nil {
		s.requestLogger(r).ErrorContext(r.Context(), "Response encoding failed", log.FieldError, err.Error())
	}
}

// writeError maps err onto a status code: missing data and unknown goals
// are 404, malformed parameters 400, anything else 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := s.requestLogger(r)
	switch {
	case IsParamError(err):
		BadRequestError(err.Error()).Write(w)
	case errors.Is(err, core.ErrEmptyDataset), errors.Is(err, core.ErrGoalNotFound):
		logger.DebugContext(r.Context(), "Resource not available", log.FieldPath, r.URL.Path, log.FieldError, err.Error())
		NotFoundError(err.Error()).Write(w)
	default:
		logger.ErrorContext(r.Context(), "Request failed", log.FieldPath, r.URL.Path, log.FieldError, err.Error())
		InternalServerError("internal server error").Write(w)
	}
}

// requestLogger returns the request-scoped logger set by the trace
// middleware, reporting under the http component.
func (s *Server) requestLogger(r *http.Request) *log.Logger {
	return log.FromContextOr(r.Context(), s.logger).WithComponent(log.ComponentHTTP)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	s.requestLogger(r).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.clientIP.ExtractClientIP(r),
		log.FieldPath, r.URL.Path)
	TooManyRequestsError().Write(w)
}

func (s *Server) handleFallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	NotFoundError("no route for " + r.URL.Path).Write(w)
}
