package http

import (
	"net/http"

	"findash/internal/log"
)

const defaultHorizonMonths = 6

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, map[string]any{"goals": s.engine.Goals()})
}

// handleSimulateContribution projects a goal under a fixed monthly
// contribution. A projection that cannot be computed is still a 200.
func (s *Server) handleSimulateContribution(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	name, err := RequireString(query, "goal")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	contribution, err := ParseDecimal(query, "contribution")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	horizon, err := ParseInt(query, "horizon", defaultHorizonMonths)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	goal, err := s.engine.Goal(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	projection := s.engine.SimulateByContribution(goal, contribution, horizon)
	if !projection.Computable() {
		s.requestLogger(r).DebugContext(r.Context(), "Projection not computable",
			log.FieldGoal, goal.Name, "reason", projection.Reason)
	}
	s.writeJSON(w, r, projection)
}

// handleSimulateDate computes the contribution needed to reach a goal by
// the target date.
func (s *Server) handleSimulateDate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	name, err := RequireString(query, "goal")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	target, err := ParseDate(query, "target")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	goal, err := s.engine.Goal(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, s.engine.SimulateByDate(goal, target))
}
