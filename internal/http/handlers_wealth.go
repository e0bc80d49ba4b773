package http

import "net/http"

func (s *Server) handleNetWorthSeries(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, map[string]any{"series": s.engine.NetWorthSeries()})
}

func (s *Server) handleNetWorthChanges(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, map[string]any{"changes": s.engine.NetWorthChanges()})
}

func (s *Server) handleInvestmentsHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.engine.History()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, map[string]any{
		"valuation": s.engine.Valuation(),
		"history":   history,
	})
}

func (s *Server) handleInvestmentsAlloc(w http.ResponseWriter, r *http.Request) {
	alloc := s.engine.Allocation()
	s.writeJSON(w, r, map[string]any{
		"allocation":  alloc.Rows,
		"total_value": alloc.TotalValue,
	})
}
