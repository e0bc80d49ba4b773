package http

import (
	"errors"
	"net/http"

	"findash/internal/analytics"
	"findash/internal/core"
)

const (
	defaultTopExpenses       = 10
	defaultTransactionsLimit = 200
)

// resolveMonth parses the month parameter and fills in the latest ledger
// month when it is absent.
func (s *Server) resolveMonth(r *http.Request) (core.MonthKey, error) {
	month, err := ParseMonth(r.URL.Query())
	if err != nil {
		return "", err
	}
	return s.engine.ResolveMonth(month)
}

type summaryResponse struct {
	analytics.MonthSummary
	// KPIs is the latest net-worth position, omitted without snapshots.
	KPIs *core.NetWorthSnapshot `json:"kpis,omitempty"`
}

func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"months": s.engine.AvailableMonths()}
	if latest, err := s.engine.LatestMonth(); err == nil {
		resp["latest_ledger_month"] = latest
	}
	s.writeJSON(w, r, resp)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	month, err := s.resolveMonth(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	summary, err := s.engine.Summary(month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := summaryResponse{MonthSummary: summary}
	if pos, err := s.engine.CurrentPosition(); err == nil {
		resp.KPIs = &pos
	} else if !errors.Is(err, core.ErrEmptyDataset) {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, resp)
}

func (s *Server) handleExpensesDonut(w http.ResponseWriter, r *http.Request) {
	month, err := s.resolveMonth(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	donut, err := s.engine.CategoryBreakdown(month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, map[string]any{"month": month, "donut": donut})
}

func (s *Server) handleTopExpenses(w http.ResponseWriter, r *http.Request) {
	n, err := ParseInt(r.URL.Query(), "n", defaultTopExpenses)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	month, err := s.resolveMonth(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	top, err := s.engine.TopExpenses(month, n)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, map[string]any{"month": month, "top": top})
}

func (s *Server) handleBudgetProgress(w http.ResponseWriter, r *http.Request) {
	month, err := s.resolveMonth(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	progress, err := s.engine.BudgetProgress(month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, map[string]any{"month": month, "progress": progress})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := ParseInt(r.URL.Query(), "limit", defaultTransactionsLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	month, err := s.resolveMonth(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rows, err := s.engine.Transactions(month, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, map[string]any{"month": month, "rows": rows})
}
