// Package analytics turns the immutable input tables into monthly summaries,
// budget classifications, net-worth and portfolio series and savings-goal
// projections.
//
// Every Engine method is a pure, synchronous computation over the Snapshot
// it was built with plus its own arguments. Engines hold no mutable state
// and are safe for concurrent use.
package analytics

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"findash/internal/core"
	"findash/internal/dataset"
)

// ValuationMode selects how monthly portfolio values treat several price
// observations of the same asset within one month.
type ValuationMode string

const (
	// ValuationSumAll adds up every observation, so a month with two
	// prices for one asset counts that holding twice.
	ValuationSumAll ValuationMode = "sum_all"
	// ValuationLatestPerMonth keeps only the latest observation of each
	// asset within a month.
	ValuationLatestPerMonth ValuationMode = "latest_per_month"
)

// IsValid returns true if the mode is known.
func (m ValuationMode) IsValid() bool {
	switch m {
	case ValuationSumAll, ValuationLatestPerMonth:
		return true
	default:
		return false
	}
}

type Engine struct {
	data      *dataset.Snapshot
	now       func() time.Time
	valuation ValuationMode
}

type Option func(*Engine)

// WithClock sets the source of "today" used by the goal projector.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithValuation sets the portfolio valuation mode. Unknown modes are ignored.
func WithValuation(mode ValuationMode) Option {
	return func(e *Engine) {
		if mode.IsValid() {
			e.valuation = mode
		}
	}
}

// New creates an engine over data. A nil snapshot is treated as empty.
func New(data *dataset.Snapshot, opts ...Option) *Engine {
	if data == nil {
		data = dataset.Empty()
	}
	e := &Engine{
		data:      data,
		now:       time.Now,
		valuation: ValuationSumAll,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Valuation returns the configured valuation mode.
func (e *Engine) Valuation() ValuationMode { return e.valuation }

// LatestMonth returns the greatest month-key present in the ledger.
func (e *Engine) LatestMonth() (core.MonthKey, error) {
	var latest core.MonthKey
	for _, entry := range e.data.Ledger() {
		if entry.Month > latest {
			latest = entry.Month
		}
	}
	if latest.IsZero() {
		return "", fmt.Errorf("%w: no %s entries", core.ErrEmptyDataset, dataset.TableLedger)
	}
	return latest, nil
}

// ResolveMonth returns month, or the latest ledger month when month is empty.
func (e *Engine) ResolveMonth(month core.MonthKey) (core.MonthKey, error) {
	if !month.IsZero() {
		return month, nil
	}
	return e.LatestMonth()
}

// monthEntries returns the ledger entries of month in input order,
// optionally restricted to one entry type.
func (e *Engine) monthEntries(month core.MonthKey, only core.EntryType) []core.LedgerEntry {
	var out []core.LedgerEntry
	for _, entry := range e.data.Ledger() {
		if entry.Month != month {
			continue
		}
		if only != "" && entry.Type != only {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// sortedNetWorth returns the net-worth rows in ascending month order.
func (e *Engine) sortedNetWorth() []core.NetWorthSnapshot {
	rows := slices.Clone(e.data.NetWorth())
	slices.SortStableFunc(rows, func(a, b core.NetWorthSnapshot) int {
		return cmp.Compare(a.Month, b.Month)
	})
	return rows
}

// Counts reports the number of rows of each input table.
func (e *Engine) Counts() map[string]int { return e.data.Counts() }
