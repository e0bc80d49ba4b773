// Package dataset holds the input tables of the analytics engine.
//
// A Snapshot is built once at startup from the loaded Tables and is never
// mutated afterwards, so any number of goroutines may read it without
// synchronization. Updating the data requires building a new Snapshot.
package dataset

import (
	"slices"

	"findash/internal/core"
)

// Tables is the raw result of a loader.
type Tables struct {
	Ledger   []core.LedgerEntry
	Budgets  []core.BudgetLimit
	NetWorth []core.NetWorthSnapshot
	Prices   []core.AssetPrice
	Holdings []core.Holding
	Goals    []core.Goal
}

// Snapshot is the immutable Table Store.
type Snapshot struct {
	tables    Tables
	holdingBy map[string]core.Holding
}

// New copies the tables into a Snapshot and indexes holdings by asset.
// When an asset appears in more than one holding row the first row wins.
func New(t Tables) *Snapshot {
	s := &Snapshot{
		tables: Tables{
			Ledger:   slices.Clone(t.Ledger),
			Budgets:  slices.Clone(t.Budgets),
			NetWorth: slices.Clone(t.NetWorth),
			Prices:   slices.Clone(t.Prices),
			Holdings: slices.Clone(t.Holdings),
			Goals:    slices.Clone(t.Goals),
		},
		holdingBy: make(map[string]core.Holding, len(t.Holdings)),
	}
	for _, h := range s.tables.Holdings {
		if _, ok := s.holdingBy[h.AssetID]; ok {
			continue
		}
		s.holdingBy[h.AssetID] = h
	}
	return s
}

// Empty returns a Snapshot with no rows.
func Empty() *Snapshot { return New(Tables{}) }

// The accessors below return the backing slices; callers must treat them
// as read-only.

func (s *Snapshot) Ledger() []core.LedgerEntry        { return s.tables.Ledger }
func (s *Snapshot) Budgets() []core.BudgetLimit       { return s.tables.Budgets }
func (s *Snapshot) NetWorth() []core.NetWorthSnapshot { return s.tables.NetWorth }
func (s *Snapshot) Prices() []core.AssetPrice         { return s.tables.Prices }
func (s *Snapshot) Holdings() []core.Holding          { return s.tables.Holdings }
func (s *Snapshot) Goals() []core.Goal                { return s.tables.Goals }

// Holding looks up the holding for an asset.
func (s *Snapshot) Holding(assetID string) (core.Holding, bool) {
	h, ok := s.holdingBy[assetID]
	return h, ok
}

// Tables returns a copy of the tables, e.g. for importing into another store.
func (s *Snapshot) Tables() Tables {
	return Tables{
		Ledger:   slices.Clone(s.tables.Ledger),
		Budgets:  slices.Clone(s.tables.Budgets),
		NetWorth: slices.Clone(s.tables.NetWorth),
		Prices:   slices.Clone(s.tables.Prices),
		Holdings: slices.Clone(s.tables.Holdings),
		Goals:    slices.Clone(s.tables.Goals),
	}
}

// Counts reports the number of rows per table, keyed by table name.
func (s *Snapshot) Counts() map[string]int {
	return map[string]int{
		TableLedger:   len(s.tables.Ledger),
		TableBudgets:  len(s.tables.Budgets),
		TableNetWorth: len(s.tables.NetWorth),
		TablePrices:   len(s.tables.Prices),
		TableHoldings: len(s.tables.Holdings),
		TableGoals:    len(s.tables.Goals),
	}
}

// Table names, shared by loaders, logs and error messages.
const (
	TableLedger   = "ledger"
	TableBudgets  = "budgets"
	TableNetWorth = "net_worth"
	TablePrices   = "asset_prices"
	TableHoldings = "holdings"
	TableGoals    = "goals"
)
