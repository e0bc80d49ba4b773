package storage

import (
	"context"
	"database/sql"
	"fmt"

	"findash/internal/core"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
}

// Queries holds the SQL for the six tables. Amounts and dates are written
// as their canonical strings and scanned back through decimal.Decimal and
// core.Date. Rows are always read back in insertion order, which is the
// order of the source files.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// tableNames lists the SQL tables in dependency-free delete order.
var tableNames = []string{
	"ledger_entries",
	"budget_limits",
	"net_worth_snapshots",
	"asset_prices",
	"holdings",
	"goals",
}

func (q *Queries) DeleteAll(ctx context.Context) error {
	for _, table := range tableNames {
		if _, err := q.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

const insertLedgerEntry = `INSERT INTO ledger_entries (date, month, type, category, amount, description) VALUES (?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertLedgerEntry(ctx context.Context, e core.LedgerEntry) error {
	_, err := q.db.ExecContext(ctx, insertLedgerEntry, e.Date.String(), string(e.Month), string(e.Type), e.Category, e.Amount.String(), e.Description)
	return err
}

const listLedgerEntries = `SELECT date, month, type, category, amount, description FROM ledger_entries ORDER BY id`

func (q *Queries) ListLedgerEntries(ctx context.Context) ([]core.LedgerEntry, error) {
	return list(ctx, q.db, listLedgerEntries, func(rows *sql.Rows) (core.LedgerEntry, error) {
		var (
			e           core.LedgerEntry
			month, kind string
		)
		if err := rows.Scan(&e.Date, &month, &kind, &e.Category, &e.Amount, &e.Description); err != nil {
			return e, err
		}
		// The month column is redundant with date; a row edited by hand
		// may disagree.
		e.Month = e.Date.Key()
		if month != "" && core.MonthKey(month) != e.Month {
			return e, fmt.Errorf("%w: month %s does not match date %s", core.ErrInvalidMonth, month, e.Date)
		}
		e.Type = core.EntryType(kind)
		return e, nil
	})
}

const insertBudgetLimit = `INSERT INTO budget_limits (month, category, limit_amount) VALUES (?, ?, ?)`

func (q *Queries) InsertBudgetLimit(ctx context.Context, b core.BudgetLimit) error {
	_, err := q.db.ExecContext(ctx, insertBudgetLimit, string(b.Month), b.Category, b.Limit.String())
	return err
}

const listBudgetLimits = `SELECT month, category, limit_amount FROM budget_limits ORDER BY id`

func (q *Queries) ListBudgetLimits(ctx context.Context) ([]core.BudgetLimit, error) {
	return list(ctx, q.db, listBudgetLimits, func(rows *sql.Rows) (core.BudgetLimit, error) {
		var (
			b     core.BudgetLimit
			month string
		)
		err := rows.Scan(&month, &b.Category, &b.Limit)
		b.Month = core.MonthKey(month)
		return b, err
	})
}

const insertNetWorthSnapshot = `INSERT INTO net_worth_snapshots (month, cumulative_cash, investment_value, net_worth) VALUES (?, ?, ?, ?)`

func (q *Queries) InsertNetWorthSnapshot(ctx context.Context, s core.NetWorthSnapshot) error {
	_, err := q.db.ExecContext(ctx, insertNetWorthSnapshot, string(s.Month), s.CumulativeCash.String(), s.InvestmentValue.String(), s.NetWorth.String())
	return err
}

const listNetWorthSnapshots = `SELECT month, cumulative_cash, investment_value, net_worth FROM net_worth_snapshots ORDER BY id`

func (q *Queries) ListNetWorthSnapshots(ctx context.Context) ([]core.NetWorthSnapshot, error) {
	return list(ctx, q.db, listNetWorthSnapshots, func(rows *sql.Rows) (core.NetWorthSnapshot, error) {
		var (
			s     core.NetWorthSnapshot
			month string
		)
		err := rows.Scan(&month, &s.CumulativeCash, &s.InvestmentValue, &s.NetWorth)
		s.Month = core.MonthKey(month)
		return s, err
	})
}

const insertAssetPrice = `INSERT INTO asset_prices (asset_id, date, price) VALUES (?, ?, ?)`

func (q *Queries) InsertAssetPrice(ctx context.Context, p core.AssetPrice) error {
	_, err := q.db.ExecContext(ctx, insertAssetPrice, p.AssetID, p.Date.String(), p.Price.String())
	return err
}

const listAssetPrices = `SELECT asset_id, date, price FROM asset_prices ORDER BY id`

func (q *Queries) ListAssetPrices(ctx context.Context) ([]core.AssetPrice, error) {
	return list(ctx, q.db, listAssetPrices, func(rows *sql.Rows) (core.AssetPrice, error) {
		var p core.AssetPrice
		err := rows.Scan(&p.AssetID, &p.Date, &p.Price)
		return p, err
	})
}

const insertHolding = `INSERT INTO holdings (asset_id, units) VALUES (?, ?)`

func (q *Queries) InsertHolding(ctx context.Context, h core.Holding) error {
	_, err := q.db.ExecContext(ctx, insertHolding, h.AssetID, h.Units.String())
	return err
}

const listHoldings = `SELECT asset_id, units FROM holdings ORDER BY id`

func (q *Queries) ListHoldings(ctx context.Context) ([]core.Holding, error) {
	return list(ctx, q.db, listHoldings, func(rows *sql.Rows) (core.Holding, error) {
		var h core.Holding
		err := rows.Scan(&h.AssetID, &h.Units)
		return h, err
	})
}

const insertGoal = `INSERT INTO goals (name, target_amount, current_savings, due_date) VALUES (?, ?, ?, ?)`

func (q *Queries) InsertGoal(ctx context.Context, g core.Goal) error {
	_, err := q.db.ExecContext(ctx, insertGoal, g.Name, g.TargetAmount.String(), g.CurrentSavings.String(), g.DueDate.String())
	return err
}

const listGoals = `SELECT name, target_amount, current_savings, due_date FROM goals ORDER BY id`

func (q *Queries) ListGoals(ctx context.Context) ([]core.Goal, error) {
	return list(ctx, q.db, listGoals, func(rows *sql.Rows) (core.Goal, error) {
		var g core.Goal
		err := rows.Scan(&g.Name, &g.TargetAmount, &g.CurrentSavings, &g.DueDate)
		return g, err
	})
}

func list[T any](ctx context.Context, db DBTX, query string, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
