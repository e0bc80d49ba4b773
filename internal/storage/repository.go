package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"findash/internal/dataset"
	"findash/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository keeps the six tables in a SQLite database.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	path    string
	logger  *log.Logger
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		path:    dbPath,
		logger:  logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) String() string { return "sqlite:" + r.path }

// Load reads every table in insertion order.
func (r *SQLiteRepository) Load(ctx context.Context) (dataset.Tables, error) {
	var (
		t   dataset.Tables
		err error
	)
	if t.Ledger, err = r.queries.ListLedgerEntries(ctx); err != nil {
		return dataset.Tables{}, fmt.Errorf("list ledger entries: %w", err)
	}
	if t.Budgets, err = r.queries.ListBudgetLimits(ctx); err != nil {
		return dataset.Tables{}, fmt.Errorf("list budget limits: %w", err)
	}
	if t.NetWorth, err = r.queries.ListNetWorthSnapshots(ctx); err != nil {
		return dataset.Tables{}, fmt.Errorf("list net worth snapshots: %w", err)
	}
	if t.Prices, err = r.queries.ListAssetPrices(ctx); err != nil {
		return dataset.Tables{}, fmt.Errorf("list asset prices: %w", err)
	}
	if t.Holdings, err = r.queries.ListHoldings(ctx); err != nil {
		return dataset.Tables{}, fmt.Errorf("list holdings: %w", err)
	}
	if t.Goals, err = r.queries.ListGoals(ctx); err != nil {
		return dataset.Tables{}, fmt.Errorf("list goals: %w", err)
	}

	for table, n := range dataset.New(t).Counts() {
		r.logger.DebugContext(ctx, "Table loaded", log.NewFields().WithTable(table, n).WithOperation(log.OpLoad).ToSlice()...)
	}
	return t, nil
}

// ReplaceAll swaps the stored tables for t in a single transaction.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, t dataset.Tables) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteAll(ctx); err != nil {
		return err
	}
	if err := insertAll(ctx, t.Ledger, q.InsertLedgerEntry); err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	if err := insertAll(ctx, t.Budgets, q.InsertBudgetLimit); err != nil {
		return fmt.Errorf("insert budget limit: %w", err)
	}
	if err := insertAll(ctx, t.NetWorth, q.InsertNetWorthSnapshot); err != nil {
		return fmt.Errorf("insert net worth snapshot: %w", err)
	}
	if err := insertAll(ctx, t.Prices, q.InsertAssetPrice); err != nil {
		return fmt.Errorf("insert asset price: %w", err)
	}
	if err := insertAll(ctx, t.Holdings, q.InsertHolding); err != nil {
		return fmt.Errorf("insert holding: %w", err)
	}
	if err := insertAll(ctx, t.Goals, q.InsertGoal); err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	r.logger.InfoContext(ctx, "Tables replaced",
		log.FieldOperation, log.OpImport,
		log.FieldRows, len(t.Ledger)+len(t.Budgets)+len(t.NetWorth)+len(t.Prices)+len(t.Holdings)+len(t.Goals))
	return nil
}

func insertAll[T any](ctx context.Context, rows []T, insert func(context.Context, T) error) error {
	for _, row := range rows {
		if err := insert(ctx, row); err != nil {
			return err
		}
	}
	return nil
}
