package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"findash/internal/core"
	"findash/internal/dataset"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "findash.db"), nil)
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func sampleTables(t *testing.T) dataset.Tables {
	return dataset.Tables{
		Ledger: []core.LedgerEntry{
			{Date: mustDate(t, "2024-03-05"), Month: "2024-03", Type: core.Expense, Category: "Food", Amount: decimal.RequireFromString("1200000.55"), Description: "Market"},
			{Date: mustDate(t, "2024-03-01"), Month: "2024-03", Type: core.Income, Category: "Salary", Amount: decimal.NewFromInt(3_000_000)},
		},
		Budgets:  []core.BudgetLimit{{Month: "2024-03", Category: "Food", Limit: decimal.NewFromInt(1_000_000)}},
		NetWorth: []core.NetWorthSnapshot{{Month: "2024-03", CumulativeCash: decimal.NewFromInt(-5), InvestmentValue: decimal.NewFromInt(10), NetWorth: decimal.NewFromInt(5)}},
		Prices:   []core.AssetPrice{{AssetID: "A", Date: mustDate(t, "2024-03-20"), Price: decimal.RequireFromString("110.125")}},
		Holdings: []core.Holding{{AssetID: "A", Units: decimal.RequireFromString("10.5")}},
		Goals:    []core.Goal{{Name: "House", TargetAmount: decimal.NewFromInt(10_000_000), CurrentSavings: decimal.NewFromInt(4_000_000), DueDate: mustDate(t, "2026-12-31")}},
	}
}

func TestNewSQLiteRepositoryMigrates(t *testing.T) {
	repo := newTestRepo(t)
	version, dirty, err := SchemaVersion(repo.path)
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("expected clean version 1, got %d dirty=%v", version, dirty)
	}

	tables, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tables.Ledger == nil || len(tables.Ledger) != 0 {
		t.Errorf("expected empty ledger on a fresh database, got %#v", tables.Ledger)
	}
}

func TestReplaceAllRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	in := sampleTables(t)

	if err := repo.ReplaceAll(ctx, in); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	out, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(out.Ledger) != 2 {
		t.Fatalf("expected 2 ledger rows, got %d", len(out.Ledger))
	}
	first := out.Ledger[0]
	if first.Category != "Food" || first.Type != core.Expense || first.Month != "2024-03" ||
		first.Date.String() != "2024-03-05" || !first.Amount.Equal(decimal.RequireFromString("1200000.55")) {
		t.Errorf("unexpected first ledger row %+v", first)
	}
	if out.Ledger[1].Category != "Salary" {
		t.Errorf("insertion order not preserved: %+v", out.Ledger)
	}
	if !out.NetWorth[0].CumulativeCash.Equal(decimal.NewFromInt(-5)) {
		t.Errorf("unexpected net worth %+v", out.NetWorth[0])
	}
	if !out.Prices[0].Price.Equal(decimal.RequireFromString("110.125")) || out.Prices[0].Date.String() != "2024-03-20" {
		t.Errorf("unexpected price %+v", out.Prices[0])
	}
	if !out.Holdings[0].Units.Equal(decimal.RequireFromString("10.5")) {
		t.Errorf("unexpected holding %+v", out.Holdings[0])
	}
	if out.Goals[0].Name != "House" || out.Goals[0].DueDate.String() != "2026-12-31" {
		t.Errorf("unexpected goal %+v", out.Goals[0])
	}
	if len(out.Budgets) != 1 || out.Budgets[0].Month != "2024-03" {
		t.Errorf("unexpected budgets %+v", out.Budgets)
	}
}

func TestReplaceAllOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if err := repo.ReplaceAll(ctx, sampleTables(t)); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if err := repo.ReplaceAll(ctx, dataset.Tables{Holdings: []core.Holding{{AssetID: "B", Units: decimal.NewFromInt(1)}}}); err != nil {
		t.Fatalf("second ReplaceAll: %v", err)
	}

	out, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out.Ledger) != 0 || len(out.Goals) != 0 {
		t.Errorf("old rows survived: %+v", out)
	}
	if len(out.Holdings) != 1 || out.Holdings[0].AssetID != "B" {
		t.Errorf("unexpected holdings %+v", out.Holdings)
	}
}

func TestLoadChecksLedgerMonth(t *testing.T) {
	tests := []struct {
		name    string
		month   string
		wantErr bool
	}{
		{"blank month is derived from the date", "", false},
		{"month disagreeing with the date", "2024-04", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestRepo(t)
			ctx := context.Background()
			if err := repo.ReplaceAll(ctx, sampleTables(t)); err != nil {
				t.Fatalf("ReplaceAll: %v", err)
			}
			if _, err := repo.db.ExecContext(ctx, `UPDATE ledger_entries SET month = ?`, tt.month); err != nil {
				t.Fatalf("update month: %v", err)
			}

			tables, err := repo.Load(ctx)
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidMonth) {
					t.Fatalf("expected ErrInvalidMonth, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			for _, e := range tables.Ledger {
				if e.Month != "2024-03" {
					t.Errorf("entry dated %s has month %q", e.Date, e.Month)
				}
			}
		})
	}
}
