package analytics

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"findash/internal/core"
	"findash/internal/dataset"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func day(s string) core.Date {
	dt, err := core.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return dt
}

func entry(date string, typ core.EntryType, category string, amount int64, desc string) core.LedgerEntry {
	dt := day(date)
	return core.LedgerEntry{
		Date:        dt,
		Month:       dt.Key(),
		Type:        typ,
		Category:    category,
		Amount:      d(amount),
		Description: desc,
	}
}

func fixedClock(y int, m time.Month, dd int) func() time.Time {
	return func() time.Time { return time.Date(y, m, dd, 15, 30, 0, 0, time.UTC) }
}

func sampleLedger() []core.LedgerEntry {
	return []core.LedgerEntry{
		entry("2024-02-03", core.Income, "Salary", 2_800_000, "Salary Feb"),
		entry("2024-02-10", core.Expense, "Food", 400_000, "Market"),
		entry("2024-03-01", core.Income, "Salary", 3_000_000, "Salary Mar"),
		entry("2024-03-05", core.Expense, "Food", 1_200_000, "Market"),
	}
}

func TestLatestMonth(t *testing.T) {
	e := New(dataset.New(dataset.Tables{Ledger: sampleLedger()}))
	got, err := e.LatestMonth()
	if err != nil {
		t.Fatalf("LatestMonth: %v", err)
	}
	if got != "2024-03" {
		t.Errorf("expected 2024-03, got %s", got)
	}
}

func TestLatestMonthEmptyLedger(t *testing.T) {
	e := New(nil)
	_, err := e.LatestMonth()
	if !errors.Is(err, core.ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestResolveMonth(t *testing.T) {
	e := New(dataset.New(dataset.Tables{Ledger: sampleLedger()}))

	tests := []struct {
		name  string
		input core.MonthKey
		want  core.MonthKey
	}{
		{"explicit month kept", "2024-02", "2024-02"},
		{"month without data kept", "2023-11", "2023-11"},
		{"empty resolves to latest", "", "2024-03"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.ResolveMonth(tt.input)
			if err != nil {
				t.Fatalf("ResolveMonth: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestWithValuationIgnoresUnknownMode(t *testing.T) {
	e := New(nil, WithValuation("weird"))
	if e.Valuation() != ValuationSumAll {
		t.Errorf("expected default mode, got %s", e.Valuation())
	}
	e = New(nil, WithValuation(ValuationLatestPerMonth))
	if e.Valuation() != ValuationLatestPerMonth {
		t.Errorf("expected latest_per_month, got %s", e.Valuation())
	}
}
