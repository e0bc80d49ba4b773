package analytics

import (
	"errors"
	"testing"

	"findash/internal/core"
	"findash/internal/dataset"
)

func snapshots() []core.NetWorthSnapshot {
	return []core.NetWorthSnapshot{
		{Month: "2024-03", CumulativeCash: d(1_500), InvestmentValue: d(600), NetWorth: d(2_100)},
		{Month: "2024-01", CumulativeCash: d(0), InvestmentValue: d(500), NetWorth: d(500)},
		{Month: "2024-02", CumulativeCash: d(1_000), InvestmentValue: d(500), NetWorth: d(1_500)},
	}
}

func TestNetWorthSeriesSorted(t *testing.T) {
	e := New(dataset.New(dataset.Tables{NetWorth: snapshots()}))
	series := e.NetWorthSeries()
	want := []core.MonthKey{"2024-01", "2024-02", "2024-03"}
	for i, m := range want {
		if series[i].Month != m {
			t.Errorf("position %d: expected %s, got %s", i, m, series[i].Month)
		}
	}
	months := e.AvailableMonths()
	if len(months) != 3 || months[2] != "2024-03" {
		t.Errorf("unexpected months %v", months)
	}
}

func TestCurrentPosition(t *testing.T) {
	e := New(dataset.New(dataset.Tables{NetWorth: snapshots()}))
	pos, err := e.CurrentPosition()
	if err != nil {
		t.Fatalf("CurrentPosition: %v", err)
	}
	if pos.Month != "2024-03" || !pos.NetWorth.Equal(d(2_100)) {
		t.Errorf("unexpected position %+v", pos)
	}

	_, err = New(nil).CurrentPosition()
	if !errors.Is(err, core.ErrEmptyDataset) {
		t.Errorf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestNetWorthChanges(t *testing.T) {
	e := New(dataset.New(dataset.Tables{NetWorth: snapshots()}))
	changes := e.NetWorthChanges()
	if len(changes) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(changes))
	}

	first := changes[0]
	if first.NetWorth.Diff != nil || first.NetWorth.Pct != nil {
		t.Errorf("first row must have no variation, got %+v", first.NetWorth)
	}

	feb := changes[1]
	if !feb.NetWorth.Diff.Equal(d(1_000)) || *feb.NetWorth.Pct != 200 {
		t.Errorf("unexpected February net worth change %+v", feb.NetWorth)
	}
	// January cash is zero: the percentage is guarded.
	if !feb.CumulativeCash.Diff.Equal(d(1_000)) || *feb.CumulativeCash.Pct != 0 {
		t.Errorf("unexpected February cash change %+v", feb.CumulativeCash)
	}
	if *feb.InvestmentValue.Pct != 0 || !feb.InvestmentValue.Diff.IsZero() {
		t.Errorf("unexpected February investment change %+v", feb.InvestmentValue)
	}

	mar := changes[2]
	if *mar.InvestmentValue.Pct != 20 {
		t.Errorf("expected 20%% investment growth, got %v", *mar.InvestmentValue.Pct)
	}
}
