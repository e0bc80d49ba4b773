package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"findash/internal/core"
	"findash/internal/dataset"
)

type (
	// Change is the month-over-month variation of one figure. Diff and Pct
	// are nil on the first row, where there is no previous month.
	Change struct {
		Value decimal.Decimal  `json:"value"`
		Diff  *decimal.Decimal `json:"diff"`
		Pct   *float64         `json:"pct"`
	}

	NetWorthChange struct {
		Month           core.MonthKey `json:"month"`
		CumulativeCash  Change        `json:"cumulative_cash"`
		InvestmentValue Change        `json:"investment_value"`
		NetWorth        Change        `json:"net_worth"`
	}
)

// NetWorthSeries returns the snapshots in ascending month order.
func (e *Engine) NetWorthSeries() []core.NetWorthSnapshot {
	return e.sortedNetWorth()
}

// AvailableMonths lists the months of the net-worth series, ascending.
func (e *Engine) AvailableMonths() []core.MonthKey {
	rows := e.sortedNetWorth()
	out := make([]core.MonthKey, 0, len(rows))
	for _, r := range rows {
		if n := len(out); n > 0 && out[n-1] == r.Month {
			continue
		}
		out = append(out, r.Month)
	}
	return out
}

// CurrentPosition returns the snapshot of the latest month.
func (e *Engine) CurrentPosition() (core.NetWorthSnapshot, error) {
	rows := e.sortedNetWorth()
	if len(rows) == 0 {
		return core.NetWorthSnapshot{}, fmt.Errorf("%w: no %s snapshots", core.ErrEmptyDataset, dataset.TableNetWorth)
	}
	return rows[len(rows)-1], nil
}

// NetWorthChanges annotates the series with the variation of each figure
// against the previous month. A previous value of zero gives a 0 percentage.
func (e *Engine) NetWorthChanges() []NetWorthChange {
	rows := e.sortedNetWorth()
	out := make([]NetWorthChange, len(rows))
	for i, r := range rows {
		out[i] = NetWorthChange{
			Month:           r.Month,
			CumulativeCash:  Change{Value: r.CumulativeCash},
			InvestmentValue: Change{Value: r.InvestmentValue},
			NetWorth:        Change{Value: r.NetWorth},
		}
		if i == 0 {
			continue
		}
		prev := rows[i-1]
		out[i].CumulativeCash = change(r.CumulativeCash, prev.CumulativeCash)
		out[i].InvestmentValue = change(r.InvestmentValue, prev.InvestmentValue)
		out[i].NetWorth = change(r.NetWorth, prev.NetWorth)
	}
	return out
}

func change(cur, prev decimal.Decimal) Change {
	diff := cur.Sub(prev)
	pct, _ := core.Ratio(cur, prev)
	return Change{Value: cur, Diff: &diff, Pct: &pct}
}
