package analytics

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"findash/internal/core"
)

// BudgetStatus is the traffic-light classification of a budget row.
type BudgetStatus string

const (
	StatusGreen BudgetStatus = "green"
	StatusAmber BudgetStatus = "amber"
	StatusRed   BudgetStatus = "red"
)

// Classification thresholds, in percent of the limit.
const (
	amberAbove = 80.0
	redAbove   = 100.0
)

type BudgetProgressRow struct {
	Category string          `json:"category"`
	Limit    decimal.Decimal `json:"limit"`
	Spent    decimal.Decimal `json:"spent"`
	Pct      float64         `json:"pct"`
	Status   BudgetStatus    `json:"status"`
}

// Classify maps a spend percentage to its status.
func Classify(pct float64) BudgetStatus {
	switch {
	case pct <= amberAbove:
		return StatusGreen
	case pct <= redAbove:
		return StatusAmber
	default:
		return StatusRed
	}
}

// BudgetProgress compares the month's spend with its budget limits.
//
// The limits drive the result: a limited category without spend reports
// zero, spend in a category without a limit is left out. Rows are ordered
// by percentage, highest first.
func (e *Engine) BudgetProgress(month core.MonthKey) ([]BudgetProgressRow, error) {
	month, err := e.ResolveMonth(month)
	if err != nil {
		return nil, err
	}

	spent := map[string]decimal.Decimal{}
	for _, entry := range e.monthEntries(month, core.Expense) {
		spent[entry.Category] = spent[entry.Category].Add(entry.Amount)
	}

	out := []BudgetProgressRow{}
	for _, b := range e.data.Budgets() {
		if b.Month != month {
			continue
		}
		s, ok := spent[b.Category]
		if !ok {
			s = decimal.Zero
		}
		pct := core.Percent(s, b.Limit)
		if pct < 0 {
			pct = 0
		}
		out = append(out, BudgetProgressRow{
			Category: b.Category,
			Limit:    b.Limit,
			Spent:    s,
			Pct:      pct,
			Status:   Classify(pct),
		})
	}

	slices.SortStableFunc(out, func(a, b BudgetProgressRow) int {
		return cmp.Compare(b.Pct, a.Pct)
	})
	return out, nil
}
