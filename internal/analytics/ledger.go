package analytics

import (
	"slices"

	"github.com/shopspring/decimal"

	"findash/internal/core"
)

// Waterfall step labels, in emission order.
const (
	StepStart   = "start"
	StepIncome  = "income"
	StepExpense = "expense"
	StepNet     = "net"
)

type (
	// WaterfallStep is one bar of the income/expense waterfall.
	WaterfallStep struct {
		Label string          `json:"label"`
		Value decimal.Decimal `json:"value"`
	}

	MonthSummary struct {
		Month        core.MonthKey   `json:"month"`
		IncomeTotal  decimal.Decimal `json:"income_total"`
		ExpenseTotal decimal.Decimal `json:"expense_total"`
		Net          decimal.Decimal `json:"net"`
		Waterfall    []WaterfallStep `json:"waterfall"`
		RowCount     int             `json:"row_count"`
	}

	// CategoryAmount represents an amount aggregated by category name.
	CategoryAmount struct {
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
	}

	ExpenseRow struct {
		Date        core.Date       `json:"date"`
		Category    string          `json:"category"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
	}
)

// Summary totals income and expenses of month. The expense step of the
// waterfall is negative.
func (e *Engine) Summary(month core.MonthKey) (MonthSummary, error) {
	month, err := e.ResolveMonth(month)
	if err != nil {
		return MonthSummary{}, err
	}

	entries := e.monthEntries(month, "")
	income, expense := decimal.Zero, decimal.Zero
	for _, entry := range entries {
		switch entry.Type {
		case core.Income:
			income = income.Add(entry.Amount)
		case core.Expense:
			expense = expense.Add(entry.Amount)
		}
	}
	net := income.Sub(expense)

	return MonthSummary{
		Month:        month,
		IncomeTotal:  income,
		ExpenseTotal: expense,
		Net:          net,
		Waterfall: []WaterfallStep{
			{Label: StepStart, Value: decimal.Zero},
			{Label: StepIncome, Value: income},
			{Label: StepExpense, Value: expense.Neg()},
			{Label: StepNet, Value: net},
		},
		RowCount: len(entries),
	}, nil
}

// CategoryBreakdown sums the month's expenses per category, largest first.
// Equal amounts keep the order in which categories first appear.
func (e *Engine) CategoryBreakdown(month core.MonthKey) ([]CategoryAmount, error) {
	month, err := e.ResolveMonth(month)
	if err != nil {
		return nil, err
	}

	index := map[string]int{}
	out := []CategoryAmount{}
	for _, entry := range e.monthEntries(month, core.Expense) {
		i, ok := index[entry.Category]
		if !ok {
			i = len(out)
			index[entry.Category] = i
			out = append(out, CategoryAmount{Category: entry.Category, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(entry.Amount)
	}

	slices.SortStableFunc(out, func(a, b CategoryAmount) int {
		return b.Amount.Cmp(a.Amount)
	})
	return out, nil
}

// TopExpenses returns the n largest expenses of month. Ties keep ledger
// order; n <= 0 yields an empty slice.
func (e *Engine) TopExpenses(month core.MonthKey, n int) ([]ExpenseRow, error) {
	month, err := e.ResolveMonth(month)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []ExpenseRow{}, nil
	}

	entries := e.monthEntries(month, core.Expense)
	slices.SortStableFunc(entries, func(a, b core.LedgerEntry) int {
		return b.Amount.Cmp(a.Amount)
	})
	if len(entries) > n {
		entries = entries[:n]
	}

	out := make([]ExpenseRow, len(entries))
	for i, entry := range entries {
		out[i] = ExpenseRow{
			Date:        entry.Date,
			Category:    entry.Category,
			Amount:      entry.Amount,
			Description: entry.Description,
		}
	}
	return out, nil
}

// Transactions returns the first limit ledger entries of month in ledger order.
func (e *Engine) Transactions(month core.MonthKey, limit int) ([]core.LedgerEntry, error) {
	month, err := e.ResolveMonth(month)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []core.LedgerEntry{}, nil
	}

	entries := e.monthEntries(month, "")
	if len(entries) > limit {
		entries = entries[:limit]
	}
	if entries == nil {
		entries = []core.LedgerEntry{}
	}
	return entries, nil
}
