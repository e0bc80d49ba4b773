package report

import (
	"fmt"
	"strconv"

	"findash/internal/analytics"
	"findash/internal/core"
)

// Reporter turns analytics results into markdown.
type Reporter struct {
	money Money
}

func New(currency string) *Reporter {
	return &Reporter{money: NewMoney(currency)}
}

// Summary renders the income/expense totals of a month. kpis is optional.
func (r *Reporter) Summary(s analytics.MonthSummary, kpis *core.NetWorthSnapshot) string {
	var d doc
	d.h1("Summary for %s", s.Month)
	d.table("no entries", []string{"Income", "Expenses", "Net", "Entries"}, [][]string{{
		r.money.Format(s.IncomeTotal),
		r.money.Format(s.ExpenseTotal),
		r.money.Format(s.Net),
		strconv.Itoa(s.RowCount),
	}})

	d.h2("Waterfall")
	rows := make([][]string, len(s.Waterfall))
	for i, step := range s.Waterfall {
		rows[i] = []string{step.Label, r.money.Format(step.Value)}
	}
	d.table("no steps", []string{"Step", "Value"}, rows)

	if kpis != nil {
		d.h2("Position")
		d.para("As of %s.", kpis.Month)
		d.table("", []string{"Cash", "Investments", "Net worth"}, [][]string{{
			r.money.Format(kpis.CumulativeCash),
			r.money.Format(kpis.InvestmentValue),
			r.money.Format(kpis.NetWorth),
		}})
	}
	return d.String()
}

// Expenses renders the per-category breakdown followed by the largest
// expenses of the month.
func (r *Reporter) Expenses(month core.MonthKey, breakdown []analytics.CategoryAmount, top []analytics.ExpenseRow) string {
	var d doc
	d.h1("Expenses for %s", month)

	d.h2("By category")
	rows := make([][]string, len(breakdown))
	for i, c := range breakdown {
		rows[i] = []string{c.Category, r.money.Format(c.Amount)}
	}
	d.table("no expenses", []string{"Category", "Amount"}, rows)

	d.h2(fmt.Sprintf("Top %d", len(top)))
	rows = make([][]string, len(top))
	for i, e := range top {
		rows[i] = []string{e.Date.String(), e.Category, r.money.Format(e.Amount), e.Description}
	}
	d.table("no expenses", []string{"Date", "Category", "Amount", "Description"}, rows)
	return d.String()
}

var budgetMarks = map[analytics.BudgetStatus]string{
	analytics.StatusGreen: "🟢",
	analytics.StatusAmber: "🟠",
	analytics.StatusRed:   "🔴",
}

// Budget renders spend against limits.
func (r *Reporter) Budget(month core.MonthKey, progress []analytics.BudgetProgressRow) string {
	var d doc
	d.h1("Budget for %s", month)
	rows := make([][]string, len(progress))
	for i, p := range progress {
		rows[i] = []string{
			p.Category,
			r.money.Format(p.Spent),
			r.money.Format(p.Limit),
			pct(p.Pct),
			budgetMarks[p.Status] + " " + string(p.Status),
		}
	}
	d.table("no budget limits for this month", []string{"Category", "Spent", "Limit", "Used", "Status"}, rows)
	return d.String()
}

// NetWorth renders the net-worth series with month-over-month changes.
func (r *Reporter) NetWorth(changes []analytics.NetWorthChange) string {
	var d doc
	d.h1("Net worth")
	rows := make([][]string, len(changes))
	for i, c := range changes {
		rows[i] = []string{
			string(c.Month),
			r.money.Format(c.CumulativeCash.Value),
			r.money.Format(c.InvestmentValue.Value),
			r.money.Format(c.NetWorth.Value),
			r.money.FormatDiff(c.NetWorth.Diff),
			pctPtr(c.NetWorth.Pct),
		}
	}
	d.table("no snapshots", []string{"Month", "Cash", "Investments", "Net worth", "Change", "Change %"}, rows)
	return d.String()
}

// Portfolio renders the valuation history and the current allocation.
func (r *Reporter) Portfolio(mode analytics.ValuationMode, history []analytics.HistoryPoint, alloc analytics.Allocation) string {
	var d doc
	d.h1("Portfolio")
	d.para("Current value: **%s** (valuation: %s).", r.money.Format(alloc.TotalValue), mode)

	d.h2("History")
	rows := make([][]string, len(history))
	for i, h := range history {
		rows[i] = []string{string(h.Month), r.money.Format(h.TotalValue), pctPtr(h.RetPct), pctPtr(h.PeriodRetPct)}
	}
	d.table("no price history", []string{"Month", "Value", "Since start", "Since previous"}, rows)

	d.h2("Allocation")
	rows = make([][]string, len(alloc.Rows))
	for i, a := range alloc.Rows {
		rows[i] = []string{
			a.AssetID,
			a.Units.String(),
			r.money.Format(a.LatestPrice) + " (" + a.PriceDate.String() + ")",
			r.money.Format(a.Value),
			pct(a.WeightPct),
		}
	}
	d.table("no priced holdings", []string{"Asset", "Units", "Latest price", "Value", "Weight"}, rows)
	return d.String()
}

// Goals renders every goal with its progress.
func (r *Reporter) Goals(goals []analytics.GoalProgress) string {
	var d doc
	d.h1("Goals")
	rows := make([][]string, len(goals))
	for i, g := range goals {
		rows[i] = []string{
			g.Name,
			r.money.Format(g.CurrentSavings),
			r.money.Format(g.TargetAmount),
			r.money.Format(g.Remaining),
			pct(g.ProgressPct),
			g.DueDate.String(),
		}
	}
	d.table("no goals", []string{"Goal", "Saved", "Target", "Remaining", "Progress", "Due"}, rows)
	return d.String()
}

// Projection renders the outcome of a goal simulation.
func (r *Reporter) Projection(p analytics.Projection) string {
	var d doc
	d.h1("Simulation for %s", p.Goal)
	if !p.Computable() {
		d.para("Not computable: %s.", p.Reason)
		return d.String()
	}

	rows := [][]string{}
	if p.TargetDate != nil {
		rows = append(rows,
			[]string{"Months to target", strconv.Itoa(p.Months)},
			[]string{"Reached on", p.TargetDate.String()},
			[]string{fmt.Sprintf("Savings after %d months", p.HorizonMonths), r.money.Format(p.SavingsProjection)},
		)
	}
	if p.RequiredContribution != nil {
		rows = append(rows,
			[]string{"Months left", strconv.Itoa(p.Months)},
			[]string{"Required monthly contribution", r.money.Format(*p.RequiredContribution)},
			[]string{"Projected savings", r.money.Format(p.SavingsProjection)},
		)
	}
	rows = append(rows, []string{"Projected progress", pct(p.ProgressPctProjection)})
	d.table("", []string{"", p.Goal}, rows)
	return d.String()
}

// Transactions renders raw ledger rows.
func (r *Reporter) Transactions(month core.MonthKey, entries []core.LedgerEntry) string {
	var d doc
	d.h1("Transactions for %s", month)
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Date.String(), string(e.Type), e.Category, r.money.Format(e.Amount), e.Description}
	}
	d.table("no entries", []string{"Date", "Type", "Category", "Amount", "Description"}, rows)
	return d.String()
}
