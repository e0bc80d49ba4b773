package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"findash/internal/analytics"
	"findash/internal/core"
	"findash/internal/report"
)

const monthUsage = "Month to report on, as YYYY-MM. Defaults to the latest month of the ledger."

// monthCmd is embedded by the commands that report on a single month.
type monthCmd struct {
	env   *Env
	month string
}

func (c *monthCmd) setMonthFlag(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", monthUsage)
}

// run resolves the month flag and hands it to build.
func (c *monthCmd) run(ctx context.Context, build func(*analytics.Engine, *report.Reporter, core.MonthKey) (string, error)) subcommands.ExitStatus {
	month, err := parseMonth(c.month)
	if err != nil {
		fmt.Fprintf(c.env.Errout, "Error parsing month: %v\n", err)
		return subcommands.ExitUsageError
	}
	return c.env.report(ctx, func(e *analytics.Engine, r *report.Reporter) (string, error) {
		resolved, err := e.ResolveMonth(month)
		if err != nil {
			return "", err
		}
		return build(e, r, resolved)
	})
}

type summaryCmd struct{ monthCmd }

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display income, expenses and net for a month" }
func (*summaryCmd) Usage() string {
	return `findash-report summary [-m <YYYY-MM>]

  Displays the income and expense totals of a month, the waterfall and
  the latest net-worth position.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) { c.setMonthFlag(f) }

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(e *analytics.Engine, r *report.Reporter, month core.MonthKey) (string, error) {
		s, err := e.Summary(month)
		if err != nil {
			return "", err
		}
		var kpis *core.NetWorthSnapshot
		if pos, err := e.CurrentPosition(); err == nil {
			kpis = &pos
		} else if !errors.Is(err, core.ErrEmptyDataset) {
			return "", err
		}
		return r.Summary(s, kpis), nil
	})
}

type expensesCmd struct {
	monthCmd
	top int
}

func (*expensesCmd) Name() string     { return "expenses" }
func (*expensesCmd) Synopsis() string { return "display expenses by category and the largest ones" }
func (*expensesCmd) Usage() string {
	return `findash-report expenses [-m <YYYY-MM>] [-n <count>]

  Displays the month's expenses grouped by category, largest first,
  followed by the n largest individual expenses.
`
}

func (c *expensesCmd) SetFlags(f *flag.FlagSet) {
	c.setMonthFlag(f)
	f.IntVar(&c.top, "n", 10, "Number of individual expenses to list.")
}

func (c *expensesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(e *analytics.Engine, r *report.Reporter, month core.MonthKey) (string, error) {
		breakdown, err := e.CategoryBreakdown(month)
		if err != nil {
			return "", err
		}
		top, err := e.TopExpenses(month, c.top)
		if err != nil {
			return "", err
		}
		return r.Expenses(month, breakdown, top), nil
	})
}

type budgetCmd struct{ monthCmd }

func (*budgetCmd) Name() string     { return "budget" }
func (*budgetCmd) Synopsis() string { return "display spend against the budget limits of a month" }
func (*budgetCmd) Usage() string {
	return `findash-report budget [-m <YYYY-MM>]

  Compares each budgeted category's spend with its limit and classifies
  it green (up to 80%), amber (up to 100%) or red.
`
}

func (c *budgetCmd) SetFlags(f *flag.FlagSet) { c.setMonthFlag(f) }

func (c *budgetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(e *analytics.Engine, r *report.Reporter, month core.MonthKey) (string, error) {
		progress, err := e.BudgetProgress(month)
		if err != nil {
			return "", err
		}
		return r.Budget(month, progress), nil
	})
}

type transactionsCmd struct {
	monthCmd
	limit int
}

func (*transactionsCmd) Name() string     { return "transactions" }
func (*transactionsCmd) Synopsis() string { return "list the ledger entries of a month" }
func (*transactionsCmd) Usage() string {
	return `findash-report transactions [-m <YYYY-MM>] [-limit <count>]

  Lists the ledger entries of a month in file order.
`
}

func (c *transactionsCmd) SetFlags(f *flag.FlagSet) {
	c.setMonthFlag(f)
	f.IntVar(&c.limit, "limit", 200, "Maximum number of entries to list.")
}

func (c *transactionsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(e *analytics.Engine, r *report.Reporter, month core.MonthKey) (string, error) {
		rows, err := e.Transactions(month, c.limit)
		if err != nil {
			return "", err
		}
		return r.Transactions(month, rows), nil
	})
}

type netWorthCmd struct{ env *Env }

func (*netWorthCmd) Name() string     { return "networth" }
func (*netWorthCmd) Synopsis() string { return "display the net-worth series" }
func (*netWorthCmd) Usage() string {
	return `findash-report networth

  Displays cash, investments and net worth for every month with the
  change against the previous month.
`
}

func (*netWorthCmd) SetFlags(*flag.FlagSet) {}

func (c *netWorthCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.report(ctx, func(e *analytics.Engine, r *report.Reporter) (string, error) {
		return r.NetWorth(e.NetWorthChanges()), nil
	})
}

type portfolioCmd struct{ env *Env }

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "display portfolio value history and allocation" }
func (*portfolioCmd) Usage() string {
	return `findash-report portfolio

  Displays the monthly value of the current holdings with cumulative and
  periodic returns, and the allocation at the latest prices.
`
}

func (*portfolioCmd) SetFlags(*flag.FlagSet) {}

func (c *portfolioCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.report(ctx, func(e *analytics.Engine, r *report.Reporter) (string, error) {
		history, err := e.History()
		if err != nil && !errors.Is(err, core.ErrEmptyDataset) {
			return "", err
		}
		return r.Portfolio(e.Valuation(), history, e.Allocation()), nil
	})
}
