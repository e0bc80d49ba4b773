package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"findash/internal/analytics"
	"findash/internal/core"
	"findash/internal/report"
)

type goalsCmd struct{ env *Env }

func (*goalsCmd) Name() string     { return "goals" }
func (*goalsCmd) Synopsis() string { return "display savings goals and their progress" }
func (*goalsCmd) Usage() string {
	return `findash-report goals

  Lists every savings goal with what is saved, what remains and the due date.
`
}

func (*goalsCmd) SetFlags(*flag.FlagSet) {}

func (c *goalsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.report(ctx, func(e *analytics.Engine, r *report.Reporter) (string, error) {
		return r.Goals(e.Goals()), nil
	})
}

type simulateCmd struct {
	env          *Env
	goal         string
	contribution string
	horizon      int
	target       string
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "project a savings goal" }
func (*simulateCmd) Usage() string {
	return `findash-report simulate -goal <name> (-c <amount> [-horizon <months>] | -target <YYYY-MM-DD>)

  With -c, projects saving a fixed amount every month: the number of
  months needed, the month the goal is reached and the savings after the
  horizon.

  With -target, computes the monthly contribution that reaches the goal
  by the month of the target date.
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.goal, "goal", "", "Name of the goal to simulate.")
	f.StringVar(&c.contribution, "c", "", "Monthly contribution.")
	f.IntVar(&c.horizon, "horizon", 6, "Number of months of contributions to project savings for.")
	f.StringVar(&c.target, "target", "", "Date by which the goal should be reached.")
}

func (c *simulateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	name := strings.TrimSpace(c.goal)
	if name == "" {
		fmt.Fprintln(c.env.Errout, "Error: -goal is required")
		return subcommands.ExitUsageError
	}
	if (c.contribution == "") == (c.target == "") {
		fmt.Fprintln(c.env.Errout, "Error: exactly one of -c and -target is required")
		return subcommands.ExitUsageError
	}

	var simulate func(*analytics.Engine, core.Goal) analytics.Projection
	if c.contribution != "" {
		amount, err := decimal.NewFromString(strings.TrimSpace(c.contribution))
		if err != nil {
			fmt.Fprintf(c.env.Errout, "Error parsing contribution: %v\n", err)
			return subcommands.ExitUsageError
		}
		simulate = func(e *analytics.Engine, g core.Goal) analytics.Projection {
			return e.SimulateByContribution(g, amount, c.horizon)
		}
	} else {
		target, err := core.ParseDate(c.target)
		if err != nil {
			fmt.Fprintf(c.env.Errout, "Error parsing target date: %v\n", err)
			return subcommands.ExitUsageError
		}
		simulate = func(e *analytics.Engine, g core.Goal) analytics.Projection {
			return e.SimulateByDate(g, target)
		}
	}

	return c.env.report(ctx, func(e *analytics.Engine, r *report.Reporter) (string, error) {
		g, err := e.Goal(name)
		if err != nil {
			return "", err
		}
		return r.Projection(simulate(e, g)), nil
	})
}
