package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"findash/internal/analytics"
	"findash/internal/config"
	"findash/internal/core"
	"findash/internal/log"
	"findash/internal/report"
)

// Env is what every report command needs: configuration, logging and the
// output settings given as top-level flags.
type Env struct {
	Config *config.Config
	Logger *log.Logger

	Out    io.Writer
	Errout io.Writer
	Style  string
	Width  int
	Raw    bool

	// load builds the engine; tests replace it.
	load func(context.Context) (*Data, error)
}

// NewEnv returns an Env writing to stdout. Output flags keep their zero
// values until RegisterFlags is called.
func NewEnv(cfg *config.Config, logger *log.Logger) *Env {
	env := &Env{
		Config: cfg,
		Logger: logger,
		Out:    os.Stdout,
		Errout: os.Stderr,
		Style:  report.StyleAuto,
		Width:  100,
	}
	env.load = func(ctx context.Context) (*Data, error) {
		return LoadEngine(ctx, env.Config, env.Logger)
	}
	return env
}

// RegisterFlags binds the output settings to top-level flags.
func (e *Env) RegisterFlags(f *flag.FlagSet) {
	f.StringVar(&e.Style, "style", e.Style, "Rendering style: auto, dark, light, ascii or notty.")
	f.IntVar(&e.Width, "width", e.Width, "Word wrap width of the rendered output.")
	f.BoolVar(&e.Raw, "raw", e.Raw, "Print the markdown source instead of rendering it.")
}

// Register adds every command to c.
func Register(c *subcommands.Commander, env *Env) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&summaryCmd{monthCmd{env: env}}, "reports")
	c.Register(&expensesCmd{monthCmd: monthCmd{env: env}}, "reports")
	c.Register(&budgetCmd{monthCmd{env: env}}, "reports")
	c.Register(&transactionsCmd{monthCmd: monthCmd{env: env}}, "reports")
	c.Register(&netWorthCmd{env: env}, "reports")
	c.Register(&portfolioCmd{env: env}, "reports")

	c.Register(&goalsCmd{env: env}, "goals")
	c.Register(&simulateCmd{env: env}, "goals")

	c.Register(&importCmd{env: env}, "data")
}

// report loads the engine, builds a markdown document with build and
// prints it.
func (e *Env) report(ctx context.Context, build func(*analytics.Engine, *report.Reporter) (string, error)) subcommands.ExitStatus {
	data, err := e.load(ctx)
	if err != nil {
		fmt.Fprintf(e.Errout, "Error loading data: %v\n", err)
		return subcommands.ExitFailure
	}
	defer data.Close()

	md, err := build(data.Engine, report.New(e.Config.Currency))
	switch {
	case errors.Is(err, core.ErrEmptyDataset), errors.Is(err, core.ErrGoalNotFound):
		fmt.Fprintf(e.Errout, "Nothing to report: %v\n", err)
		return subcommands.ExitFailure
	case err != nil:
		fmt.Fprintf(e.Errout, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := report.Print(e.Out, md, e.Style, e.Width, e.Raw); err != nil {
		fmt.Fprintf(e.Errout, "Error writing report: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// parseMonth accepts an empty value, meaning the latest ledger month.
func parseMonth(s string) (core.MonthKey, error) {
	if s == "" {
		return "", nil
	}
	return core.ParseMonthKey(s)
}
