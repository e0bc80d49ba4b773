package analytics

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/shopspring/decimal"

	"findash/internal/core"
)

// ProjectionStatus tells whether a simulator produced a numeric answer.
type ProjectionStatus string

const (
	ProjectionOK            ProjectionStatus = "ok"
	ProjectionNotComputable ProjectionStatus = "not_computable"
)

// Reasons reported with ProjectionNotComputable.
const (
	ReasonNonPositiveContribution = "monthly contribution must be greater than zero"
	ReasonNegativeHorizon         = "horizon must not be negative"
	ReasonRequiresFutureDate      = "target date must fall in a future month"
)

// amountTolerance is how far short of the remaining amount k contributions
// may fall and still count as reaching it. It absorbs the digits a
// contribution of R/k loses to division.
var amountTolerance = decimal.New(1, -9)

type (
	GoalProgress struct {
		core.Goal
		ProgressPct float64         `json:"progress_pct"`
		Remaining   decimal.Decimal `json:"remaining"`
	}

	// Projection is the result of a goal simulator. When Status is
	// ProjectionNotComputable only Goal, Status and Reason are meaningful.
	Projection struct {
		Goal                  string           `json:"goal"`
		Status                ProjectionStatus `json:"status"`
		Reason                string           `json:"reason,omitempty"`
		Months                int              `json:"months"`
		HorizonMonths         int              `json:"horizon_months,omitempty"`
		SavingsProjection     decimal.Decimal  `json:"savings_projection"`
		ProgressPctProjection float64          `json:"progress_pct_projection"`
		// TargetDate is set by the fixed-contribution simulator.
		TargetDate *core.Date `json:"target_date,omitempty"`
		// RequiredContribution is set by the fixed-date simulator.
		RequiredContribution *decimal.Decimal `json:"required_contribution,omitempty"`
	}
)

// Computable reports whether p carries a numeric answer.
func (p Projection) Computable() bool { return p.Status == ProjectionOK }

// ProgressPct returns how much of the goal is saved, bounded to [0, 100].
func ProgressPct(g core.Goal) float64 {
	return core.Clamp(core.Percent(g.CurrentSavings, g.TargetAmount), 0, 100)
}

// Remaining returns what is left to save, never negative.
func Remaining(g core.Goal) decimal.Decimal {
	return decimal.Max(decimal.Zero, g.TargetAmount.Sub(g.CurrentSavings))
}

// Goals lists every goal with its progress, in input order.
func (e *Engine) Goals() []GoalProgress {
	goals := e.data.Goals()
	out := make([]GoalProgress, len(goals))
	for i, g := range goals {
		out[i] = GoalProgress{Goal: g, ProgressPct: ProgressPct(g), Remaining: Remaining(g)}
	}
	return out
}

// Goal looks up a goal by name. The first goal with that name wins. The
// error for an unknown name suggests the closest existing one.
func (e *Engine) Goal(name string) (core.Goal, error) {
	for _, g := range e.data.Goals() {
		if g.Name == name {
			return g, nil
		}
	}
	if suggestion, ok := e.ClosestGoal(name); ok {
		return core.Goal{}, fmt.Errorf("%w: %q (did you mean %q?)", core.ErrGoalNotFound, name, suggestion)
	}
	return core.Goal{}, fmt.Errorf("%w: %q", core.ErrGoalNotFound, name)
}

// ClosestGoal returns the goal name nearest to name by edit distance,
// ignoring case. Names further than a third of their length away, with a
// minimum allowance of two edits, are not suggested.
func (e *Engine) ClosestGoal(name string) (string, bool) {
	want := strings.ToUpper(strings.TrimSpace(name))
	best, bestDist := "", -1
	for _, g := range e.data.Goals() {
		dist := levenshtein.ComputeDistance(want, strings.ToUpper(g.Name))
		if bestDist < 0 || dist < bestDist {
			best, bestDist = g.Name, dist
		}
	}
	if bestDist < 0 || bestDist > max(2, len(want)/3) {
		return "", false
	}
	return best, true
}

// SimulateByContribution projects saving contribution every month, starting
// from the first day of the current month.
func (e *Engine) SimulateByContribution(g core.Goal, contribution decimal.Decimal, horizon int) Projection {
	p := Projection{Goal: g.Name, Status: ProjectionNotComputable}
	if !contribution.IsPositive() {
		p.Reason = ReasonNonPositiveContribution
		return p
	}
	if horizon < 0 {
		p.Reason = ReasonNegativeHorizon
		return p
	}

	months := 0
	if remaining := Remaining(g); remaining.IsPositive() {
		months = monthsToReach(remaining, contribution)
	}
	target := addMonths(e.firstOfCurrentMonth(), months)
	savings := g.CurrentSavings.Add(contribution.Mul(decimal.NewFromInt(int64(horizon))))

	p.Status = ProjectionOK
	p.Months = months
	p.HorizonMonths = horizon
	p.TargetDate = &target
	p.SavingsProjection = savings
	p.ProgressPctProjection = projectedPct(savings, g.TargetAmount)
	return p
}

// monthsToReach is ceil(remaining / contribution), stepping back one month
// when the shorter count already covers remaining within amountTolerance.
func monthsToReach(remaining, contribution decimal.Decimal) int {
	k := remaining.Div(contribution).Ceil().IntPart()
	if k > 1 && contribution.Mul(decimal.NewFromInt(k-1)).GreaterThanOrEqual(remaining.Sub(amountTolerance)) {
		k--
	}
	return int(k)
}

// SimulateByDate computes the monthly contribution that reaches the goal by
// the month of target. Only the year and month of target are considered.
func (e *Engine) SimulateByDate(g core.Goal, target core.Date) Projection {
	p := Projection{Goal: g.Name, Status: ProjectionNotComputable}
	months := MonthsBetween(e.firstOfCurrentMonth(), target)
	if months <= 0 {
		p.Reason = ReasonRequiresFutureDate
		return p
	}

	required := decimal.Zero
	if remaining := Remaining(g); remaining.IsPositive() {
		required = remaining.Div(decimal.NewFromInt(int64(months)))
	}
	savings := g.CurrentSavings.Add(required.Mul(decimal.NewFromInt(int64(months))))

	p.Status = ProjectionOK
	p.Months = months
	p.RequiredContribution = &required
	p.SavingsProjection = savings
	p.ProgressPctProjection = projectedPct(savings, g.TargetAmount)
	return p
}

// MonthsBetween counts calendar months from from to to, floored at zero.
// Days are ignored.
func MonthsBetween(from, to core.Date) int {
	n := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	return max(n, 0)
}

func (e *Engine) firstOfCurrentMonth() core.Date {
	now := e.now()
	return core.NewDate(now.Year(), now.Month(), 1)
}

// addMonths moves d forward n calendar months. d must be the first of a
// month so that no normalization spills into the next month.
func addMonths(d core.Date, n int) core.Date {
	return core.DateOf(d.AddDate(0, n, 0))
}

func projectedPct(savings, target decimal.Decimal) float64 {
	return min(100, core.Percent(savings, target))
}
