package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"findash/internal/analytics"
	"findash/internal/core"
)

func TestMoneyFormat(t *testing.T) {
	usd := NewMoney("USD")
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"whole", "3000000", "$3,000,000.00"},
		{"cents", "1234.5", "$1,234.50"},
		{"rounds half up", "0.125", "$0.13"},
		{"negative", "-5", "-$5.00"},
		{"zero", "0", "$0.00"},
		{"largest in minor units", "92233720368547758.07", "$92,233,720,368,547,758.07"},
		{"beyond int64", "1e20", "100000000000000000000.00 USD"},
		{"negative beyond int64", "-123456789012345678901.234", "-123456789012345678901.23 USD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := usd.Format(decimal.RequireFromString(tt.in)); got != tt.want {
				t.Errorf("Format(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if usd.Code() != "USD" {
		t.Errorf("Code() = %q", usd.Code())
	}
}

func TestMoneyFormatDiff(t *testing.T) {
	usd := NewMoney("USD")
	up := decimal.NewFromInt(10)
	down := decimal.NewFromInt(-10)

	if got := usd.FormatDiff(nil); got != "n/a" {
		t.Errorf("FormatDiff(nil) = %q", got)
	}
	if got := usd.FormatDiff(&up); got != "+$10.00" {
		t.Errorf("FormatDiff(10) = %q", got)
	}
	if got := usd.FormatDiff(&down); got != "-$10.00" {
		t.Errorf("FormatDiff(-10) = %q", got)
	}
}

func TestSummary(t *testing.T) {
	r := New("USD")
	s := analytics.MonthSummary{
		Month:        "2024-03",
		IncomeTotal:  decimal.NewFromInt(3000),
		ExpenseTotal: decimal.NewFromInt(1200),
		Net:          decimal.NewFromInt(1800),
		Waterfall: []analytics.WaterfallStep{
			{Label: analytics.StepStart, Value: decimal.Zero},
			{Label: analytics.StepIncome, Value: decimal.NewFromInt(3000)},
			{Label: analytics.StepExpense, Value: decimal.NewFromInt(-1200)},
			{Label: analytics.StepNet, Value: decimal.NewFromInt(1800)},
		},
		RowCount: 4,
	}

	t.Run("without position", func(t *testing.T) {
		md := r.Summary(s, nil)
		for _, want := range []string{
			"# Summary for 2024-03",
			"| $3,000.00 | $1,200.00 | $1,800.00 | 4 |",
			"| expense | -$1,200.00 |",
		} {
			if !strings.Contains(md, want) {
				t.Errorf("summary missing %q:\n%s", want, md)
			}
		}
		if strings.Contains(md, "## Position") {
			t.Errorf("position section should be omitted:\n%s", md)
		}
	})

	t.Run("with position", func(t *testing.T) {
		md := r.Summary(s, &core.NetWorthSnapshot{
			Month:           "2024-03",
			CumulativeCash:  decimal.NewFromInt(100),
			InvestmentValue: decimal.NewFromInt(50),
			NetWorth:        decimal.NewFromInt(150),
		})
		if !strings.Contains(md, "## Position") || !strings.Contains(md, "| $100.00 | $50.00 | $150.00 |") {
			t.Errorf("unexpected position section:\n%s", md)
		}
	})
}

func TestBudget(t *testing.T) {
	r := New("USD")
	md := r.Budget("2024-03", []analytics.BudgetProgressRow{
		{Category: "Food", Limit: decimal.NewFromInt(100), Spent: decimal.NewFromInt(120), Pct: 120, Status: analytics.StatusRed},
		{Category: "Transport", Limit: decimal.NewFromInt(100), Spent: decimal.Zero, Pct: 0, Status: analytics.StatusGreen},
	})
	if !strings.Contains(md, "| Food | $120.00 | $100.00 | 120.0% | 🔴 red |") {
		t.Errorf("unexpected food row:\n%s", md)
	}
	if !strings.Contains(md, "🟢 green") {
		t.Errorf("unexpected transport row:\n%s", md)
	}

	empty := r.Budget("2024-04", nil)
	if !strings.Contains(empty, "_no budget limits for this month_") {
		t.Errorf("expected placeholder:\n%s", empty)
	}
}

func TestExpensesEscapesCells(t *testing.T) {
	r := New("USD")
	date, _ := core.ParseDate("2024-03-05")
	md := r.Expenses("2024-03",
		[]analytics.CategoryAmount{{Category: "Food", Amount: decimal.NewFromInt(20)}},
		[]analytics.ExpenseRow{{Date: date, Category: "Food", Amount: decimal.NewFromInt(20), Description: "bread | milk"}},
	)
	if !strings.Contains(md, `| 2024-03-05 | Food | $20.00 | bread \| milk |`) {
		t.Errorf("unexpected top row:\n%s", md)
	}
	if !strings.Contains(md, "## Top 1") {
		t.Errorf("missing top heading:\n%s", md)
	}
}

func TestNetWorth(t *testing.T) {
	r := New("USD")
	diff := decimal.NewFromInt(50)
	p := 50.0
	md := r.NetWorth([]analytics.NetWorthChange{
		{Month: "2024-02", NetWorth: analytics.Change{Value: decimal.NewFromInt(100)}},
		{Month: "2024-03", NetWorth: analytics.Change{Value: decimal.NewFromInt(150), Diff: &diff, Pct: &p}},
	})
	if !strings.Contains(md, "| $100.00 | n/a | n/a |") {
		t.Errorf("first row should have no change:\n%s", md)
	}
	if !strings.Contains(md, "| $150.00 | +$50.00 | +50.00% |") {
		t.Errorf("unexpected second row:\n%s", md)
	}
}

func TestProjection(t *testing.T) {
	r := New("USD")

	t.Run("not computable", func(t *testing.T) {
		md := r.Projection(analytics.Projection{
			Goal:   "House",
			Status: analytics.ProjectionNotComputable,
			Reason: analytics.ReasonNonPositiveContribution,
		})
		if !strings.Contains(md, "Not computable: monthly contribution must be greater than zero.") {
			t.Errorf("unexpected output:\n%s", md)
		}
	})

	t.Run("by date", func(t *testing.T) {
		required := decimal.NewFromInt(500)
		md := r.Projection(analytics.Projection{
			Goal:                  "House",
			Status:                analytics.ProjectionOK,
			Months:                12,
			RequiredContribution:  &required,
			SavingsProjection:     decimal.NewFromInt(10000),
			ProgressPctProjection: 100,
		})
		for _, want := range []string{"| Months left | 12 |", "| Required monthly contribution | $500.00 |", "| Projected progress | 100.0% |"} {
			if !strings.Contains(md, want) {
				t.Errorf("missing %q:\n%s", want, md)
			}
		}
	})
}

func TestPrintRaw(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, "# Title\n", StyleASCII, 80, true); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if buf.String() != "# Title\n" {
		t.Errorf("raw output altered: %q", buf.String())
	}
}

func TestRender(t *testing.T) {
	out, err := Render("# Title\n\nhello world\n", StyleASCII, 80)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "hello world") {
		t.Errorf("rendered output lost the paragraph: %q", out)
	}
}
