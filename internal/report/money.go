// Package report renders analytics results as markdown documents for the
// terminal.
package report

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money formats decimal amounts in one currency.
type Money struct {
	cur money.Currency
}

// NewMoney returns a formatter for the ISO 4217 code. Unknown codes are
// accepted and formatted with go-money's generic rules.
func NewMoney(code string) Money {
	// money.New never returns a nil currency, even for unknown codes.
	return Money{cur: *money.New(0, code).Currency()}
}

// Code returns the currency code.
func (m Money) Code() string { return m.cur.Code }

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(-math.MaxInt64)
)

// Format renders d in major units, rounded to the currency's fraction.
// Amounts whose minor units do not fit an int64 are printed as a plain
// decimal followed by the currency code.
func (m Money) Format(d decimal.Decimal) string {
	minor := d.Shift(int32(m.cur.Fraction)).Round(0)
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return d.StringFixed(int32(m.cur.Fraction)) + " " + m.cur.Code
	}
	return m.cur.Formatter().Format(minor.IntPart())
}

// FormatDiff is Format with an explicit sign on positive values.
func (m Money) FormatDiff(d *decimal.Decimal) string {
	if d == nil {
		return notAvailable
	}
	s := m.Format(*d)
	if d.IsPositive() {
		s = "+" + s
	}
	return s
}

const notAvailable = "n/a"

func pct(p float64) string { return fmt.Sprintf("%.1f%%", p) }

func pctPtr(p *float64) string {
	if p == nil {
		return notAvailable
	}
	return fmt.Sprintf("%+.2f%%", *p)
}
