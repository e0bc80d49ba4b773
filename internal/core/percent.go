package core

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Percent returns part/whole*100. A zero whole yields 0 instead of an
// infinity; every percentage the engine emits goes through here or Ratio.
func Percent(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return Finite(part.Div(whole).Mul(hundred).InexactFloat64())
}

// Ratio returns (num/den - 1)*100, the percentage change from den to num.
// ok is false when den is zero and the change is not defined.
func Ratio(num, den decimal.Decimal) (pct float64, ok bool) {
	if den.IsZero() {
		return 0, false
	}
	return Finite(num.Div(den).Sub(decimal.NewFromInt(1)).Mul(hundred).InexactFloat64()), true
}

// Finite replaces NaN and infinities with 0.
func Finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Clamp bounds f to [lo, hi].
func Clamp(f, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, f))
}
