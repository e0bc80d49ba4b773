package core

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPercent(t *testing.T) {
	cases := []struct {
		part, whole string
		want        float64
	}{
		{"1200000", "1000000", 120},
		{"0", "1000000", 0},
		{"5", "0", 0},
		{"0", "0", 0},
	}
	for _, tc := range cases {
		got := Percent(decimal.RequireFromString(tc.part), decimal.RequireFromString(tc.whole))
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("Percent(%s, %s) = %v, want %v", tc.part, tc.whole, got, tc.want)
		}
	}
}

func TestRatio(t *testing.T) {
	got, ok := Ratio(decimal.NewFromInt(110), decimal.NewFromInt(100))
	if !ok || math.Abs(got-10) > 1e-9 {
		t.Fatalf("expected 10%%, got %v ok=%v", got, ok)
	}
	if _, ok := Ratio(decimal.NewFromInt(1), decimal.Zero); ok {
		t.Fatalf("expected not-available for zero base")
	}
}

func TestFiniteAndClamp(t *testing.T) {
	if Finite(math.Inf(1)) != 0 || Finite(math.NaN()) != 0 || Finite(2.5) != 2.5 {
		t.Fatalf("Finite did not guard non-finite values")
	}
	if Clamp(1.5, 0, 1) != 1 || Clamp(-1, 0, 1) != 0 || Clamp(0.4, 0, 1) != 0.4 {
		t.Fatalf("Clamp out of bounds")
	}
}
