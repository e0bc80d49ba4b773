package core

import (
	"fmt"
	"strings"
	"time"
)

const monthLayout = "2006-01"

// MonthKey identifies a calendar month as "YYYY-MM".
//
// The zero-padded layout makes lexicographic order equal chronological
// order; grouping and sorting throughout the engine rely on plain string
// comparison of keys, so keys must only ever be produced by MonthOf or
// ParseMonthKey.
type MonthKey string

// MonthOf returns the key of the month containing t.
func MonthOf(t time.Time) MonthKey {
	return MonthKey(t.Format(monthLayout))
}

// ParseMonthKey validates s and returns it in canonical form.
func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse(monthLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: %q want format YYYY-MM", ErrInvalidMonth, s)
	}
	return MonthOf(t), nil
}

// FirstDay returns the first day of the month. The key must be canonical.
func (m MonthKey) FirstDay() Date {
	t, err := time.Parse(monthLayout, string(m))
	if err != nil {
		return Date{}
	}
	return DateOf(t)
}

func (m MonthKey) String() string { return string(m) }

// IsZero reports whether no month was given.
func (m MonthKey) IsZero() bool { return m == "" }
