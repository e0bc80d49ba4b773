package http

import (
	"errors"
	"net/url"
	"testing"

	"findash/internal/core"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		raw     string
		want    core.MonthKey
		wantErr bool
	}{
		{"", "", false},
		{"month=2024-03", "2024-03", false},
		{"month=%202024-03%20", "2024-03", false},
		{"month=2024-3", "", true},
		{"month=March", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.raw)
			got, err := ParseMonth(q)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMonth() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !IsParamError(err) || !errors.Is(err, core.ErrInvalidMonth) {
					t.Errorf("expected a param error wrapping ErrInvalidMonth, got %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseMonth() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	q := url.Values{"n": {"-3"}, "bad": {"x"}}
	if n, err := ParseInt(q, "n", 10); err != nil || n != -3 {
		t.Errorf("ParseInt(n) = %d, %v", n, err)
	}
	if n, err := ParseInt(q, "missing", 10); err != nil || n != 10 {
		t.Errorf("ParseInt(missing) = %d, %v", n, err)
	}
	if _, err := ParseInt(q, "bad", 10); !IsParamError(err) {
		t.Errorf("expected param error, got %v", err)
	}
}

func TestParseDecimalAndDate(t *testing.T) {
	q := url.Values{"c": {"-12.5"}, "t": {"2025-03-15"}, "bad": {"1,5"}}

	c, err := ParseDecimal(q, "c")
	if err != nil || c.String() != "-12.5" {
		t.Errorf("ParseDecimal = %v, %v", c, err)
	}
	if _, err := ParseDecimal(q, "bad"); !IsParamError(err) {
		t.Errorf("expected param error, got %v", err)
	}
	if _, err := ParseDecimal(q, "missing"); !IsParamError(err) {
		t.Errorf("expected param error for missing value, got %v", err)
	}

	target, err := ParseDate(q, "t")
	if err != nil || target.String() != "2025-03-15" {
		t.Errorf("ParseDate = %v, %v", target, err)
	}
	if _, err := ParseDate(q, "bad"); !errors.Is(err, core.ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

func TestRequireStringSanitizes(t *testing.T) {
	q := url.Values{"goal": {"  House\x00 "}, "blank": {" \x01 "}}
	if v, err := RequireString(q, "goal"); err != nil || v != "House" {
		t.Errorf("RequireString = %q, %v", v, err)
	}
	if _, err := RequireString(q, "blank"); !IsParamError(err) {
		t.Errorf("expected param error, got %v", err)
	}
}
