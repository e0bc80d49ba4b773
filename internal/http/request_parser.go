// Package http provides HTTP server and handler implementations.
//
// This file implements the parsing and validation of query parameters.
// Malformed values are reported as *ParamError so that handlers can answer
// with 400 Bad Request.

package http

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"findash/internal/core"
)

// ParamError reports a missing or malformed query parameter.
type ParamError struct {
	Name string
	Msg  string
	Err  error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Name, e.Msg)
}

func (e *ParamError) Unwrap() error { return e.Err }

// IsParamError reports whether err was produced by a query parameter parser.
func IsParamError(err error) bool {
	var pe *ParamError
	return errors.As(err, &pe)
}

func param(query url.Values, name string) string {
	return sanitizeInput(query.Get(name))
}

// ParseMonth reads the optional month parameter. An empty value selects the
// latest ledger month downstream.
func ParseMonth(query url.Values) (core.MonthKey, error) {
	v := param(query, "month")
	if v == "" {
		return "", nil
	}
	m, err := core.ParseMonthKey(v)
	if err != nil {
		return "", &ParamError{Name: "month", Msg: "want format YYYY-MM", Err: err}
	}
	return m, nil
}

// ParseInt reads an optional integer parameter, returning def when absent.
func ParseInt(query url.Values, name string, def int) (int, error) {
	v := param(query, name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ParamError{Name: name, Msg: "must be an integer", Err: err}
	}
	return n, nil
}

// ParseDecimal reads a required decimal parameter. Negative values are
// accepted; deciding what they mean is left to the caller.
func ParseDecimal(query url.Values, name string) (decimal.Decimal, error) {
	v := param(query, name)
	if v == "" {
		return decimal.Zero, &ParamError{Name: name, Msg: "is required"}
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, &ParamError{Name: name, Msg: "must be a decimal number", Err: err}
	}
	return d, nil
}

// ParseDate reads a required YYYY-MM-DD parameter.
func ParseDate(query url.Values, name string) (core.Date, error) {
	v := param(query, name)
	if v == "" {
		return core.Date{}, &ParamError{Name: name, Msg: "is required"}
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, &ParamError{Name: name, Msg: "want format YYYY-MM-DD", Err: err}
	}
	return d, nil
}

// RequireString reads a required text parameter.
func RequireString(query url.Values, name string) (string, error) {
	v := param(query, name)
	if v == "" {
		return "", &ParamError{Name: name, Msg: "is required"}
	}
	return v, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != 9 {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
