package core

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  EntryType = "Income"
	Expense EntryType = "Expense"
)

// DateFormat is the ISO-8601 day layout used on the wire and in the tables.
const DateFormat = "2006-01-02"

type (
	// EntryType classifies a ledger entry. Values other than Income and
	// Expense are kept verbatim and excluded from both totals.
	EntryType string

	// Date is a calendar day at midnight UTC.
	Date struct {
		time.Time
	}

	LedgerEntry struct {
		Date        Date            `json:"date"`
		Month       MonthKey        `json:"month"`
		Type        EntryType       `json:"type"`
		Category    string          `json:"category"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
	}

	// BudgetLimit is expected to be unique per (Month, Category).
	BudgetLimit struct {
		Month    MonthKey        `json:"month"`
		Category string          `json:"category"`
		Limit    decimal.Decimal `json:"limit"`
	}

	// NetWorthSnapshot is trusted as given: NetWorth is never re-derived.
	NetWorthSnapshot struct {
		Month           MonthKey        `json:"month"`
		CumulativeCash  decimal.Decimal `json:"cumulative_cash"`
		InvestmentValue decimal.Decimal `json:"investment_value"`
		NetWorth        decimal.Decimal `json:"net_worth"`
	}

	AssetPrice struct {
		AssetID string          `json:"asset_id"`
		Date    Date            `json:"date"`
		Price   decimal.Decimal `json:"price"`
	}

	// Holding is the current, static position in one asset.
	Holding struct {
		AssetID string          `json:"asset_id"`
		Units   decimal.Decimal `json:"units"`
	}

	Goal struct {
		Name           string          `json:"goal"`
		TargetAmount   decimal.Decimal `json:"target_amount"`
		CurrentSavings decimal.Decimal `json:"current_savings"`
		DueDate        Date            `json:"due_date"`
	}
)

var (
	ErrEmptyDataset  = errors.New("empty dataset")
	ErrInvalidMonth  = errors.New("invalid month")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrGoalNotFound  = errors.New("goal not found")
)

// ParseEntryType maps the ledger type column onto Income/Expense. The
// Spanish labels of the original exports are accepted as aliases.
func ParseEntryType(s string) EntryType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "ingreso":
		return Income
	case "expense", "gasto":
		return Expense
	default:
		return EntryType(strings.TrimSpace(s))
	}
}

// NewDate creates a new Date from year, month, day
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

var dateLayouts = []string{
	DateFormat,
	"2006-1-2",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

// ParseDate accepts ISO days, optionally followed by a time of day which is dropped.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q want format %q", ErrInvalidDate, s, DateFormat)
}

// Key returns the month-key the day belongs to.
func (d Date) Key() MonthKey {
	return MonthOf(d.Time)
}

// String format the date in its standard format.
func (d Date) String() string {
	return d.Format(DateFormat)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value stores the date as TEXT.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan reads a date stored as TEXT or as a driver time value.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
	case []byte:
		return d.Scan(string(v))
	case time.Time:
		*d = DateOf(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidDate, src)
	}
	return nil
}

// ParseAmount parses a non-negative decimal amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, s)
	}
	return d, nil
}
