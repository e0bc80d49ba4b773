package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"findash/internal/core"
)

// Table file names, as exported by the spreadsheet the dashboard grew from.
const (
	FileLedger   = "transactions.csv"
	FileBudgets  = "budgets.csv"
	FileNetWorth = "net_worth.csv"
	FilePrices   = "investments_prices.csv"
	FileHoldings = "investments_holdings.csv"
	FileGoals    = "goals.csv"
)

// column lists the accepted header spellings of one field. The first name
// is the one used in error messages.
type column struct {
	names    []string
	optional bool
}

func col(names ...string) column { return column{names: names} }

func optionalCol(names ...string) column { return column{names: names, optional: true} }

// record is one data row with its columns resolved by canonical name.
type record struct {
	fields []string
	index  map[string]int
}

// str returns the trimmed field of the named column, "" when the column is
// absent from the file.
func (r record) str(name string) string {
	i, ok := r.index[name]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r record) amount(name string) (decimal.Decimal, error) {
	v, err := core.ParseAmount(r.str(name))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

// signed parses an amount that may be negative, e.g. a cash balance.
func (r record) signed(name string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(r.str(name))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w: %q", name, core.ErrInvalidAmount, r.str(name))
	}
	return v, nil
}

func (r record) date(name string) (core.Date, error) {
	d, err := core.ParseDate(r.str(name))
	if err != nil {
		return core.Date{}, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

func (r record) month(name string) (core.MonthKey, error) {
	m, err := core.ParseMonthKey(r.str(name))
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return m, nil
}

// decode reads a headed CSV table. Rows are parsed in file order; the first
// bad row aborts with its line number. A file without a header is empty.
func decode[T any](r io.Reader, file string, columns []column, parse func(record) (T, error)) ([]T, error) {
	csvr := csv.NewReader(r)
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1

	head, err := csvr.Read()
	if errors.Is(err, io.EOF) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", file, err)
	}

	index, err := resolveColumns(head, columns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	out := []T{}
	for {
		fields, err := csvr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		if blank(fields) {
			continue
		}
		line, _ := csvr.FieldPos(0)
		v, err := parse(record{fields: fields, index: index})
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", file, line, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func resolveColumns(head []string, columns []column) (map[string]int, error) {
	positions := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := positions[h]; !dup {
			positions[h] = i
		}
	}

	index := make(map[string]int, len(columns))
	var missing []string
	for _, c := range columns {
		found := false
		for _, name := range c.names {
			if i, ok := positions[name]; ok {
				index[c.names[0]] = i
				found = true
				break
			}
		}
		if !found && !c.optional {
			missing = append(missing, c.names[0])
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing column(s) %s; got headers=%v", strings.Join(missing, ","), head)
	}
	return index, nil
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// DecodeLedger reads transactions.csv. The month column is optional; when
// present it must agree with the date.
func DecodeLedger(r io.Reader) ([]core.LedgerEntry, error) {
	columns := []column{
		col("date"),
		optionalCol("month"),
		col("type"),
		col("category"),
		col("amount"),
		optionalCol("description", "desc"),
	}
	return decode(r, FileLedger, columns, func(rec record) (core.LedgerEntry, error) {
		date, err := rec.date("date")
		if err != nil {
			return core.LedgerEntry{}, err
		}
		month := date.Key()
		if rec.str("month") != "" {
			declared, err := rec.month("month")
			if err != nil {
				return core.LedgerEntry{}, err
			}
			if declared != month {
				return core.LedgerEntry{}, fmt.Errorf("%w: month %s does not match date %s", core.ErrInvalidMonth, declared, date)
			}
		}
		amount, err := rec.amount("amount")
		if err != nil {
			return core.LedgerEntry{}, err
		}
		return core.LedgerEntry{
			Date:        date,
			Month:       month,
			Type:        core.ParseEntryType(rec.str("type")),
			Category:    rec.str("category"),
			Amount:      amount,
			Description: rec.str("description"),
		}, nil
	})
}

// DecodeBudgets reads budgets.csv.
func DecodeBudgets(r io.Reader) ([]core.BudgetLimit, error) {
	columns := []column{col("month"), col("category"), col("limit")}
	return decode(r, FileBudgets, columns, func(rec record) (core.BudgetLimit, error) {
		month, err := rec.month("month")
		if err != nil {
			return core.BudgetLimit{}, err
		}
		limit, err := rec.amount("limit")
		if err != nil {
			return core.BudgetLimit{}, err
		}
		return core.BudgetLimit{Month: month, Category: rec.str("category"), Limit: limit}, nil
	})
}

// DecodeNetWorth reads net_worth.csv, whose investment column may be
// named value or investment_value.
func DecodeNetWorth(r io.Reader) ([]core.NetWorthSnapshot, error) {
	columns := []column{
		col("month"),
		col("cumulative_cash"),
		col("value", "investment_value", "investments"),
		col("net_worth"),
	}
	return decode(r, FileNetWorth, columns, func(rec record) (core.NetWorthSnapshot, error) {
		var (
			s   core.NetWorthSnapshot
			err error
		)
		if s.Month, err = rec.month("month"); err != nil {
			return s, err
		}
		if s.CumulativeCash, err = rec.signed("cumulative_cash"); err != nil {
			return s, err
		}
		if s.InvestmentValue, err = rec.signed("value"); err != nil {
			return s, err
		}
		if s.NetWorth, err = rec.signed("net_worth"); err != nil {
			return s, err
		}
		return s, nil
	})
}

// DecodePrices reads investments_prices.csv.
func DecodePrices(r io.Reader) ([]core.AssetPrice, error) {
	columns := []column{col("date"), col("asset", "asset_id"), col("price")}
	return decode(r, FilePrices, columns, func(rec record) (core.AssetPrice, error) {
		date, err := rec.date("date")
		if err != nil {
			return core.AssetPrice{}, err
		}
		price, err := rec.amount("price")
		if err != nil {
			return core.AssetPrice{}, err
		}
		return core.AssetPrice{AssetID: rec.str("asset"), Date: date, Price: price}, nil
	})
}

// DecodeHoldings reads investments_holdings.csv.
func DecodeHoldings(r io.Reader) ([]core.Holding, error) {
	columns := []column{col("asset", "asset_id"), col("units")}
	return decode(r, FileHoldings, columns, func(rec record) (core.Holding, error) {
		units, err := rec.amount("units")
		if err != nil {
			return core.Holding{}, err
		}
		return core.Holding{AssetID: rec.str("asset"), Units: units}, nil
	})
}

// DecodeGoals reads goals.csv.
func DecodeGoals(r io.Reader) ([]core.Goal, error) {
	columns := []column{
		col("goal", "name"),
		col("target_amount"),
		col("current_savings"),
		col("due_date"),
	}
	return decode(r, FileGoals, columns, func(rec record) (core.Goal, error) {
		var (
			g   core.Goal
			err error
		)
		g.Name = rec.str("goal")
		if g.TargetAmount, err = rec.amount("target_amount"); err != nil {
			return g, err
		}
		if g.CurrentSavings, err = rec.amount("current_savings"); err != nil {
			return g, err
		}
		if g.DueDate, err = rec.date("due_date"); err != nil {
			return g, err
		}
		return g, nil
	})
}
