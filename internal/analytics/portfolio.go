package analytics

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"findash/internal/core"
)

type (
	MonthlyValue struct {
		Month      core.MonthKey   `json:"month"`
		TotalValue decimal.Decimal `json:"total_value"`
	}

	CumulativeReturn struct {
		MonthlyValue
		// RetPct is nil when the base month is worth zero.
		RetPct *float64 `json:"ret_pct"`
	}

	PeriodicReturn struct {
		MonthlyValue
		// PeriodRetPct is nil for the first month and after a zero month.
		PeriodRetPct *float64 `json:"period_ret_pct"`
	}

	// HistoryPoint carries both return figures for one month.
	HistoryPoint struct {
		MonthlyValue
		RetPct       *float64 `json:"ret_pct"`
		PeriodRetPct *float64 `json:"period_ret_pct"`
	}

	AllocationRow struct {
		AssetID     string          `json:"asset_id"`
		LatestPrice decimal.Decimal `json:"latest_price"`
		PriceDate   core.Date       `json:"price_date"`
		Units       decimal.Decimal `json:"units"`
		Value       decimal.Decimal `json:"value"`
		WeightPct   float64         `json:"weight_pct"`
	}

	Allocation struct {
		Rows       []AllocationRow `json:"rows"`
		TotalValue decimal.Decimal `json:"total_value"`
	}
)

// MonthlySeries values the static holdings at every price observation and
// sums the results per observation month, ascending.
//
// Prices and holdings are inner-joined on asset: an asset missing on either
// side contributes nothing. Under ValuationSumAll every observation counts,
// so two prices of one asset in the same month add up; under
// ValuationLatestPerMonth only the latest observation of each asset in a
// month is used.
func (e *Engine) MonthlySeries() []MonthlyValue {
	prices := e.data.Prices()
	if e.valuation == ValuationLatestPerMonth {
		prices = latestPerMonth(prices)
	}

	totals := map[core.MonthKey]decimal.Decimal{}
	for _, p := range prices {
		h, ok := e.data.Holding(p.AssetID)
		if !ok {
			continue
		}
		month := p.Date.Key()
		totals[month] = totals[month].Add(p.Price.Mul(h.Units))
	}

	out := make([]MonthlyValue, 0, len(totals))
	for month, total := range totals {
		out = append(out, MonthlyValue{Month: month, TotalValue: total})
	}
	slices.SortFunc(out, func(a, b MonthlyValue) int {
		return cmp.Compare(a.Month, b.Month)
	})
	return out
}

// latestPerMonth keeps, for each (asset, month), the observation with the
// latest date. On equal dates the later row wins.
func latestPerMonth(prices []core.AssetPrice) []core.AssetPrice {
	type key struct {
		asset string
		month core.MonthKey
	}
	index := map[key]int{}
	var out []core.AssetPrice
	for _, p := range prices {
		k := key{asset: p.AssetID, month: p.Date.Key()}
		i, ok := index[k]
		if !ok {
			index[k] = len(out)
			out = append(out, p)
			continue
		}
		if !p.Date.Before(out[i].Date.Time) {
			out[i] = p
		}
	}
	return out
}

// CumulativeReturns computes each month's return against the earliest month
// of series. The series is sorted by month first; an empty series has no
// base and fails with core.ErrEmptyDataset.
func CumulativeReturns(series []MonthlyValue) ([]CumulativeReturn, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: no portfolio valuations", core.ErrEmptyDataset)
	}
	sorted := sortedSeries(series)
	base := sorted[0].TotalValue

	out := make([]CumulativeReturn, len(sorted))
	for i, v := range sorted {
		out[i] = CumulativeReturn{MonthlyValue: v}
		if i == 0 {
			zero := 0.0
			out[i].RetPct = &zero
			continue
		}
		if pct, ok := core.Ratio(v.TotalValue, base); ok {
			out[i].RetPct = &pct
		}
	}
	return out, nil
}

// PeriodicReturns computes each month's return against the previous one.
func PeriodicReturns(series []MonthlyValue) []PeriodicReturn {
	sorted := sortedSeries(series)
	out := make([]PeriodicReturn, len(sorted))
	for i, v := range sorted {
		out[i] = PeriodicReturn{MonthlyValue: v}
		if i == 0 {
			continue
		}
		if pct, ok := core.Ratio(v.TotalValue, sorted[i-1].TotalValue); ok {
			out[i].PeriodRetPct = &pct
		}
	}
	return out
}

// History returns the monthly portfolio series with both return figures.
func (e *Engine) History() ([]HistoryPoint, error) {
	series := e.MonthlySeries()
	cumulative, err := CumulativeReturns(series)
	if err != nil {
		return nil, err
	}
	periodic := PeriodicReturns(series)

	out := make([]HistoryPoint, len(cumulative))
	for i := range cumulative {
		out[i] = HistoryPoint{
			MonthlyValue: cumulative[i].MonthlyValue,
			RetPct:       cumulative[i].RetPct,
			PeriodRetPct: periodic[i].PeriodRetPct,
		}
	}
	return out, nil
}

// Allocation values every holding at its most recent price, largest
// position first. Holdings without any price are left out. A zero total
// gives every row a zero weight.
func (e *Engine) Allocation() Allocation {
	latest := map[string]core.AssetPrice{}
	for _, p := range e.data.Prices() {
		if cur, ok := latest[p.AssetID]; ok && p.Date.Before(cur.Date.Time) {
			continue
		}
		latest[p.AssetID] = p
	}

	total := decimal.Zero
	rows := []AllocationRow{}
	seen := map[string]bool{}
	for _, h := range e.data.Holdings() {
		if seen[h.AssetID] {
			continue
		}
		seen[h.AssetID] = true
		p, ok := latest[h.AssetID]
		if !ok {
			continue
		}
		value := h.Units.Mul(p.Price)
		total = total.Add(value)
		rows = append(rows, AllocationRow{
			AssetID:     h.AssetID,
			LatestPrice: p.Price,
			PriceDate:   p.Date,
			Units:       h.Units,
			Value:       value,
		})
	}

	for i := range rows {
		rows[i].WeightPct = core.Percent(rows[i].Value, total)
	}
	slices.SortStableFunc(rows, func(a, b AllocationRow) int {
		return b.Value.Cmp(a.Value)
	})
	return Allocation{Rows: rows, TotalValue: total}
}

func sortedSeries(series []MonthlyValue) []MonthlyValue {
	sorted := slices.Clone(series)
	slices.SortStableFunc(sorted, func(a, b MonthlyValue) int {
		return cmp.Compare(a.Month, b.Month)
	})
	return sorted
}
