// Package align builds the unified time axis for multi-company price
// comparisons and derives day-over-day change metrics. Everything here is
// a pure function over its inputs; the direction preference is passed in
// on every call, never held as state.
package align

import (
	"sort"

	"github.com/SambhavSurthi/StockInsight/internal/model"
)

// Rows joins the companies' series onto one row per distinct calendar
// date. The canonical date is the join key; two dates that would format
// to the same display label stay distinct. Dates are ordered newest-first
// and then reversed when dir is oldest-first. A company with no
// observation on a date is absent from that row, never interpolated.
func Rows(companies []model.CompanyRef, series map[int64]model.PriceSeries, dir model.Direction) []model.AlignedRow {
	dates := make(map[string]model.PriceRow)
	perCompany := make(map[int64]map[string]*float64, len(companies))

	for _, co := range companies {
		prices := make(map[string]*float64)
		for _, row := range series[co.ScreenerID] {
			key := row.Date.Format(model.DateFormat)
			if _, seen := dates[key]; !seen {
				dates[key] = row
			}
			prices[key] = row.Price
		}
		perCompany[co.ScreenerID] = prices
	}

	keys := make([]string, 0, len(dates))
	for k := range dates {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return dates[keys[i]].Date.After(dates[keys[j]].Date)
	})
	if dir == model.OldestFirst {
		reverse(keys)
	}

	rows := make([]model.AlignedRow, len(keys))
	for i, k := range keys {
		prices := make(map[int64]*float64, len(companies))
		for _, co := range companies {
			if p, ok := perCompany[co.ScreenerID][k]; ok {
				prices[co.ScreenerID] = p
			}
		}
		rows[i] = model.AlignedRow{Date: dates[k].Date, Prices: prices}
	}
	return rows
}

// Change returns the movement of one company's cell relative to the prior
// trading day, or nil when it cannot be computed. "Previous" always means
// the chronologically older neighbor: the next row when rendering
// newest-first, the prior row when rendering oldest-first. The direction
// toggle changes display order only, never the economic meaning of change.
func Change(rows []model.AlignedRow, idx int, companyID int64, dir model.Direction) *model.ChangeMetric {
	if idx < 0 || idx >= len(rows) {
		return nil
	}
	prevIdx := idx + 1
	if dir == model.OldestFirst {
		prevIdx = idx - 1
	}
	if prevIdx < 0 || prevIdx >= len(rows) {
		return nil
	}
	cur, ok := rows[idx].Prices[companyID]
	if !ok {
		return nil
	}
	prev, ok := rows[prevIdx].Prices[companyID]
	if !ok {
		return nil
	}
	return change(cur, prev)
}

// Sort returns a copy of a single company's series ordered per dir.
// The input is expected newest-first, which is how series are stored.
func Sort(series model.PriceSeries, dir model.Direction) model.PriceSeries {
	out := make(model.PriceSeries, len(series))
	copy(out, series)
	out.SortDescending()
	if dir == model.OldestFirst {
		reverse(out)
	}
	return out
}

// SeriesChanges computes the change metric for every row of a single
// company's series ordered per dir. prev, when non-nil, is the observation
// immediately older than the window; it lets the earliest visible row
// still show a change. Without it, the first chronological row's change
// is always nil.
func SeriesChanges(rows model.PriceSeries, dir model.Direction, prev *model.PriceRow) []*model.ChangeMetric {
	changes := make([]*model.ChangeMetric, len(rows))
	for i := range rows {
		prevIdx := i + 1
		if dir == model.OldestFirst {
			prevIdx = i - 1
		}
		switch {
		case prevIdx >= 0 && prevIdx < len(rows):
			changes[i] = change(rows[i].Price, rows[prevIdx].Price)
		case prev != nil:
			changes[i] = change(rows[i].Price, prev.Price)
		}
	}
	return changes
}

// change derives the metric from two nullable prices. A missing price on
// either side, or a zero previous price, yields nil rather than a
// fabricated zero change.
func change(cur, prev *float64) *model.ChangeMetric {
	if cur == nil || prev == nil || *prev == 0 {
		return nil
	}
	abs := *cur - *prev
	return &model.ChangeMetric{
		Absolute: abs,
		Percent:  abs / *prev * 100,
	}
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
