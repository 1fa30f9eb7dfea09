package model

import (
	"sort"
	"time"
)

// DateFormat is the canonical wire/storage format for calendar dates.
const DateFormat = "2006-01-02"

// PriceRow is a single dated price observation. Price is nil when the
// upstream value could not be parsed; the row is still kept so the date
// participates in alignment.
type PriceRow struct {
	Date  time.Time `json:"date"`
	Price *float64  `json:"price"`
}

// PriceSeries is one company's price history, always held newest-first.
type PriceSeries []PriceRow

// SortDescending orders the series newest-first in place.
func (s PriceSeries) SortDescending() {
	sort.Slice(s, func(i, j int) bool { return s[i].Date.After(s[j].Date) })
}

// Empty reports whether the series has no observations.
func (s PriceSeries) Empty() bool { return len(s) == 0 }

// CompanyRef identifies a tracked company. IDs come from the upstream
// screener provider; this package never creates them.
type CompanyRef struct {
	ScreenerID int64  `json:"screenerId"`
	Name       string `json:"name"`
}

// Direction selects which end of a date sequence renders first.
type Direction string

const (
	// NewestFirst renders dates newest to oldest (the default).
	NewestFirst Direction = "newest-first"
	// OldestFirst renders dates oldest to newest.
	OldestFirst Direction = "oldest-first"
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool { return d == NewestFirst || d == OldestFirst }

// AlignedRow is one row of a multi-company comparison: a single calendar
// date with each company's price on that date. A company with no
// observation on the date is simply absent from Prices.
type AlignedRow struct {
	Date   time.Time          `json:"date"`
	Prices map[int64]*float64 `json:"prices"`
}

// ChangeMetric is the day-over-day movement of one price cell relative to
// the prior trading day. Derived on demand, never stored.
type ChangeMetric struct {
	Absolute float64 `json:"absolute"`
	Percent  float64 `json:"percent"`
}
