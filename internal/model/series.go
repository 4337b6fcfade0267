package model

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"TickerGuess/internal/calendar"

	"github.com/shopspring/decimal"
)

// PricePoint is one daily close. Date is a UTC midnight.
type PricePoint struct {
	Date  time.Time
	Close decimal.Decimal
}

// Label returns the YYYY-MM-DD form of the point's date.
func (p PricePoint) Label() string { return calendar.FormatISODate(p.Date) }

// Series is an ascending run of daily closes with unique dates.
// A fetched Series is never mutated; a new ticker gets a new Series.
type Series []PricePoint

// NewSeries sorts points by date and drops repeated dates, keeping the first
// occurrence in input order.
func NewSeries(points []PricePoint) Series {
	out := make(Series, 0, len(points))
	seen := make(map[time.Time]bool, len(points))
	for _, p := range points {
		d := calendar.Midnight(p.Date)
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, PricePoint{Date: d, Close: p.Close})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (s Series) Len() int { return len(s) }

// IndexOf returns the position of the given UTC day.
func (s Series) IndexOf(date time.Time) (int, bool) {
	d := calendar.Midnight(date)
	i := sort.Search(len(s), func(i int) bool { return !s[i].Date.Before(d) })
	if i < len(s) && s[i].Date.Equal(d) {
		return i, true
	}
	return -1, false
}

// Contains reports whether date is a trading day present in s.
func (s Series) Contains(date time.Time) bool {
	_, ok := s.IndexOf(date)
	return ok
}

// Window returns chart labels and values for the inclusive slice [start, end].
func (s Series) Window(start, end int) ([]string, []float64) {
	if start < 0 {
		start = 0
	}
	if end >= len(s) {
		end = len(s) - 1
	}
	if start > end {
		return nil, nil
	}
	labels := make([]string, 0, end-start+1)
	values := make([]float64, 0, end-start+1)
	for _, p := range s[start : end+1] {
		labels = append(labels, p.Label())
		values = append(values, p.Close.InexactFloat64())
	}
	return labels, values
}

// Direction is a player's guess about the next close.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection accepts "up"/"down" and their first letters, case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u", "higher":
		return Up, nil
	case "down", "d", "lower":
		return Down, nil
	default:
		return "", fmt.Errorf("unknown direction %q", s)
	}
}
