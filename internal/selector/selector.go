// Package selector picks the historical "present day" a round starts from.
package selector

import (
	"math/rand/v2"
	"time"

	"TickerGuess/internal/calendar"
	"TickerGuess/internal/model"
)

// Candidate start dates lie between MinOffsetDays and MaxOffsetDays (inclusive)
// before today. The lower bound leaves a week of future closes to guess.
const (
	MinOffsetDays = 7
	MaxOffsetDays = 100
)

// SelectionError reports that no start date could be chosen.
type SelectionError struct {
	Message string
}

func (e *SelectionError) Error() string { return e.Message }

// ErrNoEligibleDates is returned when the window holds no trading day of the series.
var ErrNoEligibleDates = &SelectionError{Message: "No eligible start dates found in data range."}

// Selector chooses a uniform-random start date. Zero value uses the wall
// clock and the global random source.
type Selector struct {
	Now  func() time.Time
	Intn func(n int) int
}

// New creates a Selector using the wall clock and math/rand/v2.
func New() *Selector {
	return &Selector{Now: time.Now, Intn: rand.IntN}
}

// Candidates lists the weekday dates between MinOffsetDays and MaxOffsetDays
// before now that are present in series, nearest first.
func Candidates(series model.Series, now time.Time) []time.Time {
	var out []time.Time
	for offset := MinOffsetDays; offset <= MaxOffsetDays; offset++ {
		d := calendar.OffsetDate(now, offset)
		if calendar.IsWeekend(d) {
			continue
		}
		if !series.Contains(d) {
			continue // holiday or provider gap
		}
		out = append(out, d)
	}
	return out
}

// Choose returns a YYYY-MM-DD start date drawn from Candidates.
func (s *Selector) Choose(series model.Series) (string, error) {
	now, intn := time.Now, rand.IntN
	if s.Now != nil {
		now = s.Now
	}
	if s.Intn != nil {
		intn = s.Intn
	}
	candidates := Candidates(series, now())
	if len(candidates) == 0 {
		return "", ErrNoEligibleDates
	}
	return calendar.FormatISODate(candidates[intn(len(candidates))]), nil
}
