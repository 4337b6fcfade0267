package game

import (
	"fmt"

	"TickerGuess/internal/calendar"
	"TickerGuess/internal/model"

	"github.com/google/uuid"
)

// HistoryDays is how many closes before "today" stay on the chart.
const HistoryDays = 7

// RoundError reports that a round cannot start from the chosen date.
type RoundError struct {
	Message string
}

func (e *RoundError) Error() string { return e.Message }

// ErrInsufficientHistory is returned when fewer than HistoryDays closes
// precede the start date.
var ErrInsufficientHistory = &RoundError{Message: "Not enough historical days before the selected start date."}

// RoundState is one play-through. Invariant:
// 0 <= WindowStart <= CurrentIndex == WindowEnd < len(Series).
type RoundState struct {
	ID           uuid.UUID
	Ticker       string
	Series       model.Series
	CurrentIndex int
	Score        int
	WindowStart  int
	WindowEnd    int
}

// Current is the point the player treats as today.
func (s RoundState) Current() model.PricePoint { return s.Series[s.CurrentIndex] }

// AtEnd reports whether no later close exists.
func (s RoundState) AtEnd() bool { return s.CurrentIndex+1 >= s.Series.Len() }

// Outcome is the result of one prediction.
type Outcome struct {
	Guess    model.Direction
	Actual   model.Direction
	Today    model.PricePoint
	Next     model.PricePoint
	Correct  bool
	GameOver bool // no next close; nothing was revealed
}

// InitRound builds a fresh state positioned at startDate with the
// HistoryDays prior closes in view.
func InitRound(ticker string, series model.Series, startDate string) (RoundState, error) {
	d, err := calendar.ParseISODate(startDate)
	if err != nil {
		return RoundState{}, &RoundError{Message: fmt.Sprintf("Invalid start date %q.", startDate)}
	}
	idx, ok := series.IndexOf(d)
	if !ok {
		return RoundState{}, &RoundError{Message: fmt.Sprintf("Start date %s is not a trading day in the series.", startDate)}
	}
	if idx < HistoryDays {
		return RoundState{}, ErrInsufficientHistory
	}
	return RoundState{
		ID:           uuid.New(),
		Ticker:       ticker,
		Series:       series,
		CurrentIndex: idx,
		WindowStart:  idx - HistoryDays,
		WindowEnd:    idx,
	}, nil
}

// Advance evaluates guess against the next close and moves one day forward.
// A flat close counts as down.
func Advance(s RoundState, guess model.Direction) (RoundState, Outcome) {
	if s.AtEnd() {
		return s, Outcome{Guess: guess, Today: s.Current(), GameOver: true}
	}
	today := s.Series[s.CurrentIndex]
	next := s.Series[s.CurrentIndex+1]

	actual := model.Down
	if next.Close.GreaterThan(today.Close) {
		actual = model.Up
	}
	out := Outcome{Guess: guess, Actual: actual, Today: today, Next: next, Correct: guess == actual}
	if out.Correct {
		s.Score++
	}
	s.CurrentIndex++
	s.WindowEnd = s.CurrentIndex
	s.WindowStart = max(0, s.CurrentIndex-HistoryDays)
	return s, out
}
