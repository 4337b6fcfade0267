package recorder

import "time"

// RoundStart describes a round that began.
type RoundStart struct {
	RoundID    string
	Ticker     string
	Provider   string
	StartDate  string
	StartClose string
	SeriesLen  int
	At         time.Time
}

// PredictionEvent is one scored guess.
type PredictionEvent struct {
	RoundID    string
	FromDate   string
	ToDate     string
	FromClose  string
	ToClose    string
	Guess      string // "up" or "down"
	Correct    bool
	ScoreAfter int
	At         time.Time
}

// RoundEnd closes a round.
type RoundEnd struct {
	RoundID     string
	Reason      string // "player" or "no_more_data"
	FinalScore  int
	Predictions int
	At          time.Time
}

// Recorder journals round events for later analysis. It is write-only:
// nothing recorded is ever loaded back into a game.
type Recorder interface {
	RecordRoundStart(evt *RoundStart) error
	RecordPrediction(evt *PredictionEvent) error
	RecordRoundEnd(evt *RoundEnd) error
	Close() error
}
