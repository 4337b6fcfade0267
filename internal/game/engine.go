// Package game runs rounds of the higher-or-lower guessing game.
package game

import (
	"errors"

	"TickerGuess/internal/model"
)

// Phase is the engine's position in the round lifecycle.
type Phase int

const (
	Idle Phase = iota
	AwaitingData
	InRound
	Ended
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case AwaitingData:
		return "awaiting_data"
	case InRound:
		return "in_round"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// ErrRoundNotActive is returned by Predict outside a running round.
var ErrRoundNotActive = errors.New("no round in progress")

// Engine applies InitRound/Advance transitions to the state it owns and
// pushes the visible effects through a Port. It is not safe for concurrent
// use; Session serializes access.
type Engine struct {
	port  Port
	phase Phase
	state RoundState
	has   bool
}

// NewEngine creates an idle engine.
func NewEngine(port Port) *Engine {
	return &Engine{port: port}
}

func (e *Engine) Phase() Phase { return e.phase }

// State returns a copy of the current round, if any.
func (e *Engine) State() (RoundState, bool) { return e.state, e.has }

// Reset discards any round and clears the display.
func (e *Engine) Reset() {
	e.phase = Idle
	e.state = RoundState{}
	e.has = false
	e.port.SetError("")
	e.port.SetStatus("")
	e.port.SetControlsEnabled(false)
	e.port.ShowWindow(nil, nil)
	e.port.SetScoreAndPosition(Placeholder, Placeholder, Placeholder, 0)
}

// Begin marks that data for ticker is being fetched.
func (e *Engine) Begin(ticker string) {
	e.phase = AwaitingData
	e.port.SetScoreAndPosition(ticker, Placeholder, Placeholder, 0)
}

// Fail surfaces msg and returns to Idle with no round retained.
func (e *Engine) Fail(msg string) {
	e.phase = Idle
	e.state = RoundState{}
	e.has = false
	e.port.SetControlsEnabled(false)
	e.port.SetError(msg)
}

// Start begins a round at startDate. On error the engine is Idle and
// nothing is shown.
func (e *Engine) Start(ticker string, series model.Series, startDate string) (RoundState, error) {
	state, err := InitRound(ticker, series, startDate)
	if err != nil {
		e.phase = Idle
		e.state = RoundState{}
		e.has = false
		e.port.SetControlsEnabled(false)
		return RoundState{}, err
	}
	e.state, e.has, e.phase = state, true, InRound
	e.render()
	e.port.SetStatus(MsgPrompt)
	e.port.SetControlsEnabled(true)
	return state, nil
}

// Predict scores guess against the next close. At the last close it ends
// the round without changing the score.
func (e *Engine) Predict(guess model.Direction) (Outcome, error) {
	if e.phase != InRound {
		return Outcome{}, ErrRoundNotActive
	}
	next, out := Advance(e.state, guess)
	if out.GameOver {
		e.phase = Ended
		e.port.SetStatus(MsgGameOver)
		e.port.SetControlsEnabled(false)
		return out, nil
	}
	e.state = next
	e.port.SetStatus(FormatOutcome(out))
	e.render()
	return out, nil
}

// End stops the round. It reports whether a running round was stopped;
// repeated calls do nothing.
func (e *Engine) End() bool {
	if e.phase != InRound {
		return false
	}
	e.phase = Ended
	e.port.SetControlsEnabled(false)
	e.port.SetStatus(MsgEnded)
	return true
}

func (e *Engine) render() {
	labels, values := e.state.Series.Window(e.state.WindowStart, e.state.WindowEnd)
	e.port.ShowWindow(labels, values)
	cur := e.state.Current()
	e.port.SetScoreAndPosition(e.state.Ticker, cur.Label(), FormatPrice(cur.Close), e.state.Score)
}
