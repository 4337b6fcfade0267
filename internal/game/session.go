package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"TickerGuess/internal/collector"
	"TickerGuess/internal/model"
	"TickerGuess/internal/recorder"
	"TickerGuess/internal/selector"
)

// ErrStartInProgress is returned when a start is requested while the
// previous one is still fetching. Overlapping starts are refused rather
// than raced, so a late response can never replace a newer round.
var ErrStartInProgress = errors.New("a start request is already in progress")

// Session is the start-action boundary: it turns a ticker into a running
// round and routes player input to the engine.
type Session struct {
	mu        sync.Mutex
	collector *collector.Collector
	selector  *selector.Selector
	engine    *Engine
	port      Port
	recorder  recorder.Recorder
	loading   bool
	guesses   int
}

// NewSession wires the pipeline. rec may be nil.
func NewSession(col *collector.Collector, sel *selector.Selector, port Port, rec recorder.Recorder) *Session {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if sel == nil {
		sel = selector.New()
	}
	return &Session{
		collector: col,
		selector:  sel,
		engine:    NewEngine(port),
		port:      port,
		recorder:  rec,
	}
}

// Phase returns the engine phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Phase()
}

// State returns a copy of the current round, if any.
func (s *Session) State() (RoundState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State()
}

// Start discards any current round, fetches raw's history, picks a start
// date and begins a new round. Every failure is shown through the Port and
// returned; the engine is then Idle.
func (s *Session) Start(ctx context.Context, raw string) error {
	ticker, err := s.begin(raw)
	if err != nil {
		return err
	}

	_, series, err := s.collector.Collect(ctx, ticker)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.finishLoading()

	if err != nil {
		s.engine.Fail(err.Error())
		return err
	}
	startDate, err := s.selector.Choose(series)
	if err != nil {
		log.Printf("[WARN] choose start date for %s: %v", ticker, err)
		s.engine.Fail(err.Error())
		return err
	}
	state, err := s.engine.Start(ticker, series, startDate)
	if err != nil {
		log.Printf("[WARN] init round for %s at %s: %v", ticker, startDate, err)
		s.engine.Fail(err.Error())
		return err
	}
	s.guesses = 0
	log.Printf("[INFO] round %s started: %s from %s", state.ID, ticker, startDate)
	s.record(s.recorder.RecordRoundStart(&recorder.RoundStart{
		RoundID:    state.ID.String(),
		Ticker:     ticker,
		Provider:   s.collector.Fetcher.Name(),
		StartDate:  startDate,
		StartClose: FormatPrice(state.Current().Close),
		SeriesLen:  series.Len(),
		At:         time.Now(),
	}))
	return nil
}

// begin resets the display and claims the in-flight slot.
func (s *Session) begin(raw string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		return "", ErrStartInProgress
	}
	s.endForRestart()
	s.engine.Reset()

	ticker := collector.NormalizeTicker(raw)
	if ticker == "" {
		s.port.SetError(MsgEmptyTicker)
		return "", collector.ErrEmptyTicker
	}
	s.loading = true
	s.port.SetStartEnabled(false)
	s.engine.Begin(ticker)
	return ticker, nil
}

func (s *Session) finishLoading() {
	s.loading = false
	s.port.SetStartEnabled(true)
}

// endForRestart journals the end of a round abandoned by a new start.
func (s *Session) endForRestart() {
	if s.engine.Phase() != InRound {
		return
	}
	state, _ := s.engine.State()
	s.recordEnd(state, "restart")
}

// Predict scores a guess for the running round.
func (s *Session) Predict(guess model.Direction) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.engine.Predict(guess)
	if err != nil {
		return out, err
	}
	state, _ := s.engine.State()
	if out.GameOver {
		log.Printf("[INFO] round %s out of data at %s, score %d", state.ID, out.Today.Label(), state.Score)
		s.recordEnd(state, "no_more_data")
		return out, nil
	}
	s.guesses++
	s.record(s.recorder.RecordPrediction(&recorder.PredictionEvent{
		RoundID:    state.ID.String(),
		FromDate:   out.Today.Label(),
		ToDate:     out.Next.Label(),
		FromClose:  FormatPrice(out.Today.Close),
		ToClose:    FormatPrice(out.Next.Close),
		Guess:      string(out.Guess),
		Correct:    out.Correct,
		ScoreAfter: state.Score,
		At:         time.Now(),
	}))
	return out, nil
}

// End stops the running round. Calling it again has no effect.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.engine.End() {
		return
	}
	state, _ := s.engine.State()
	log.Printf("[INFO] round %s ended by player, score %d", state.ID, state.Score)
	s.recordEnd(state, "player")
}

func (s *Session) recordEnd(state RoundState, reason string) {
	s.record(s.recorder.RecordRoundEnd(&recorder.RoundEnd{
		RoundID:     state.ID.String(),
		Reason:      reason,
		FinalScore:  state.Score,
		Predictions: s.guesses,
		At:          time.Now(),
	}))
}

func (s *Session) record(err error) {
	if err != nil {
		log.Printf("[ERROR] record round event: %v", err)
	}
}

// HelpText lists the line commands.
const HelpText = "Commands:\n" +
	"  start <TICKER>  begin a new round\n" +
	"  up | u          the next close will be higher\n" +
	"  down | d        the next close will be lower or flat\n" +
	"  end             stop the current round\n" +
	"  quit            exit"

// HandleCommand processes a line command and returns a reply, or "" when
// the Port already shows the result.
func (s *Session) HandleCommand(ctx context.Context, line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	switch strings.ToLower(fields[0]) {
	case "start", "s", "new":
		ticker := ""
		if len(fields) > 1 {
			ticker = fields[1]
		}
		if err := s.Start(ctx, ticker); errors.Is(err, ErrStartInProgress) {
			return "Still loading the previous ticker, please wait."
		}
		return ""
	case "up", "u", "down", "d", "higher", "lower":
		dir, _ := model.ParseDirection(fields[0])
		if _, err := s.Predict(dir); errors.Is(err, ErrRoundNotActive) {
			return "No round in progress. Type: start <TICKER>"
		}
		return ""
	case "end", "e", "stop":
		s.End()
		return ""
	case "help", "h", "?":
		return HelpText
	default:
		return fmt.Sprintf("Unknown command %q.\n%s", fields[0], HelpText)
	}
}
