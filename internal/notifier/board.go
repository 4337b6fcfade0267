package notifier

import (
	"context"
	"sync"
)

// Board implements game.Port for chat delivery. Port calls only update a
// snapshot; Flush sends it as a single message.
type Board struct {
	mu       sync.Mutex
	snap     Snapshot
	dirty    bool
	notifier *TelegramNotifier
}

// Snapshot is everything a rendered board shows.
type Snapshot struct {
	Labels   []string
	Values   []float64
	Status   string
	Error    string
	Ticker   string
	Date     string
	Price    string
	Score    int
	Controls bool
}

// NewBoard creates a board that sends through n.
func NewBoard(n *TelegramNotifier) *Board {
	return &Board{notifier: n}
}

func (b *Board) update(fn func(s *Snapshot)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.snap)
	b.dirty = true
}

func (b *Board) ShowWindow(labels []string, values []float64) {
	b.update(func(s *Snapshot) { s.Labels, s.Values = labels, values })
}

func (b *Board) SetStatus(text string) { b.update(func(s *Snapshot) { s.Status = text }) }

func (b *Board) SetError(text string) { b.update(func(s *Snapshot) { s.Error = text }) }

func (b *Board) SetScoreAndPosition(ticker, date, price string, score int) {
	b.update(func(s *Snapshot) { s.Ticker, s.Date, s.Price, s.Score = ticker, date, price, score })
}

func (b *Board) SetControlsEnabled(enabled bool) { b.update(func(s *Snapshot) { s.Controls = enabled }) }

// SetStartEnabled is a no-op: chat input cannot be disabled, and the
// session already refuses overlapping starts.
func (b *Board) SetStartEnabled(bool) {}

// Snapshot returns a copy of the current board.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snap
}

// Flush sends the board if anything changed since the last flush.
func (b *Board) Flush(ctx context.Context) error {
	b.mu.Lock()
	if !b.dirty {
		b.mu.Unlock()
		return nil
	}
	text := FormatBoard(&b.snap)
	b.dirty = false
	b.mu.Unlock()
	return b.notifier.SendWithRetry(ctx, text, 2)
}
