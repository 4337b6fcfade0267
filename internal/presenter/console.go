// Package presenter renders a game to a plain text stream.
package presenter

import (
	"fmt"
	"io"
	"sync"

	"TickerGuess/internal/chart"
	"TickerGuess/internal/game"
)

// ChartHeight is the number of plot rows drawn per window.
const ChartHeight = 8

// Console implements game.Port by writing lines to an io.Writer.
type Console struct {
	mu       sync.Mutex
	w        io.Writer
	controls bool
	start    bool
}

// NewConsole creates a console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w, start: true}
}

func (c *Console) ShowWindow(labels []string, values []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(values) == 0 {
		return
	}
	fmt.Fprint(c.w, chart.Render(labels, values, ChartHeight))
}

func (c *Console) SetStatus(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if text != "" {
		fmt.Fprintf(c.w, "» %s\n", text)
	}
}

func (c *Console) SetError(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if text != "" {
		fmt.Fprintf(c.w, "! %s\n", text)
	}
}

func (c *Console) SetScoreAndPosition(ticker, date, price string, score int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ticker == game.Placeholder {
		return
	}
	if date == game.Placeholder {
		fmt.Fprintf(c.w, "Loading %s...\n", ticker)
		return
	}
	fmt.Fprintf(c.w, "%s  %s  $%s  score %d\n", ticker, date, price, score)
}

func (c *Console) SetControlsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controls = enabled
}

func (c *Console) SetStartEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start = enabled
}

// Prompt returns the input prompt for the current control state.
func (c *Console) Prompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.controls:
		return "[up/down/end] > "
	case c.start:
		return "[start <TICKER>] > "
	default:
		return "> "
	}
}
