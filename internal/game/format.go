package game

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Placeholder is shown for a missing ticker, date or price.
const Placeholder = "—"

// Status lines.
const (
	MsgPrompt      = "Predict whether the price will go up or down tomorrow."
	MsgGameOver    = "No more future data available. Game over."
	MsgEnded       = "Game ended. Enter a new ticker to play again."
	MsgEmptyTicker = "Please enter a stock ticker symbol."
)

// FormatPrice renders a close with two decimals.
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatOutcome renders the reveal line for one prediction.
func FormatOutcome(o Outcome) string {
	verdict := "Wrong."
	if o.Correct {
		verdict = "Correct!"
	}
	return fmt.Sprintf("%s %s → %s: $%s → $%s", verdict,
		o.Today.Label(), o.Next.Label(), FormatPrice(o.Today.Close), FormatPrice(o.Next.Close))
}
