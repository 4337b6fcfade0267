package collector

import (
	"context"

	"TickerGuess/internal/model"
)

// Fetcher retrieves the full daily close history for one ticker.
type Fetcher interface {
	FetchDailySeries(ctx context.Context, ticker string) (model.Series, error)
	Name() string
}
