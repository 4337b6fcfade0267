package collector

import (
	"context"
	"fmt"
	"time"

	"TickerGuess/internal/model"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
)

// alpacaHistory is how far back AlpacaFetcher asks for daily bars.
const alpacaHistory = 2 * 365 * 24 * time.Hour

// barsClient is the subset of *marketdata.Client used here.
type barsClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// AlpacaFetcher implements Fetcher using Alpaca market-data daily bars with
// split and dividend adjustment.
type AlpacaFetcher struct {
	client barsClient
	now    func() time.Time
}

// NewAlpacaFetcher creates a fetcher from Alpaca credentials. dataURL may be
// empty to use the default data host.
func NewAlpacaFetcher(apiKey, apiSecret, dataURL string) *AlpacaFetcher {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}
	return &AlpacaFetcher{client: marketdata.NewClient(opts), now: time.Now}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

func (f *AlpacaFetcher) FetchDailySeries(ctx context.Context, ticker string) (model.Series, error) {
	if ctx.Err() != nil {
		return nil, networkError(ctx.Err())
	}
	end := f.now()
	bars, err := f.client.GetBars(ticker, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Start:      end.Add(-alpacaHistory),
		End:        end,
		Adjustment: marketdata.All,
	})
	if err != nil {
		return nil, networkError(fmt.Errorf("GetBars: %w", err))
	}
	points := make([]model.PricePoint, 0, len(bars))
	for _, b := range bars {
		if b.Close <= 0 {
			continue
		}
		points = append(points, model.PricePoint{Date: b.Timestamp, Close: decimal.NewFromFloat(b.Close)})
	}
	series := model.NewSeries(points)
	if series.Len() == 0 {
		return nil, noDataError()
	}
	return series, nil
}
