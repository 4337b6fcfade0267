package collector

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"TickerGuess/internal/calendar"
	"TickerGuess/internal/model"

	"github.com/shopspring/decimal"
)

// ErrEmptyTicker is returned when the ticker is blank after trimming.
var ErrEmptyTicker = errors.New("empty ticker")

// MockFetcher returns a fixed series, or a deterministic synthetic walk when
// Series is nil, for offline play and tests.
type MockFetcher struct {
	Series model.Series
	Err    error
	Days   int
	Now    func() time.Time

	Calls []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailySeries(_ context.Context, ticker string) (model.Series, error) {
	m.Calls = append(m.Calls, ticker)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Series != nil {
		return m.Series, nil
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	days := m.Days
	if days <= 0 {
		days = 250
	}
	return generateMockSeries(ticker, days, now()), nil
}

// generateMockSeries walks back from yesterday over weekdays, seeded by the
// ticker so the same symbol always yields the same history.
func generateMockSeries(ticker string, days int, now time.Time) model.Series {
	h := fnv.New64a()
	h.Write([]byte(ticker))
	seed := h.Sum64()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	points := make([]model.PricePoint, 0, days)
	price := 50 + rng.Float64()*150
	for offset := 1; len(points) < days; offset++ {
		d := calendar.OffsetDate(now, offset)
		if calendar.IsWeekend(d) {
			continue
		}
		price *= 1 + (rng.Float64()-0.5)*0.04
		points = append(points, model.PricePoint{Date: d, Close: decimal.NewFromFloat(price).Round(2)})
	}
	return model.NewSeries(points)
}

// NormalizeTicker trims and uppercases a raw symbol.
func NormalizeTicker(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Collector normalizes tickers and validates what the Fetcher returns.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Collect fetches the daily series for raw and returns it with the
// normalized ticker.
func (c *Collector) Collect(ctx context.Context, raw string) (string, model.Series, error) {
	ticker := NormalizeTicker(raw)
	if ticker == "" {
		return "", nil, ErrEmptyTicker
	}
	start := time.Now()
	series, err := c.Fetcher.FetchDailySeries(ctx, ticker)
	if err != nil {
		var acqErr *AcquisitionError
		if !errors.As(err, &acqErr) {
			err = &AcquisitionError{Kind: KindNetwork, Message: "Failed to load data.", Err: err}
		}
		log.Printf("[WARN] %s fetch %s failed: %v", c.Fetcher.Name(), ticker, err)
		return ticker, nil, err
	}
	if series.Len() == 0 {
		return ticker, nil, noDataError()
	}
	log.Printf("[INFO] %s fetched %d closes for %s (%s .. %s) in %v", c.Fetcher.Name(), series.Len(), ticker,
		series[0].Label(), series[series.Len()-1].Label(), time.Since(start).Round(time.Millisecond))
	return ticker, series, nil
}

// Provider names accepted by NewFetcher.
const (
	ProviderAlphaVantage = "alphavantage"
	ProviderYahoo        = "yahoo"
	ProviderAlpaca       = "alpaca"
	ProviderMock         = "mock"
)

// NewFetcher builds the Fetcher named by provider.
// An empty baseURL selects the provider's public host. The Alpha Vantage
// URL is treated as empty for every other provider.
func NewFetcher(provider, baseURL, apiKey, alpacaKeyID, alpacaSecret, proxyURL string, timeout time.Duration) (Fetcher, error) {
	if provider != "" && provider != ProviderAlphaVantage && baseURL == DefaultAlphaVantageURL {
		log.Printf("[WARN] ignoring Alpha Vantage base_url for provider %s", provider)
		baseURL = ""
	}
	switch provider {
	case "", ProviderAlphaVantage:
		return NewAlphaVantageFetcher(baseURL, apiKey, proxyURL, timeout), nil
	case ProviderYahoo:
		f := NewYahooFetcher(proxyURL, timeout)
		if baseURL != "" {
			f.BaseURL = baseURL
		}
		return f, nil
	case ProviderAlpaca:
		return NewAlpacaFetcher(alpacaKeyID, alpacaSecret, baseURL), nil
	case ProviderMock:
		return &MockFetcher{}, nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", provider)
	}
}
