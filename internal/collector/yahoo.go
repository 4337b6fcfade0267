package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"TickerGuess/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultYahooURL is the public chart API host.
const DefaultYahooURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string, timeout time.Duration) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: DefaultYahooURL,
		Client:  newHTTPClient(proxyURL, timeout),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				GMTOffset int64 `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDailySeries fetches the full daily history, adjusted close first.
func (f *YahooFetcher) FetchDailySeries(ctx context.Context, ticker string) (model.Series, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=max&events=div%%2Csplit",
		f.BaseURL, url.PathEscape(f.yahooSymbol(ticker)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, networkError(err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(fmt.Errorf("yahoo read body: %w", err))
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &AcquisitionError{Kind: KindRateLimited, Message: msgRateLimited}
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, statusError(resp.StatusCode)
		}
		return nil, &AcquisitionError{Kind: KindNotJSON, Message: msgNotJSON, Err: err}
	}
	// Unknown symbols come back as 404 with a chart error body.
	if chart.Chart.Error != nil {
		return nil, &AcquisitionError{
			Kind:    KindInvalidSymbol,
			Message: msgInvalidSymbol,
			Err:     fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, noDataError()
	}

	result := chart.Chart.Result[0]
	var closes, adjCloses []*float64
	if len(result.Indicators.Quote) > 0 {
		closes = result.Indicators.Quote[0].Close
	}
	if len(result.Indicators.AdjClose) > 0 {
		adjCloses = result.Indicators.AdjClose[0].AdjClose
	}

	points := make([]model.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		price, ok := pickClose(adjCloses, i)
		if !ok {
			price, ok = pickClose(closes, i)
		}
		if !ok {
			continue // null bars (holidays, halts)
		}
		// Shift by the exchange offset so the bar lands on its local trading day.
		date := time.Unix(ts+result.Meta.GMTOffset, 0).UTC()
		points = append(points, model.PricePoint{Date: date, Close: price})
	}

	series := model.NewSeries(points)
	if series.Len() == 0 {
		return nil, noDataError()
	}
	return series, nil
}

func pickClose(values []*float64, i int) (decimal.Decimal, bool) {
	if i >= len(values) || values[i] == nil {
		return decimal.Zero, false
	}
	v := *values[i]
	if v <= 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(v), true
}
