package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"TickerGuess/internal/calendar"
	"TickerGuess/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultAlphaVantageURL is the public query endpoint.
const DefaultAlphaVantageURL = "https://www.alphavantage.co/query"

const (
	functionDailyAdjusted = "TIME_SERIES_DAILY_ADJUSTED"
	functionDaily         = "TIME_SERIES_DAILY"
)

// AlphaVantageFetcher implements Fetcher against the Alpha Vantage query API.
// It asks for the adjusted series first and falls back to the unadjusted one
// when the adjusted endpoint is premium-gated or returns no records.
type AlphaVantageFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewAlphaVantageFetcher creates a new fetcher with optional proxy support.
func NewAlphaVantageFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *AlphaVantageFetcher {
	if baseURL == "" {
		baseURL = DefaultAlphaVantageURL
	}
	return &AlphaVantageFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

// avResponse is the union of every shape the query endpoint returns.
type avResponse struct {
	Note         looseString      `json:"Note"`
	Information  looseString      `json:"Information"`
	ErrorMessage looseString      `json:"Error Message"`
	TimeSeries   map[string]avDay `json:"Time Series (Daily)"`
}

type avDay struct {
	Close         looseString `json:"4. close"`
	AdjustedClose looseString `json:"5. adjusted close"`
}

// looseString holds a JSON string as is and any other non-null value as its
// raw text, so a numeric close or an object-valued notice still decodes.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	*s = looseString(b)
	return nil
}

type payloadKind int

const (
	payloadOK payloadKind = iota
	payloadNotJSON
	payloadRateLimited
	payloadAdvisory
	payloadInvalidSymbol
	payloadEmpty
)

// payload is a classified response body.
type payload struct {
	kind    payloadKind
	text    string // advisory text
	premium bool   // body or advisory mentions a premium-only feature
	days    map[string]avDay
}

// mentionsPremium is a substring heuristic over free-form upstream text.
// It breaks if the provider rewords its notice.
func mentionsPremium(text string) bool {
	return strings.Contains(strings.ToLower(text), "premium")
}

// classify tags a body returned by function. The throttling notice wins on
// both endpoints; after it the unadjusted endpoint checks the error message
// before the advisory, the adjusted endpoint the reverse.
func classify(function string, body []byte) payload {
	var resp avResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return payload{kind: payloadNotJSON, premium: mentionsPremium(string(body))}
	}
	info := string(resp.Information)
	advisory := payload{kind: payloadAdvisory, text: info, premium: mentionsPremium(info)}
	invalid := payload{kind: payloadInvalidSymbol, text: string(resp.ErrorMessage)}

	switch {
	case resp.Note != "":
		return payload{kind: payloadRateLimited, text: string(resp.Note)}
	case function == functionDaily && resp.ErrorMessage != "":
		return invalid
	case resp.Information != "":
		return advisory
	case resp.ErrorMessage != "":
		return invalid
	case len(resp.TimeSeries) == 0:
		return payload{kind: payloadEmpty}
	}
	return payload{kind: payloadOK, days: resp.TimeSeries}
}

// shouldFallback decides whether an adjusted-endpoint payload is retried
// against the unadjusted endpoint. The unadjusted endpoint never falls back.
func shouldFallback(p payload) bool {
	switch p.kind {
	case payloadNotJSON, payloadAdvisory:
		return p.premium
	case payloadEmpty:
		return true
	default:
		return false
	}
}

func (p payload) err() *AcquisitionError {
	switch p.kind {
	case payloadNotJSON:
		return &AcquisitionError{Kind: KindNotJSON, Message: msgNotJSON}
	case payloadRateLimited:
		return &AcquisitionError{Kind: KindRateLimited, Message: msgRateLimited}
	case payloadAdvisory:
		return &AcquisitionError{Kind: KindAdvisory, Message: p.text}
	case payloadInvalidSymbol:
		return &AcquisitionError{Kind: KindInvalidSymbol, Message: msgInvalidSymbol}
	case payloadEmpty:
		return noDataError()
	default:
		return nil
	}
}

// FetchDailySeries returns the ticker's full daily close history.
func (f *AlphaVantageFetcher) FetchDailySeries(ctx context.Context, ticker string) (model.Series, error) {
	p, err := f.query(ctx, functionDailyAdjusted, ticker)
	if err != nil {
		return nil, err
	}
	if shouldFallback(p) {
		log.Printf("[INFO] alphavantage: adjusted series unavailable for %s, using unadjusted", ticker)
		p, err = f.query(ctx, functionDaily, ticker)
		if err != nil {
			return nil, err
		}
	}
	if e := p.err(); e != nil {
		return nil, e
	}
	series := parseDays(p.days)
	if series.Len() == 0 {
		return nil, noDataError()
	}
	return series, nil
}

func (f *AlphaVantageFetcher) query(ctx context.Context, function, ticker string) (payload, error) {
	q := url.Values{}
	q.Set("function", function)
	q.Set("symbol", ticker)
	q.Set("outputsize", "full")
	q.Set("apikey", f.APIKey)
	endpoint := f.BaseURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return payload{}, networkError(err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := f.Client.Do(req)
	if err != nil {
		return payload{}, networkError(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return payload{}, statusError(resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return payload{}, networkError(fmt.Errorf("read body: %w", err))
	}
	return classify(function, body), nil
}

// parseDays converts day records, preferring the adjusted close.
func parseDays(days map[string]avDay) model.Series {
	points := make([]model.PricePoint, 0, len(days))
	for date, d := range days {
		t, err := calendar.ParseISODate(date)
		if err != nil {
			continue
		}
		price, ok := parseClose(string(d.AdjustedClose))
		if !ok {
			price, ok = parseClose(string(d.Close))
		}
		if !ok {
			continue
		}
		points = append(points, model.PricePoint{Date: t, Close: price})
	}
	return model.NewSeries(points)
}

// parseClose accepts a positive finite decimal string.
func parseClose(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}
