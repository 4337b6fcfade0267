package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

// avServer serves canned bodies per function and counts calls.
type avServer struct {
	mu     sync.Mutex
	bodies map[string]string
	status int
	calls  map[string]int
	last   *http.Request
}

func newAVServer(t *testing.T, bodies map[string]string) (*avServer, *AlphaVantageFetcher) {
	t.Helper()
	s := &avServer{bodies: bodies, status: http.StatusOK, calls: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		fn := r.URL.Query().Get("function")
		s.calls[fn]++
		s.last = r
		status := s.status
		body := s.bodies[fn]
		s.mu.Unlock()
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return s, NewAlphaVantageFetcher(srv.URL, "demo", "", 0)
}

func (s *avServer) count(fn string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[fn]
}

func (s *avServer) lastRequest() *http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *avServer) setStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = code
}

const adjustedOK = `{
  "Meta Data": {"2. Symbol": "IBM"},
  "Time Series (Daily)": {
    "2024-01-03": {"4. close": "103.00", "5. adjusted close": "101.50"},
    "2024-01-01": {"4. close": "100.00", "5. adjusted close": "99.00"},
    "2024-01-02": {"4. close": "105.00", "5. adjusted close": ""},
    "2024-01-04": {"4. close": "abc", "5. adjusted close": "NaN"},
    "bad-date":   {"4. close": "1.00"}
  }
}`

const dailyOK = `{
  "Time Series (Daily)": {
    "2024-01-02": {"4. close": "10.5"},
    "2024-01-01": {"4. close": "10.0"}
  }
}`

const premiumInfo = `{"Information": "Thank you for using Alpha Vantage! This is a PREMIUM endpoint. You may subscribe to any of the premium plans."}`

func acquisitionKind(t *testing.T, err error) ErrorKind {
	t.Helper()
	var acqErr *AcquisitionError
	if !errors.As(err, &acqErr) {
		t.Fatalf("expected *AcquisitionError, got %T: %v", err, err)
	}
	return acqErr.Kind
}

func TestAlphaVantage_AdjustedSeries(t *testing.T) {
	srv, f := newAVServer(t, map[string]string{functionDailyAdjusted: adjustedOK})
	series, err := f.FetchDailySeries(context.Background(), "IBM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Len() != 3 {
		t.Fatalf("expected 3 points, got %d", series.Len())
	}
	want := []struct {
		date  string
		close string
	}{
		{"2024-01-01", "99"},
		{"2024-01-02", "105"}, // empty adjusted close falls back to close
		{"2024-01-03", "101.5"},
	}
	for i, w := range want {
		if series[i].Label() != w.date {
			t.Errorf("point %d date = %s, want %s", i, series[i].Label(), w.date)
		}
		if !series[i].Close.Equal(decimal.RequireFromString(w.close)) {
			t.Errorf("point %d close = %s, want %s", i, series[i].Close, w.close)
		}
	}
	if srv.count(functionDaily) != 0 {
		t.Errorf("unadjusted endpoint should not be called, got %d calls", srv.count(functionDaily))
	}

	last := srv.lastRequest()
	q := last.URL.Query()
	if q.Get("symbol") != "IBM" || q.Get("outputsize") != "full" || q.Get("apikey") != "demo" {
		t.Errorf("unexpected query %v", q)
	}
	if last.Header.Get("Cache-Control") != "no-cache" {
		t.Errorf("expected cache-bypassing request, headers %v", last.Header)
	}
}

func TestAlphaVantage_PremiumAdvisoryFallsBackOnce(t *testing.T) {
	srv, f := newAVServer(t, map[string]string{
		functionDailyAdjusted: premiumInfo,
		functionDaily:         dailyOK,
	})
	series, err := f.FetchDailySeries(context.Background(), "IBM")
	if err != nil {
		t.Fatalf("fallback should succeed silently, got %v", err)
	}
	if series.Len() != 2 || series[0].Label() != "2024-01-01" {
		t.Errorf("unexpected series %+v", series)
	}
	if srv.count(functionDailyAdjusted) != 1 || srv.count(functionDaily) != 1 {
		t.Errorf("expected exactly one call per endpoint, got adjusted=%d daily=%d", srv.count(functionDailyAdjusted), srv.count(functionDaily))
	}
}

func TestAlphaVantage_NonJSONPremiumFallsBack(t *testing.T) {
	srv, f := newAVServer(t, map[string]string{
		functionDailyAdjusted: "<html>This is a premium endpoint</html>",
		functionDaily:         dailyOK,
	})
	if _, err := f.FetchDailySeries(context.Background(), "IBM"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if srv.count(functionDaily) != 1 {
		t.Errorf("expected one fallback call, got adjusted=%d daily=%d", srv.count(functionDailyAdjusted), srv.count(functionDaily))
	}
}

func TestAlphaVantage_EmptyAdjustedFallsBack(t *testing.T) {
	for name, body := range map[string]string{
		"absent": `{"Meta Data": {}}`,
		"empty":  `{"Time Series (Daily)": {}}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv, f := newAVServer(t, map[string]string{
				functionDailyAdjusted: body,
				functionDaily:         dailyOK,
			})
			series, err := f.FetchDailySeries(context.Background(), "IBM")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if series.Len() != 2 {
				t.Errorf("expected unadjusted series, got %d points", series.Len())
			}
			if srv.count(functionDaily) != 1 {
				t.Errorf("unadjusted endpoint must be attempted, calls adjusted=%d daily=%d", srv.count(functionDailyAdjusted), srv.count(functionDaily))
			}
		})
	}
}

func TestAlphaVantage_UnadjustedDoesNotFallBackFurther(t *testing.T) {
	tests := []struct {
		name  string
		daily string
		kind  ErrorKind
	}{
		{"empty", `{"Time Series (Daily)": {}}`, KindNoData},
		{"premium advisory", premiumInfo, KindAdvisory},
		{"premium non-json", "premium only", KindNotJSON},
		{"all records invalid", `{"Time Series (Daily)": {"2024-01-01": {"4. close": "0"}}}`, KindNoData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, f := newAVServer(t, map[string]string{
				functionDailyAdjusted: `{}`,
				functionDaily:         tt.daily,
			})
			_, err := f.FetchDailySeries(context.Background(), "IBM")
			if got := acquisitionKind(t, err); got != tt.kind {
				t.Errorf("kind = %s, want %s", got, tt.kind)
			}
			if srv.count(functionDailyAdjusted) != 1 || srv.count(functionDaily) != 1 {
				t.Errorf("expected one call per endpoint, got adjusted=%d daily=%d", srv.count(functionDailyAdjusted), srv.count(functionDaily))
			}
		})
	}
}

func TestAlphaVantage_HardFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind ErrorKind
		msg  string
	}{
		{"rate limited", `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`, KindRateLimited, msgRateLimited},
		{"advisory", `{"Information": "The demo API key is for demo purposes only."}`, KindAdvisory, "The demo API key is for demo purposes only."},
		{"invalid symbol", `{"Error Message": "Invalid API call."}`, KindInvalidSymbol, msgInvalidSymbol},
		{"non-json", "<html>oops</html>", KindNotJSON, msgNotJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, f := newAVServer(t, map[string]string{functionDailyAdjusted: tt.body})
			_, err := f.FetchDailySeries(context.Background(), "XXXX")
			if got := acquisitionKind(t, err); got != tt.kind {
				t.Errorf("kind = %s, want %s", got, tt.kind)
			}
			if err.Error() != tt.msg {
				t.Errorf("message = %q, want %q", err.Error(), tt.msg)
			}
			if srv.count(functionDaily) != 0 {
				t.Errorf("no fallback expected, calls adjusted=%d daily=%d", srv.count(functionDailyAdjusted), srv.count(functionDaily))
			}
		})
	}
}

func TestAlphaVantage_HTTPStatus(t *testing.T) {
	srv, f := newAVServer(t, map[string]string{functionDailyAdjusted: adjustedOK})
	srv.setStatus(http.StatusBadGateway)
	_, err := f.FetchDailySeries(context.Background(), "IBM")
	if got := acquisitionKind(t, err); got != KindNetwork {
		t.Errorf("kind = %s, want network", got)
	}
	if err.Error() != "Network error: 502" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestShouldFallback(t *testing.T) {
	tests := []struct {
		p    payload
		want bool
	}{
		{payload{kind: payloadOK}, false},
		{payload{kind: payloadEmpty}, true},
		{payload{kind: payloadNotJSON, premium: true}, true},
		{payload{kind: payloadNotJSON}, false},
		{payload{kind: payloadAdvisory, premium: true}, true},
		{payload{kind: payloadAdvisory}, false},
		{payload{kind: payloadRateLimited, premium: true}, false},
		{payload{kind: payloadInvalidSymbol}, false},
	}
	for _, tt := range tests {
		if got := shouldFallback(tt.p); got != tt.want {
			t.Errorf("shouldFallback(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestClassify_Precedence(t *testing.T) {
	both := `{"Error Message": "Invalid API call.", "Information": "some notice"}`
	tests := []struct {
		name     string
		function string
		body     string
		want     payloadKind
	}{
		{"note first on adjusted", functionDailyAdjusted, `{"Note": "slow down", "Information": "premium"}`, payloadRateLimited},
		{"note first on daily", functionDaily, `{"Note": "slow down", "Error Message": "bad"}`, payloadRateLimited},
		{"advisory before error on adjusted", functionDailyAdjusted, both, payloadAdvisory},
		{"error before advisory on daily", functionDaily, both, payloadInvalidSymbol},
		{"non-object body", functionDailyAdjusted, `[1, 2, 3]`, payloadNotJSON},
		{"object-valued note", functionDaily, `{"Note": {"detail": "slow down"}}`, payloadRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if p := classify(tt.function, []byte(tt.body)); p.kind != tt.want {
				t.Errorf("kind = %d, want %d", p.kind, tt.want)
			}
		})
	}
}

func TestAlphaVantage_InvalidSymbolWinsOnFallback(t *testing.T) {
	_, f := newAVServer(t, map[string]string{
		functionDailyAdjusted: `{}`,
		functionDaily:         `{"Error Message": "Invalid API call.", "Information": "some notice"}`,
	})
	_, err := f.FetchDailySeries(context.Background(), "NOPE")
	if got := acquisitionKind(t, err); got != KindInvalidSymbol {
		t.Errorf("kind = %s, want %s", got, KindInvalidSymbol)
	}
	if err.Error() != msgInvalidSymbol {
		t.Errorf("message = %q", err.Error())
	}
}

func TestAlphaVantage_NumericCloses(t *testing.T) {
	_, f := newAVServer(t, map[string]string{functionDailyAdjusted: `{
  "Time Series (Daily)": {
    "2024-01-02": {"4. close": 101.5, "5. adjusted close": 100.25},
    "2024-01-01": {"4. close": "99.00", "5. adjusted close": null}
  }
}`})
	series, err := f.FetchDailySeries(context.Background(), "IBM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Len() != 2 {
		t.Fatalf("expected 2 points, got %d", series.Len())
	}
	if !series[0].Close.Equal(decimal.RequireFromString("99")) {
		t.Errorf("first close = %s, want 99", series[0].Close)
	}
	if !series[1].Close.Equal(decimal.RequireFromString("100.25")) {
		t.Errorf("second close = %s, want 100.25", series[1].Close)
	}
}
