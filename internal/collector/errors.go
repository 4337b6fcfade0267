package collector

import "fmt"

// ErrorKind classifies an acquisition failure.
type ErrorKind string

const (
	KindNetwork       ErrorKind = "network"
	KindNotJSON       ErrorKind = "not_json"
	KindRateLimited   ErrorKind = "rate_limited"
	KindAdvisory      ErrorKind = "advisory"
	KindInvalidSymbol ErrorKind = "invalid_symbol"
	KindNoData        ErrorKind = "no_data"
)

// User-facing messages for the fixed error kinds.
const (
	msgNotJSON       = "Received non-JSON response from API."
	msgRateLimited   = "API rate limit reached. Please wait and try again."
	msgInvalidSymbol = "Ticker not found or invalid API call. Please try another symbol."
	msgNoData        = "No daily time series returned. Check the ticker or try again later."
)

// AcquisitionError is returned by every Fetcher. Error() is safe to show
// to the player; the underlying cause, if any, is available via Unwrap.
type AcquisitionError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AcquisitionError) Error() string { return e.Message }

func (e *AcquisitionError) Unwrap() error { return e.Err }

func networkError(err error) *AcquisitionError {
	return &AcquisitionError{Kind: KindNetwork, Message: fmt.Sprintf("Network error: %v", err), Err: err}
}

func statusError(code int) *AcquisitionError {
	return &AcquisitionError{Kind: KindNetwork, Message: fmt.Sprintf("Network error: %d", code)}
}

func noDataError() *AcquisitionError {
	return &AcquisitionError{Kind: KindNoData, Message: msgNoData}
}
