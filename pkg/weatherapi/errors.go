package weatherapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Error kinds returned by Fetch. Use errors.Is to classify a failure.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNetwork           = errors.New("network error")
	ErrUpstream          = errors.New("upstream error")
	ErrMalformedResponse = errors.New("malformed response")
)

// NetworkError reports a transport-level failure reaching WeatherAPI.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error calling WeatherAPI: %v", e.Err)
}

// Unwrap exposes both ErrNetwork and the underlying cause.
func (e *NetworkError) Unwrap() []error {
	return []error{ErrNetwork, e.Err}
}

// UpstreamError is returned when WeatherAPI answers with an error status or
// an error payload.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode >= http.StatusBadRequest {
		return fmt.Sprintf("WeatherAPI error %d: %s", e.StatusCode, e.Message)
	}
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

func invalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

func malformed(msg string) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, msg)
}

// Outcome labels the result of a fetch for metrics and logs.
type Outcome string

const (
	OutcomeSuccess         Outcome = "success"
	OutcomeInvalidArgument Outcome = "invalid_argument"
	OutcomeNetworkError    Outcome = "network_error"
	OutcomeUpstreamError   Outcome = "upstream_error"
	OutcomeMalformed       Outcome = "malformed_response"
	OutcomeUnknown         Outcome = "unknown"
)

// OutcomeOf classifies err. A nil error is a success.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrInvalidArgument):
		return OutcomeInvalidArgument
	case errors.Is(err, ErrNetwork):
		return OutcomeNetworkError
	case errors.Is(err, ErrUpstream):
		return OutcomeUpstreamError
	case errors.Is(err, ErrMalformedResponse):
		return OutcomeMalformed
	default:
		return OutcomeUnknown
	}
}

const redacted = "REDACTED"

// redactedError hides the API key in the message of err while keeping err
// reachable through errors.Is and errors.As.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }

// redactKey removes apiKey from the text of a transport error. The request URL
// carried by *url.Error is rewritten in place.
func redactKey(err error, apiKey string) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = redactURL(ue.URL, apiKey)
	}
	if apiKey == "" || !strings.Contains(err.Error(), apiKey) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), apiKey, redacted), err: err}
}

func redactURL(raw, apiKey string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ReplaceAll(raw, apiKey, redacted)
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", redacted)
		u.RawQuery = q.Encode()
	}
	return u.String()
}
