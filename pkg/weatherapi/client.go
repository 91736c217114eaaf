// Package weatherapi is a small client for the WeatherAPI.com current
// conditions endpoint.
package weatherapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.weatherapi.com/v1/current.json"
	DefaultTimeout = 10 * time.Second

	// APIKeyEnv is read when no API key is passed with WithAPIKey.
	APIKeyEnv = "WEATHERAPI_KEY"

	unknownErrorMessage = "Unknown WeatherAPI error"
)

// Observer is notified once per fetch that passed local validation.
type Observer interface {
	ObserveFetch(outcome Outcome, elapsed time.Duration)
}

// Client fetches current weather for a city name or postal code.
// It holds no state between calls; concurrent use is safe as long as the
// supplied Doer is.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient Doer
	logger     *zap.SugaredLogger
	observer   Observer
	clock      clockwork.Clock
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the API key. When empty, WEATHERAPI_KEY is used.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithTimeout sets the request timeout of the transport the client creates
// for itself. It has no effect together with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient makes the client borrow d for every call. The caller keeps
// ownership of d and is responsible for closing it.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.httpClient = d }
}

// WithBaseURL overrides the upstream endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver registers o to be told the outcome and latency of each fetch.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithClock sets the clock used to time fetches.
func WithClock(clk clockwork.Clock) Option {
	return func(c *Client) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// NewClient creates a WeatherAPI client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		logger:  zap.NewNop().Sugar(),
		clock:   clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch is a one-shot lookup using a client built from opts.
func Fetch(ctx context.Context, query string, opts ...Option) (*WeatherResult, error) {
	return NewClient(opts...).Fetch(ctx, query)
}

// Fetch returns the current weather for query. Arguments are validated
// before any network I/O.
func (c *Client) Fetch(ctx context.Context, query string) (*WeatherResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalidArgument("query must be a non-empty string")
	}

	apiKey := strings.TrimSpace(c.apiKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv(APIKeyEnv))
	}
	if apiKey == "" {
		return nil, invalidArgument(APIKeyEnv + " is not set (or pass WithAPIKey)")
	}

	if c.timeout <= 0 {
		return nil, invalidArgument("timeout must be positive")
	}

	start := c.clock.Now()
	result, err := c.fetch(ctx, query, apiKey)
	if c.observer != nil {
		c.observer.ObserveFetch(OutcomeOf(err), c.clock.Since(start))
	}
	if err != nil {
		c.logger.Warnw("WeatherAPI fetch failed", "query", query, "outcome", OutcomeOf(err), "error", err)
		return nil, err
	}

	c.logger.Debugw("WeatherAPI fetch succeeded", "query", query, "city", result.City)
	return result, nil
}

func (c *Client) fetch(ctx context.Context, query, apiKey string) (*WeatherResult, error) {
	params := url.Values{
		"key": {apiKey},
		"q":   {query},
		"aqi": {"no"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, invalidArgument(fmt.Sprintf("create request: %v", err))
	}
	req.Header.Set("Accept", "application/json")

	doer := c.httpClient
	if doer == nil {
		owned := newOwnedTransport(c.timeout)
		defer owned.CloseIdleConnections()
		doer = owned
	}

	resp, err := doer.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: redactKey(err, apiKey)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	return parseResponse(resp.StatusCode, body, query)
}

// parseResponse validates an upstream reply. A body that is not JSON is not
// an error by itself; it only matters when a JSON object is required.
func parseResponse(status int, body []byte, query string) (*WeatherResult, error) {
	obj, isObj := decodeBody(body).(map[string]any)

	if status >= http.StatusBadRequest {
		var msg string
		if isObj {
			msg = errorMessage(obj)
		}
		if msg == "" {
			msg = string(body)
		}
		if strings.TrimSpace(msg) == "" {
			msg = http.StatusText(status)
		}
		return nil, &UpstreamError{StatusCode: status, Message: msg}
	}

	if isObj {
		if _, ok := obj["error"]; ok {
			msg := errorMessage(obj)
			if msg == "" {
				msg = unknownErrorMessage
			}
			return nil, &UpstreamError{StatusCode: status, Message: msg}
		}
	}

	if !isObj {
		return nil, malformed("unexpected WeatherAPI response shape: body is not a JSON object")
	}
	if _, ok := obj["current"]; !ok {
		return nil, malformed("unexpected WeatherAPI response shape: missing current")
	}

	return newResult(obj, query), nil
}

// decodeBody returns the decoded JSON value of body, or nil unless the whole
// body is a single JSON value.
func decodeBody(body []byte) any {
	if !json.Valid(body) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

// errorMessage returns error.message of a WeatherAPI error payload.
func errorMessage(obj map[string]any) string {
	e, ok := obj["error"].(map[string]any)
	if !ok {
		return ""
	}
	msg, _ := e["message"].(string)
	return msg
}
