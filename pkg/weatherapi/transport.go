package weatherapi

import (
	"net/http"
	"time"
)

// Doer performs an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RoundTripperFunc adapts a function to http.RoundTripper, mainly for stubbing
// the upstream in tests.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// ownedTransport is a Doer created by the client for a single call.
type ownedTransport interface {
	Doer
	CloseIdleConnections()
}

// newOwnedTransport builds the per-call transport used when the caller
// supplies none. Replaced in tests.
var newOwnedTransport = func(timeout time.Duration) ownedTransport {
	return &http.Client{
		Timeout:   timeout,
		Transport: http.DefaultTransport.(*http.Transport).Clone(),
	}
}
