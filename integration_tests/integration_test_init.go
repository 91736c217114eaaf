package integrationtest

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/fakhrymubarak/weatherapi-go/internal/handler"
	"github.com/fakhrymubarak/weatherapi-go/internal/observability"
	"github.com/fakhrymubarak/weatherapi-go/internal/service"
	"github.com/fakhrymubarak/weatherapi-go/pkg/weatherapi"
	"go.uber.org/zap"
)

const (
	testAPIKey = "test_api_key"

	austinBody = `{"location":{"name":"Austin","region":"Texas","country":"USA","localtime":"2026-01-21 06:00"},` +
		`"current":{"temp_c":20.0,"temp_f":68.0,"humidity":55,"wind_mph":4.0,"wind_kph":6.4,` +
		`"last_updated":"2026-01-21 12:00","condition":{"text":"Clear"}}}`
)

// mockWeatherAPI fakes the WeatherAPI.com current.json endpoint.
func mockWeatherAPI() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		q := r.URL.Query()
		if q.Get("key") != testAPIKey {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":2006,"message":"API key is invalid."}}`))
			return
		}
		if q.Get("aqi") != "no" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":9999,"message":"aqi flag missing"}}`))
			return
		}
		switch q.Get("q") {
		case "Austin":
			_, _ = w.Write([]byte(austinBody))
		case "Slow":
			time.Sleep(300 * time.Millisecond)
			_, _ = w.Write([]byte(austinBody))
		case "Broken":
			_, _ = w.Write([]byte(`{"location":{"name":"Broken"}}`))
		case "Teapot":
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("short and stout"))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":1006,"message":"No matching location found."}}`))
		}
	}))
}

// newTestServer serves the full router backed by a client pointed at upstreamURL.
func newTestServer(upstreamURL, apiKey string, metrics *observability.Metrics) *httptest.Server {
	client := weatherapi.NewClient(
		weatherapi.WithBaseURL(upstreamURL),
		weatherapi.WithAPIKey(apiKey),
		weatherapi.WithHTTPClient(&http.Client{Timeout: 100 * time.Millisecond}),
		weatherapi.WithObserver(metrics),
	)
	h := handler.NewWeatherHandler(&service.WeatherService{Fetcher: client, Logger: zap.NewNop().Sugar()})
	return httptest.NewServer(handler.NewRouter(h))
}
