package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fakhrymubarak/weatherapi-go/internal/model"
	"github.com/fakhrymubarak/weatherapi-go/internal/service"
	"github.com/fakhrymubarak/weatherapi-go/pkg/weatherapi"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Mock service for testing
type mockWeatherService struct {
	err      error
	mockData *weatherapi.WeatherResult
	gotQuery string
}

func (m *mockWeatherService) GetWeather(_ context.Context, query string) (*weatherapi.WeatherResult, error) {
	m.gotQuery = query
	if m.err != nil {
		return nil, m.err
	}
	return m.mockData, nil
}

// Ensure mockWeatherService implements WeatherServiceInterface
var _ service.WeatherServiceInterface = (*mockWeatherService)(nil)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func newTestHandler(svc service.WeatherServiceInterface) *WeatherHandler {
	return &WeatherHandler{WeatherService: svc, Logger: zap.NewNop().Sugar()}
}

func TestNewWeatherHandler(t *testing.T) {
	handler := NewWeatherHandler()
	require.NotNil(t, handler)
	assert.NotNil(t, handler.WeatherService)
	assert.NotNil(t, handler.Logger)
}

func TestWeatherHandler_HandleWeather(t *testing.T) {
	condition := "Clear"
	tests := []struct {
		name           string
		target         string
		err            error
		mockData       *weatherapi.WeatherResult
		expectedStatus int
		expectedError  string
		expectedQuery  string
	}{
		{
			name:           "Missing query parameter",
			target:         "/weather",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Missing 'q' query parameter",
		},
		{
			name:           "Blank query parameter",
			target:         "/weather?q=%20%20",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Missing 'q' query parameter",
		},
		{
			name:           "Successful weather request",
			target:         "/weather?q=Austin",
			mockData:       &weatherapi.WeatherResult{City: "Austin", Condition: &condition},
			expectedStatus: http.StatusOK,
			expectedQuery:  "Austin",
		},
		{
			name:           "Legacy location parameter",
			target:         "/weather?location=London",
			mockData:       &weatherapi.WeatherResult{City: "London"},
			expectedStatus: http.StatusOK,
			expectedQuery:  "London",
		},
		{
			name:           "Upstream error",
			target:         "/weather?q=Nowhere",
			err:            &weatherapi.UpstreamError{StatusCode: http.StatusBadRequest, Message: "No matching location found."},
			expectedStatus: http.StatusBadGateway,
			expectedError:  "No matching location found.",
			expectedQuery:  "Nowhere",
		},
		{
			name:           "Malformed upstream response",
			target:         "/weather?q=Austin",
			err:            weatherapi.ErrMalformedResponse,
			expectedStatus: http.StatusBadGateway,
			expectedError:  "Unexpected response from weather provider",
			expectedQuery:  "Austin",
		},
		{
			name:           "Network timeout",
			target:         "/weather?q=Austin",
			err:            &weatherapi.NetworkError{Err: timeoutError{}},
			expectedStatus: http.StatusGatewayTimeout,
			expectedError:  "Weather provider timed out",
			expectedQuery:  "Austin",
		},
		{
			name:           "Network failure",
			target:         "/weather?q=Austin",
			err:            &weatherapi.NetworkError{Err: errors.New("connection refused")},
			expectedStatus: http.StatusServiceUnavailable,
			expectedError:  "Weather provider unreachable",
			expectedQuery:  "Austin",
		},
		{
			name:           "Missing API key",
			target:         "/weather?q=Austin",
			err:            weatherapi.ErrInvalidArgument,
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Weather service is not configured",
			expectedQuery:  "Austin",
		},
		{
			name:           "Unknown error",
			target:         "/weather?q=Austin",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Failed to fetch weather data",
			expectedQuery:  "Austin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockWeatherService{err: tt.err, mockData: tt.mockData}
			router := NewRouter(newTestHandler(svc))

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, tt.expectedQuery, svc.gotQuery)

			var resp model.Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			if tt.expectedError != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.expectedError, *resp.Error)
				assert.Equal(t, "Error", resp.Message)
				return
			}
			assert.Nil(t, resp.Error)
			assert.Equal(t, "Success", resp.Message)
			data, ok := resp.Data.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.mockData.City, data["city"])
		})
	}
}

func TestWeatherHandler_MethodNotAllowed(t *testing.T) {
	router := NewRouter(newTestHandler(&mockWeatherService{}))

	req := httptest.NewRequest(http.MethodPost, "/weather?q=Austin", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, http.MethodGet, rr.Header().Get("Allow"))
}

func TestHealthz(t *testing.T) {
	router := NewRouter(newTestHandler(&mockWeatherService{}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	router := NewRouter(newTestHandler(&mockWeatherService{}))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}
