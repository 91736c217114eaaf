package handler

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/fakhrymubarak/weatherapi-go/internal/config"
	"github.com/fakhrymubarak/weatherapi-go/internal/model"
	"github.com/fakhrymubarak/weatherapi-go/internal/service"
	"github.com/fakhrymubarak/weatherapi-go/pkg/weatherapi"
	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type WeatherHandler struct {
	WeatherService service.WeatherServiceInterface
	Logger         *zap.SugaredLogger
}

func NewWeatherHandler(svc ...service.WeatherServiceInterface) *WeatherHandler {
	var weatherService service.WeatherServiceInterface
	if len(svc) > 0 && svc[0] != nil {
		weatherService = svc[0]
	} else {
		weatherService = service.NewWeatherService()
	}
	return &WeatherHandler{
		WeatherService: weatherService,
		Logger:         config.GetLogger(),
	}
}

// NewRouter wires the weather, health and metrics endpoints.
func NewRouter(h *WeatherHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/weather", h.HandleWeather)
	r.HandleFunc("/healthz", h.HandleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

func (h *WeatherHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil && h.Logger != nil {
		h.Logger.Errorw("could not encode json", "error", err)
	}
}

func (h *WeatherHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// HandleWeather serves GET /weather?q=<city or postal code>. The older
// location parameter is still accepted.
func (h *WeatherHandler) HandleWeather(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		h.writeJSONResponse(w, http.StatusMethodNotAllowed, model.Failure("Method not allowed"))
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		query = r.URL.Query().Get("location")
	}
	if strings.TrimSpace(query) == "" {
		h.writeJSONResponse(w, http.StatusBadRequest, model.Failure("Missing 'q' query parameter"))
		return
	}

	weather, err := h.WeatherService.GetWeather(r.Context(), query)
	if err != nil {
		status, msg := statusForError(err)
		h.writeJSONResponse(w, status, model.Failure(msg))
		return
	}

	h.writeJSONResponse(w, http.StatusOK, model.Success(weather))
}

// statusForError maps a weatherapi error to the response status and message.
// The query is validated before the service is called, so an invalid argument
// here means the API key is not configured.
func statusForError(err error) (int, string) {
	var upErr *weatherapi.UpstreamError
	switch {
	case errors.Is(err, weatherapi.ErrInvalidArgument):
		return http.StatusInternalServerError, "Weather service is not configured"
	case errors.As(err, &upErr):
		return http.StatusBadGateway, upErr.Message
	case errors.Is(err, weatherapi.ErrMalformedResponse):
		return http.StatusBadGateway, "Unexpected response from weather provider"
	case errors.Is(err, weatherapi.ErrNetwork):
		if isTimeout(err) {
			return http.StatusGatewayTimeout, "Weather provider timed out"
		}
		return http.StatusServiceUnavailable, "Weather provider unreachable"
	default:
		return http.StatusInternalServerError, "Failed to fetch weather data"
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
