package service

import (
	"context"

	"github.com/fakhrymubarak/weatherapi-go/internal/config"
	"github.com/fakhrymubarak/weatherapi-go/pkg/weatherapi"
	"go.uber.org/zap"
)

// Fetcher looks up current weather. *weatherapi.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, query string) (*weatherapi.WeatherResult, error)
}

// WeatherServiceInterface defines the interface for the weather service
type WeatherServiceInterface interface {
	GetWeather(ctx context.Context, query string) (*weatherapi.WeatherResult, error)
}

// WeatherService implements WeatherServiceInterface on top of a Fetcher
type WeatherService struct {
	Fetcher Fetcher
	Logger  *zap.SugaredLogger
}

// NewWeatherService creates a new weather service. Without a fetcher it builds
// a weatherapi.Client from the application config.
func NewWeatherService(fetcher ...Fetcher) *WeatherService {
	var f Fetcher
	if len(fetcher) > 0 && fetcher[0] != nil {
		f = fetcher[0]
	} else {
		f = weatherapi.NewClient(
			weatherapi.WithBaseURL(config.GetWeatherAPIURL()),
			weatherapi.WithAPIKey(config.GetWeatherAPIKey()),
			weatherapi.WithTimeout(config.GetRequestTimeout()),
			weatherapi.WithLogger(config.GetLogger()),
		)
	}
	return &WeatherService{
		Fetcher: f,
		Logger:  config.GetLogger(),
	}
}

// GetWeather retrieves the current weather for a city name or postal code
func (s *WeatherService) GetWeather(ctx context.Context, query string) (*weatherapi.WeatherResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := s.Fetcher.Fetch(ctx, query)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Infow("Weather lookup failed", "query", query, "outcome", weatherapi.OutcomeOf(err))
		}
		return nil, err
	}
	return result, nil
}
