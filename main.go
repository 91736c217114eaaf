package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fakhrymubarak/weatherapi-go/internal/config"
	"github.com/fakhrymubarak/weatherapi-go/internal/handler"
	"github.com/fakhrymubarak/weatherapi-go/internal/observability"
	"github.com/fakhrymubarak/weatherapi-go/internal/service"
	"github.com/fakhrymubarak/weatherapi-go/pkg/weatherapi"
	"github.com/goccy/go-json"
)

func main() {
	logger := config.GetLogger()
	defer logger.Sync() //nolint:errcheck

	// One-shot lookup: weatherapi-go <city or postal code>
	if len(os.Args) > 1 {
		if err := lookup(context.Background(), os.Stdout, strings.Join(os.Args[1:], " ")); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	metrics := observability.NewMetrics()
	client := weatherapi.NewClient(
		weatherapi.WithBaseURL(config.GetWeatherAPIURL()),
		weatherapi.WithAPIKey(config.GetWeatherAPIKey()),
		weatherapi.WithHTTPClient(&http.Client{Timeout: config.GetRequestTimeout()}),
		weatherapi.WithLogger(logger),
		weatherapi.WithObserver(metrics),
	)
	weatherHandler := handler.NewWeatherHandler(service.NewWeatherService(client))

	port := config.GetServerPort()
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler.NewRouter(weatherHandler),
		ReadHeaderTimeout: config.GetServerTimeout("read_header_timeout"),
		ReadTimeout:       config.GetServerTimeout("read_timeout"),
		WriteTimeout:      config.GetServerTimeout("write_timeout"),
		IdleTimeout:       config.GetServerTimeout("idle_timeout"),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infow("Weather API server running", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetServerTimeout("shutdown_timeout"))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("http server shutdown error", "error", err)
	}
}

// lookup fetches the weather for query with a transport owned by the call
// and writes it to w as indented JSON.
func lookup(ctx context.Context, w io.Writer, query string, opts ...weatherapi.Option) error {
	opts = append([]weatherapi.Option{
		weatherapi.WithBaseURL(config.GetWeatherAPIURL()),
		weatherapi.WithAPIKey(config.GetWeatherAPIKey()),
		weatherapi.WithTimeout(config.GetRequestTimeout()),
		weatherapi.WithLogger(config.GetLogger()),
	}, opts...)

	result, err := weatherapi.Fetch(ctx, query, opts...)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
