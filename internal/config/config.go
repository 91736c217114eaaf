package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fakhrymubarak/weatherapi-go/pkg/weatherapi"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// APIKeyEnv is the environment variable holding the fallback WeatherAPI key.
const APIKeyEnv = weatherapi.APIKeyEnv

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func setDefaults() {
	viper.SetDefault("weatherapi.api_url", "https://api.weatherapi.com/v1/current.json")
	viper.SetDefault("weatherapi.timeout", "10s")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_header_timeout", "15s")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "10s")
	viper.SetDefault("server.idle_timeout", "30s")
	viper.SetDefault("server.shutdown_timeout", "10s")
	viper.SetDefault("log.level", "info")
}

func initConfig() {
	once.Do(func() {
		setDefaults()

		// The logger depends on log.level, so problems found while reading
		// are reported once it has been built.
		var warnings []func(*zap.SugaredLogger)
		if root, err := getProjectRoot(); err != nil {
			warnings = append(warnings, func(l *zap.SugaredLogger) {
				l.Warnw("Project root not found, using defaults", "error", err)
			})
		} else {
			viper.SetConfigType("yaml")
			viper.SetConfigName("config")
			viper.AddConfigPath(root)
			if err := viper.ReadInConfig(); err != nil {
				warnings = append(warnings, func(l *zap.SugaredLogger) {
					l.Warnw("Error reading config file, using defaults", "error", err)
				})
			}

			if isTestRun() {
				viper.SetConfigName("config_test")
				if err := viper.MergeInConfig(); err != nil {
					warnings = append(warnings, func(l *zap.SugaredLogger) {
						l.Debugw("No test config merged", "error", err)
					})
				}
			}
		}

		loggerOnce.Do(buildLogger)
		for _, warn := range warnings {
			warn(logger)
		}
	})
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// GetWeatherAPIURL returns the current-conditions endpoint of WeatherAPI.com.
func GetWeatherAPIURL() string {
	initConfig()
	return viper.GetString("weatherapi.api_url")
}

// GetWeatherAPIKey returns the API key from the environment, loading .env first.
// Variables already present in the environment are never overridden by .env.
func GetWeatherAPIKey() string {
	_ = godotenv.Load()
	return strings.TrimSpace(os.Getenv(APIKeyEnv))
}

// GetRequestTimeout returns the upstream request timeout. Defaults to 10s if not set or invalid.
func GetRequestTimeout() time.Duration {
	initConfig()
	return parseDuration(viper.GetString("weatherapi.timeout"), 10*time.Second)
}

func GetServerPort() string {
	initConfig()
	return viper.GetString("server.port")
}

// GetServerTimeout returns the server timeout stored under server.<key>.
func GetServerTimeout(key string) time.Duration {
	initConfig()
	return parseDuration(viper.GetString("server."+key), 15*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

// GetLogger returns the application logger, leveled by log.level.
func GetLogger() *zap.SugaredLogger {
	initConfig()
	loggerOnce.Do(buildLogger)
	return logger
}

func buildLogger() {
	cfg := zap.NewDevelopmentConfig()
	if lvl, err := zapcore.ParseLevel(viper.GetString("log.level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	logger = l.Sugar()
}
