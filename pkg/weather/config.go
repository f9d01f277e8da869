package weather

import (
	"log/slog"
	"time"
)

// DefaultBaseURL is the OpenWeatherMap current-weather endpoint.
const DefaultBaseURL = "http://api.openweathermap.org/data/2.5/weather"

// Config holds weather provider configuration.
type Config struct {
	// BaseURL is the current-weather endpoint.
	BaseURL string

	// APIKey is the OpenWeatherMap API key. Lookups fail with ErrNoAPIKey
	// when empty.
	APIKey string

	// Units selects the measurement system ("metric" for Celsius).
	Units string

	// Timeout bounds each lookup request.
	Timeout time.Duration

	// Logger is the structured logger.
	Logger *slog.Logger
}

// Option is a functional option for configuring the weather provider.
type Option func(*Config)

// WithBaseURL sets the API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns sensible defaults for OpenWeatherMap.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: DefaultBaseURL,
		Units:   "metric",
		Timeout: 10 * time.Second,
		Logger:  slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
