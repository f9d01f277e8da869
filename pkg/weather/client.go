package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/voxline/voxline/internal/httpc"
)

// Client implements Provider against the OpenWeatherMap API.
type Client struct {
	config *Config
	client *http.Client
	logger *slog.Logger
}

// NewClient creates a new weather client. A missing API key is not an
// error at construction time; lookups report it per call so the rest of
// the system can start without weather configured.
func NewClient(opts ...Option) *Client {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	return &Client{
		config: cfg,
		client: httpc.NewClient(cfg.Timeout),
		logger: cfg.Logger.With("component", "weather.client"),
	}
}

// Current fetches current conditions for a location.
func (c *Client) Current(ctx context.Context, location string) (*Report, error) {
	if c.config.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if location == "" {
		return nil, ErrNoLocation
	}

	q := url.Values{}
	q.Set("q", location)
	q.Set("appid", c.config.APIKey)
	q.Set("units", c.config.Units)

	req, err := http.NewRequestWithContext(ctx, "GET", c.config.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("weather: create request: %w", err)
	}

	c.logger.Info("fetching weather", "location", location)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{Location: location}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var data struct {
		Name string `json:"name"`
		Sys  struct {
			Country string `json:"country"`
		} `json:"sys"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("weather: decode response: %w", err)
	}
	if data.Name == "" || len(data.Weather) == 0 {
		return nil, fmt.Errorf("weather: incomplete response for %q", location)
	}

	report := &Report{
		City:        data.Name,
		Country:     data.Sys.Country,
		Description: data.Weather[0].Description,
		TempC:       data.Main.Temp,
		FeelsLikeC:  data.Main.FeelsLike,
		Humidity:    data.Main.Humidity,
		WindSpeed:   data.Wind.Speed,
	}

	c.logger.Info("weather data", "report", report.Sentence())
	return report, nil
}

// Close releases resources.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// Verify Client implements Provider at compile time.
var _ Provider = (*Client)(nil)
