// Package weather fetches current conditions from the OpenWeatherMap API
// and renders them as natural-language sentences suitable for feeding back
// to a language model.
package weather

import (
	"context"
	"fmt"
	"strconv"
)

// Provider defines the weather lookup interface.
type Provider interface {
	// Current fetches current conditions for a location query such as
	// "Tokyo" or "London, UK".
	Current(ctx context.Context, location string) (*Report, error)

	// Close releases any resources held by the provider.
	Close() error
}

// Report holds the current conditions for a resolved location.
type Report struct {
	// City is the resolved city name, which may differ from the query.
	City string

	// Country is the ISO country code.
	Country string

	// Description is a short phrase such as "light rain".
	Description string

	// TempC and FeelsLikeC are in degrees Celsius.
	TempC      float64
	FeelsLikeC float64

	// Humidity is a percentage.
	Humidity int

	// WindSpeed is in meters per second.
	WindSpeed float64
}

// Sentence renders the report as a single natural-language sentence.
func (r *Report) Sentence() string {
	return fmt.Sprintf(
		"Current weather in %s, %s: %s. Temperature: %s°C (feels like %s°C). Humidity: %d%%. Wind speed: %s m/s.",
		r.City, r.Country, r.Description,
		formatNum(r.TempC), formatNum(r.FeelsLikeC), r.Humidity, formatNum(r.WindSpeed),
	)
}

// formatNum renders a float without trailing zeros, so 21.50 reads as 21.5
// and 0.0 reads as 0.
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
