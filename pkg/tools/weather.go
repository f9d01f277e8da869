package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/voxline/voxline/pkg/weather"
)

// WeatherTool wires a weather provider into the tool surface. Lookup
// failures render as sentences the model can relay to the user instead
// of aborting the turn.
func WeatherTool(provider weather.Provider) Tool {
	return Tool{
		Name:        "get_weather",
		Description: "Get the current weather for a specific location. Use this when the user asks about weather conditions.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"location": map[string]any{
					"type":        "string",
					"description": "The city name or location (e.g., 'Tokyo', 'London, UK', 'New York')",
				},
			},
			"required": []string{"location"},
		},
		Handler: func(ctx context.Context, args Args) (string, error) {
			location := args.String("location")

			report, err := provider.Current(ctx, location)
			if err != nil {
				return weatherErrorText(location, err), nil
			}
			return report.Sentence(), nil
		},
	}
}

// weatherErrorText maps lookup failures to the sentences spoken back to
// the user.
func weatherErrorText(location string, err error) string {
	var nf *weather.NotFoundError
	switch {
	case errors.Is(err, weather.ErrNoAPIKey):
		return "Weather API key not configured. Please set WEATHER_API_KEY environment variable."
	case errors.As(err, &nf):
		return fmt.Sprintf("Location '%s' not found. Please check the city name.", nf.Location)
	case errors.Is(err, weather.ErrNoLocation):
		return fmt.Sprintf("Location '%s' not found. Please check the city name.", location)
	default:
		return fmt.Sprintf("Unable to fetch weather data: %v", err)
	}
}
