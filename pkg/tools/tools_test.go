package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/voxline/voxline/pkg/weather"
)

func echoSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"location": map[string]any{"type": "string"},
			"count":    map[string]any{"type": "number"},
			"loud":     map[string]any{"type": "boolean"},
		},
		"required": []string{"location"},
	}
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	r := NewRegistry(nil)

	got := r.Execute(context.Background(), "launch_rocket", `{}`)
	if got != "Unknown tool: launch_rocket" {
		t.Errorf("unexpected result: %q", got)
	}
}

func TestRegistryExecuteHandlerError(t *testing.T) {
	r := NewRegistry(nil, Tool{
		Name: "flaky",
		Handler: func(ctx context.Context, args Args) (string, error) {
			return "", errors.New("boom")
		},
	})

	got := r.Execute(context.Background(), "flaky", `{}`)
	if !strings.Contains(got, "boom") {
		t.Errorf("expected handler error in result, got %q", got)
	}
}

func TestRegistryExecuteMalformedArguments(t *testing.T) {
	r := NewRegistry(nil, Tool{
		Name:       "echo",
		Parameters: echoSchema(),
		Handler: func(ctx context.Context, args Args) (string, error) {
			return "ok", nil
		},
	})

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{not-json`},
		{"undeclared argument", `{"location":"Tokyo","volume":11}`},
		{"wrong type", `{"location":42}`},
		{"missing required", `{"count":3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Execute(context.Background(), "echo", tt.raw)
			if !strings.Contains(got, "Invalid arguments") {
				t.Errorf("expected invalid-arguments text, got %q", got)
			}
		})
	}
}

func TestRegistryExecutePassesArguments(t *testing.T) {
	var seen Args
	r := NewRegistry(nil, Tool{
		Name:       "echo",
		Parameters: echoSchema(),
		Handler: func(ctx context.Context, args Args) (string, error) {
			seen = args
			return "ok", nil
		},
	})

	got := r.Execute(context.Background(), "echo", `{"location":"Tokyo","count":3,"loud":true}`)
	if got != "ok" {
		t.Fatalf("unexpected result: %q", got)
	}
	if seen.String("location") != "Tokyo" {
		t.Errorf("expected location Tokyo, got %q", seen.String("location"))
	}
	if seen.Number("count") != 3 {
		t.Errorf("expected count 3, got %v", seen.Number("count"))
	}
	if !seen.Bool("loud") {
		t.Error("expected loud=true")
	}
}

func TestRegistryDeclarations(t *testing.T) {
	r := NewRegistry(nil,
		Tool{Name: "zebra", Description: "z"},
		Tool{Name: "alpha", Description: "a", Parameters: map[string]any{"type": "object"}},
	)

	decls := r.Declarations()
	if len(decls) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(decls))
	}
	if decls[0].Function.Name != "alpha" || decls[1].Function.Name != "zebra" {
		t.Errorf("expected sorted declarations, got %s, %s",
			decls[0].Function.Name, decls[1].Function.Name)
	}
	if decls[0].Type != "function" {
		t.Errorf("expected type function, got %s", decls[0].Type)
	}
}

func TestParseArgsRequiredFromJSON(t *testing.T) {
	// A schema round-tripped through JSON carries []any, not []string.
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"location": map[string]any{"type": "string"},
		},
		"required": []any{"location"},
	}

	if _, err := ParseArgs(schema, `{}`); err == nil {
		t.Error("expected missing-required error")
	}
	args, err := ParseArgs(schema, `{"location":"Oslo"}`)
	if err != nil {
		t.Fatalf("ParseArgs failed: %v", err)
	}
	if args.String("location") != "Oslo" {
		t.Errorf("expected Oslo, got %q", args.String("location"))
	}
}

func TestWeatherToolSuccess(t *testing.T) {
	mock := weather.NewMock()
	r := NewRegistry(nil, WeatherTool(mock))

	got := r.Execute(context.Background(), "get_weather", `{"location":"Tokyo"}`)
	if !strings.HasPrefix(got, "Current weather in Tokyo, JP:") {
		t.Errorf("unexpected result: %q", got)
	}
	if locs := mock.Locations(); len(locs) != 1 || locs[0] != "Tokyo" {
		t.Errorf("expected one lookup for Tokyo, got %v", locs)
	}
}

func TestWeatherToolErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "no api key",
			err:  weather.ErrNoAPIKey,
			want: "Weather API key not configured. Please set WEATHER_API_KEY environment variable.",
		},
		{
			name: "not found",
			err:  &weather.NotFoundError{Location: "Nowhereville"},
			want: "Location 'Nowhereville' not found. Please check the city name.",
		},
		{
			name: "upstream failure",
			err:  errors.New("connection refused"),
			want: "Unable to fetch weather data: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := weather.NewMock().WithError(tt.err)
			r := NewRegistry(nil, WeatherTool(mock))

			got := r.Execute(context.Background(), "get_weather", `{"location":"Nowhereville"}`)
			if got != tt.want {
				t.Errorf("result mismatch:\n got: %q\nwant: %q", got, tt.want)
			}
		})
	}
}
