// Package config provides process-level configuration for voxlined.
// All settings come from the environment; the loaded struct is passed
// explicitly into constructors so nothing reads ambient globals.
package config

import "os"

// Defaults for local development, matching the companion STT/LLM/TTS
// services' standard ports.
const (
	DefaultLLMBaseURL = "http://localhost:8000/v1"
	DefaultSTTBaseURL = "http://localhost:8001/v1"
	DefaultTTSBaseURL = "http://localhost:8880/v1/audio/speech"
	DefaultPort       = "8080"
	DefaultLogLevel   = "info"
)

// Config holds everything voxlined needs to talk to its collaborators.
type Config struct {
	// Service endpoints
	LLMBaseURL string
	STTBaseURL string
	TTSBaseURL string

	// Weather credential (OpenWeatherMap). Empty means the weather tool
	// reports itself as unconfigured rather than failing.
	WeatherAPIKey string

	// Server
	Port     string
	LogLevel string
}

// FromEnv loads configuration from the environment, applying defaults
// for anything unset.
func FromEnv() Config {
	return Config{
		LLMBaseURL:    getenv("LLM_API_URL", DefaultLLMBaseURL),
		STTBaseURL:    getenv("STT_API_URL", DefaultSTTBaseURL),
		TTSBaseURL:    getenv("TTS_API_URL", DefaultTTSBaseURL),
		WeatherAPIKey: os.Getenv("WEATHER_API_KEY"),
		Port:          getenv("PORT", DefaultPort),
		LogLevel:      getenv("LOG_LEVEL", DefaultLogLevel),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
