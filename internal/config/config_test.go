package config

import "testing"

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"LLM_API_URL", "STT_API_URL", "TTS_API_URL", "WEATHER_API_KEY", "PORT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	if cfg.LLMBaseURL != DefaultLLMBaseURL {
		t.Errorf("unexpected LLM base URL: %s", cfg.LLMBaseURL)
	}
	if cfg.STTBaseURL != DefaultSTTBaseURL {
		t.Errorf("unexpected STT base URL: %s", cfg.STTBaseURL)
	}
	if cfg.TTSBaseURL != DefaultTTSBaseURL {
		t.Errorf("unexpected TTS base URL: %s", cfg.TTSBaseURL)
	}
	if cfg.WeatherAPIKey != "" {
		t.Errorf("expected empty weather key, got %q", cfg.WeatherAPIKey)
	}
	if cfg.Port != DefaultPort || cfg.LogLevel != DefaultLogLevel {
		t.Errorf("unexpected server defaults: %s %s", cfg.Port, cfg.LogLevel)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("LLM_API_URL", "http://llm:9000/v1")
	t.Setenv("WEATHER_API_KEY", "secret")
	t.Setenv("PORT", "9090")

	cfg := FromEnv()
	if cfg.LLMBaseURL != "http://llm:9000/v1" {
		t.Errorf("override ignored: %s", cfg.LLMBaseURL)
	}
	if cfg.WeatherAPIKey != "secret" {
		t.Errorf("weather key not read: %q", cfg.WeatherAPIKey)
	}
	if cfg.Port != "9090" {
		t.Errorf("port override ignored: %s", cfg.Port)
	}
}
