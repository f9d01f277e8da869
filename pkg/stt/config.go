package stt

import (
	"log/slog"
	"time"
)

// Config holds transcription provider configuration.
type Config struct {
	// Endpoint
	BaseURL string
	APIKey  string

	// Model is the transcription model identifier.
	Model string

	// FileName and ContentType identify the submitted audio container.
	FileName    string
	ContentType string

	// VAD configures service-side speech segmentation.
	VAD VADParams

	// Timeouts
	Timeout time.Duration

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring transcription providers.
type Option func(*Config)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithModel sets the transcription model.
func WithModel(model string) Option {
	return func(c *Config) { c.Model = model }
}

// WithAudioFormat sets the submitted file name and MIME type.
func WithAudioFormat(fileName, contentType string) Option {
	return func(c *Config) {
		c.FileName = fileName
		c.ContentType = contentType
	}
}

// WithVAD sets the voice activity detection parameters.
func WithVAD(vad VADParams) Option {
	return func(c *Config) { c.VAD = vad }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns sensible defaults for a local whisper server.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "http://localhost:8001/v1",
		Model:       "Systran/faster-distil-whisper-small.en",
		FileName:    "audio.webm",
		ContentType: "audio/webm",
		VAD:         DefaultVADParams(),
		Timeout:     60 * time.Second,
		Logger:      slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrNoBaseURL
	}
	if c.Model == "" {
		return ErrNoModel
	}
	return nil
}
