package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/voxline/voxline/internal/httpc"
)

const providerKokoro = "kokoro"

// Client implements Provider for OpenAI-compatible speech endpoints
// (Kokoro and friends). The endpoint takes the full synthesis request as
// JSON and responds with raw audio bytes.
type Client struct {
	config *Config
	client *http.Client
	logger *slog.Logger
}

// NewClient creates a new TTS client.
func NewClient(opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		config: cfg,
		client: httpc.NewClient(cfg.Timeout),
		logger: cfg.Logger.With("component", "tts.client"),
	}, nil
}

// Synthesize converts text to audio, returning the complete audio buffer.
func (c *Client) Synthesize(ctx context.Context, text string) (*AudioResult, error) {
	start := time.Now()

	payload := map[string]any{
		"model":           c.config.ModelID,
		"input":           text,
		"voice":           c.config.VoiceID,
		"response_format": c.config.OutputFormat,
		"speed":           c.config.Speed,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, WrapError(providerKokoro, fmt.Errorf("marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(providerKokoro, fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, WrapError(providerKokoro, err)
	}
	defer resp.Body.Close()

	latency := time.Since(start).Milliseconds()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapError(providerKokoro, fmt.Errorf("read response: %w", err))
	}
	if len(audio) == 0 {
		return nil, WrapError(providerKokoro, ErrEmptyAudio)
	}

	c.logger.Debug("synthesized audio",
		"chars", len(text),
		"bytes", len(audio),
		"latency_ms", latency,
		"voice", c.config.VoiceID,
	)

	return &AudioResult{
		Audio:     audio,
		Format:    c.config.OutputFormat,
		CharCount: len(text),
		LatencyMs: latency,
	}, nil
}

// Health checks API connectivity with a minimal synthesis request.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.Synthesize(ctx, "ok")
	return err
}

// Close releases resources.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// Voice returns the configured voice.
func (c *Client) Voice() string {
	return c.config.VoiceID
}

// parseError reads and parses an error response.
func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	message := string(body)
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Provider:   providerKokoro,
	}
}

// Verify Client implements Provider at compile time.
var _ Provider = (*Client)(nil)
