// Package tts provides a client for OpenAI-compatible speech synthesis
// endpoints (Kokoro, openai-speech, etc.).
//
// All implementations satisfy the Provider interface, so callers can swap
// the real client for a mock in tests.
//
// Example usage:
//
//	provider, _ := tts.NewClient(
//	    tts.WithBaseURL("http://localhost:8880/v1/audio/speech"),
//	    tts.WithVoice("af_sky"),
//	)
//	defer provider.Close()
//
//	result, _ := provider.Synthesize(ctx, "Hello world")
//	// result.Audio contains MP3 audio bytes
package tts

import "context"

// Provider defines the TTS provider interface.
type Provider interface {
	// Synthesize converts text to audio, returning the complete audio buffer.
	Synthesize(ctx context.Context, text string) (*AudioResult, error)

	// Health checks provider connectivity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// AudioResult represents a complete audio synthesis result.
type AudioResult struct {
	// Audio contains the raw audio data in the requested format.
	Audio []byte

	// Format is the container format tag (e.g., "mp3").
	Format string

	// CharCount is the number of characters synthesized.
	CharCount int

	// LatencyMs is the synthesis round-trip time in milliseconds.
	LatencyMs int64
}
