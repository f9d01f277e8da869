// Package stt provides a client for OpenAI-compatible speech-to-text
// endpoints (faster-whisper-server and friends).
//
// Audio is submitted as a complete utterance; the service segments speech
// internally using voice activity detection. All implementations satisfy
// the Provider interface, so callers can swap the real client for a mock
// in tests.
//
// Example usage:
//
//	provider, _ := stt.NewClient(
//	    stt.WithBaseURL("http://localhost:8001/v1"),
//	)
//	defer provider.Close()
//
//	result, _ := provider.Transcribe(ctx, audioBytes)
//	// result.Text holds the transcript, possibly empty if nothing was said
package stt

import "context"

// Provider defines the transcription provider interface.
type Provider interface {
	// Transcribe converts a complete audio utterance to text.
	// An empty Text with a nil error means nothing intelligible was said.
	Transcribe(ctx context.Context, audio []byte) (*Transcript, error)

	// Health checks provider connectivity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// Transcript is a completed transcription result.
type Transcript struct {
	// Text is the transcribed speech, trimmed. May be empty.
	Text string

	// LatencyMs is the transcription round-trip time in milliseconds.
	LatencyMs int64
}

// VADParams configures voice-activity-aware segmentation on the service
// side. Values are tuned for close-mic conversational speech.
type VADParams struct {
	// Threshold is the speech probability threshold (0.0-1.0).
	Threshold float64 `json:"threshold"`

	// MinSpeechDurationMs is the minimum speech duration to keep a segment.
	MinSpeechDurationMs int `json:"min_speech_duration_ms"`

	// MinSilenceDurationMs is the silence duration that splits segments.
	MinSilenceDurationMs int `json:"min_silence_duration_ms"`

	// SpeechPadMs is the padding added around detected speech.
	SpeechPadMs int `json:"speech_pad_ms"`
}

// DefaultVADParams returns the segmentation defaults used for voice turns.
func DefaultVADParams() VADParams {
	return VADParams{
		Threshold:            0.5,
		MinSpeechDurationMs:  250,
		MinSilenceDurationMs: 500,
		SpeechPadMs:          200,
	}
}
