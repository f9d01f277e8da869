package stt

import (
	"context"
	"sync"
)

// Mock implements Provider for testing.
type Mock struct {
	mu sync.Mutex

	// TranscribeFunc overrides the default Transcribe behavior.
	TranscribeFunc func(ctx context.Context, audio []byte) (*Transcript, error)
	// HealthFunc overrides the default Health behavior.
	HealthFunc func(ctx context.Context) error

	audioSizes []int
	callCount  int
}

// NewMock creates a mock transcription provider.
func NewMock() *Mock {
	return &Mock{}
}

// Transcribe records the call and returns a canned transcript.
func (m *Mock) Transcribe(ctx context.Context, audio []byte) (*Transcript, error) {
	m.mu.Lock()
	m.audioSizes = append(m.audioSizes, len(audio))
	m.callCount++
	m.mu.Unlock()

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audio)
	}
	return &Transcript{Text: "mock transcript", LatencyMs: 1}, nil
}

// Health reports readiness.
func (m *Mock) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close is a no-op for mocks.
func (m *Mock) Close() error { return nil }

// AudioSizes returns the byte lengths of all submitted utterances.
func (m *Mock) AudioSizes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.audioSizes))
	copy(out, m.audioSizes)
	return out
}

// CallCount returns the number of Transcribe calls made.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// WithError configures the mock to always fail with err.
func (m *Mock) WithError(err error) *Mock {
	m.TranscribeFunc = func(ctx context.Context, audio []byte) (*Transcript, error) {
		return nil, err
	}
	return m
}

var _ Provider = (*Mock)(nil)
