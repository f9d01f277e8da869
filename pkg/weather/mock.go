package weather

import (
	"context"
	"sync"
)

// Mock implements Provider for testing.
type Mock struct {
	mu sync.Mutex

	// CurrentFunc overrides the default Current behavior.
	CurrentFunc func(ctx context.Context, location string) (*Report, error)

	locations []string
}

// NewMock creates a mock weather provider.
func NewMock() *Mock {
	return &Mock{}
}

// Current records the call and returns a canned report.
func (m *Mock) Current(ctx context.Context, location string) (*Report, error) {
	m.mu.Lock()
	m.locations = append(m.locations, location)
	m.mu.Unlock()

	if m.CurrentFunc != nil {
		return m.CurrentFunc(ctx, location)
	}
	return &Report{
		City:        location,
		Country:     "JP",
		Description: "clear sky",
		TempC:       21.5,
		FeelsLikeC:  20.8,
		Humidity:    55,
		WindSpeed:   3.2,
	}, nil
}

// Close is a no-op for mocks.
func (m *Mock) Close() error { return nil }

// Locations returns all queried locations.
func (m *Mock) Locations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.locations))
	copy(out, m.locations)
	return out
}

// WithError configures the mock to always fail with err.
func (m *Mock) WithError(err error) *Mock {
	m.CurrentFunc = func(ctx context.Context, location string) (*Report, error) {
		return nil, err
	}
	return m
}

var _ Provider = (*Mock)(nil)
