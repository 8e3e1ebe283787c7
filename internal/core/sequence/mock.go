package sequence

import (
	"context"
	"sync/atomic"
	"time"
)

// MockGenerator is a test implementation of Generator.
// Use in unit tests to avoid database dependencies.
type MockGenerator struct {
	NextFunc   func(ctx context.Context, ts time.Time) (string, error)
	ResyncFunc func(ctx context.Context, ts time.Time) error

	counter atomic.Int64
}

// Next implements Generator.
func (m *MockGenerator) Next(ctx context.Context, ts time.Time) (string, error) {
	if m.NextFunc != nil {
		return m.NextFunc(ctx, ts)
	}
	return Format(Period(ts), m.counter.Add(1)), nil
}

// Resync implements Generator. The default is a no-op: the in-memory
// counter never rolls back, so it is never behind.
func (m *MockGenerator) Resync(ctx context.Context, ts time.Time) error {
	if m.ResyncFunc != nil {
		return m.ResyncFunc(ctx, ts)
	}
	return nil
}

// Ensure compile-time interface compliance.
var _ Generator = (*MockGenerator)(nil)
