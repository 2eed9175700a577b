package context

import (
	"context"
	"time"
)

type key string

var (
	testClockIDKey   key = "test_clock_id"
	simulatedTimeKey key = "simulated_time"
)

// WithTestClock returns a new context carrying the given test clock ID and
// its frozen time.
func WithTestClock(ctx context.Context, id string, t time.Time) context.Context {
	ctx = context.WithValue(ctx, testClockIDKey, id)
	return context.WithValue(ctx, simulatedTimeKey, t)
}

// FromContext returns the test clock ID and frozen time from the context, if present.
func FromContext(ctx context.Context) (string, time.Time, bool) {
	id, okID := ctx.Value(testClockIDKey).(string)
	t, okTime := ctx.Value(simulatedTimeKey).(time.Time)

	if okID && okTime {
		return id, t, true
	}
	return "", time.Time{}, false
}

// TestClockIDFromContext returns the test clock ID from the context if present.
func TestClockIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(testClockIDKey).(string)
	return id, ok
}
