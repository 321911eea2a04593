package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_BurstThenBlocks(t *testing.T) {
	l := New(Config{RequestsPerSecond: 1, Burst: 3})

	for i := range 3 {
		assert.True(t, l.Allow(), "request %d should be within burst", i)
	}
	assert.False(t, l.Allow(), "burst exhausted; next request must be denied")
}

func TestLimiter_Refills(t *testing.T) {
	l := New(Config{RequestsPerSecond: 100, Burst: 1})

	require.True(t, l.Allow())
	require.False(t, l.Allow())

	time.Sleep(30 * time.Millisecond)
	assert.True(t, l.Allow(), "tokens should refill at the configured rate")
}

func TestLimiter_WaitRespectsContext(t *testing.T) {
	l := New(Config{RequestsPerSecond: 1, Burst: 1})
	require.True(t, l.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLimiter_WaitSucceedsAfterRefill(t *testing.T) {
	l := New(Config{RequestsPerSecond: 50, Burst: 1})
	require.True(t, l.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NoError(t, l.Wait(ctx))
}
