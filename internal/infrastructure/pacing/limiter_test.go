package pacing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_SpacesRequests(t *testing.T) {
	l := NewLimiter(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, l.Wait(ctx))
	assert.Less(t, time.Since(start), 40*time.Millisecond, "first request must not wait")

	require.NoError(t, l.Wait(ctx))
	require.NoError(t, l.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestLimiter_PauseRunsFromEndOfRequest(t *testing.T) {
	const delay = 100 * time.Millisecond
	l := NewLimiter(delay)
	ctx := context.Background()

	require.NoError(t, l.Wait(ctx))
	time.Sleep(2 * delay) // a request slower than the delay
	l.Done()

	start := time.Now()
	require.NoError(t, l.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), delay-10*time.Millisecond,
		"a slow request must not use up the pause before the next one")
}

func TestLimiter_FastRequestWaitsFullDelay(t *testing.T) {
	const delay = 100 * time.Millisecond
	l := NewLimiter(delay)
	ctx := context.Background()

	require.NoError(t, l.Wait(ctx))
	time.Sleep(delay / 2)
	l.Done()

	start := time.Now()
	require.NoError(t, l.Wait(ctx))
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, delay-10*time.Millisecond)
	assert.Less(t, elapsed, delay+delay/2, "the pause must not stack with the previous one")
}

func TestLimiter_ZeroDelayNeverWaits(t *testing.T) {
	l := NewLimiter(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Wait(ctx))
		l.Done()
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestLimiter_CancelledContext(t *testing.T) {
	l := NewLimiter(time.Hour)
	require.NoError(t, l.Wait(context.Background()))
	l.Done()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, l.Wait(ctx))
}

func TestFactory_IndependentLimiters(t *testing.T) {
	newPacer := Factory(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, newPacer().Wait(ctx))
	require.NoError(t, newPacer().Wait(ctx), "a fresh limiter must not inherit another job's spacing")
}
