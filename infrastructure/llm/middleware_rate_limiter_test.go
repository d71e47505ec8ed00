package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMiddleware_AllowsBurst(t *testing.T) {
	mock := NewMockCoreJudge()
	wrapped := RateLimitMiddleware(1, 3)(mock)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, _, _, err := wrapped.Ask(context.Background(), "score this", nil)
		require.NoError(t, err)
	}

	assert.Less(t, time.Since(start), 200*time.Millisecond, "burst capacity should not block")
	assert.Equal(t, 3, mock.Calls())
}

func TestRateLimitMiddleware_PacesBeyondBurst(t *testing.T) {
	mock := NewMockCoreJudge()
	wrapped := RateLimitMiddleware(20, 1)(mock)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, _, _, err := wrapped.Ask(context.Background(), "score this", nil)
		require.NoError(t, err)
	}

	// 20 rps with burst 1 means two refill waits of ~50ms each.
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond, "calls beyond burst should be paced")
}

func TestRateLimitMiddleware_CancelledWait(t *testing.T) {
	mock := NewMockCoreJudge()
	wrapped := RateLimitMiddleware(0.1, 1)(mock)

	// Drain the single burst token.
	_, _, _, err := wrapped.Ask(context.Background(), "score this", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, _, err = wrapped.Ask(ctx, "score this", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
	assert.Equal(t, 1, mock.Calls(), "second call should never reach the provider")
}

func TestRateLimitMiddleware_SharedBucket(t *testing.T) {
	// One middleware value wraps two cores; they must share the bucket.
	middleware := RateLimitMiddleware(1, 1)
	first := middleware(NewMockCoreJudge())
	second := middleware(NewMockCoreJudge())

	_, _, _, err := first.Ask(context.Background(), "score this", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _, _, err = second.Ask(ctx, "score this", nil)
	assert.Error(t, err, "second core should contend for the same token")
}
