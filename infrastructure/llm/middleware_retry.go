package llm

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// retryJudge retries failed judge calls with exponential backoff. The
// evaluator itself never retries; this middleware is the single place
// retry policy lives, chosen by whoever assembles the client.
type retryJudge struct {
	next       CoreJudge
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// RetryMiddleware retries failed judge calls up to maxRetries times with
// exponential backoff and ±25% jitter, capped at maxDelay. Context
// cancellation stops retrying immediately.
func RetryMiddleware(maxRetries int, baseDelay, maxDelay time.Duration) Middleware {
	return func(next CoreJudge) CoreJudge {
		return &retryJudge{
			next:       next,
			maxRetries: maxRetries,
			baseDelay:  baseDelay,
			maxDelay:   maxDelay,
		}
	}
}

// Ask implements CoreJudge.
func (r *retryJudge) Ask(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		raw, tokensIn, tokensOut, err := r.next.Ask(ctx, prompt, opts)
		if err == nil {
			return raw, tokensIn, tokensOut, nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == r.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return "", 0, 0, ctx.Err()
		case <-time.After(r.delay(attempt)):
		}
	}

	return "", 0, 0, fmt.Errorf("judge call failed after %d attempts: %w", r.maxRetries+1, lastErr)
}

func (r *retryJudge) delay(attempt int) time.Duration {
	if attempt > 30 {
		attempt = 30
	}
	d := time.Duration(float64(r.baseDelay) * float64(int64(1)<<uint(attempt)))

	// ±25% jitter; a weak RNG is fine for spreading retries.
	jitter := time.Duration(rand.Float64() * float64(d) * 0.5)
	d = d + jitter - d/4

	if d > r.maxDelay {
		d = r.maxDelay
	}
	return d
}

// Model implements CoreJudge.
func (r *retryJudge) Model() string { return r.next.Model() }
