package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// rateLimitedJudge paces judge calls with a token bucket so batch runs
// stay inside provider rate limits regardless of worker count.
type rateLimitedJudge struct {
	next    CoreJudge
	limiter *rate.Limiter
}

// RateLimitMiddleware enforces a sustained requests-per-second rate with
// the given burst allowance. All wrapped calls across all workers share
// one bucket.
func RateLimitMiddleware(limit rate.Limit, burst int) Middleware {
	limiter := rate.NewLimiter(limit, burst)
	return func(next CoreJudge) CoreJudge {
		return &rateLimitedJudge{next: next, limiter: limiter}
	}
}

// Ask blocks until a token is available, then forwards the call.
func (r *rateLimitedJudge) Ask(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", 0, 0, fmt.Errorf("judge rate limit: %w", err)
	}
	return r.next.Ask(ctx, prompt, opts)
}

// Model implements CoreJudge.
func (r *rateLimitedJudge) Model() string { return r.next.Model() }
