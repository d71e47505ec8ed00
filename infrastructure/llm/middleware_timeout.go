package llm

import (
	"context"
	"time"
)

// timeoutJudge bounds each judge call with its own deadline, independent
// of any batch-level context the caller holds.
type timeoutJudge struct {
	next    CoreJudge
	timeout time.Duration
}

// TimeoutMiddleware applies a per-request deadline to every judge call.
// A non-positive timeout disables the wrapper.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next CoreJudge) CoreJudge {
		if timeout <= 0 {
			return next
		}
		return &timeoutJudge{next: next, timeout: timeout}
	}
}

// Ask implements CoreJudge.
func (t *timeoutJudge) Ask(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Ask(ctx, prompt, opts)
}

// Model implements CoreJudge.
func (t *timeoutJudge) Model() string { return t.next.Model() }
