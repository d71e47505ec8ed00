package testutils

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ahrav/crmbench/internal/dataset"
	"github.com/ahrav/crmbench/internal/ports"
)

// AnsweringAgent returns an agent that answers from a question-text to
// answer map. Unknown questions get a fixed fallback so scoring stays
// deterministic.
func AnsweringAgent(answers map[string]string) ports.Agent {
	return func(_ context.Context, question string, _ *dataset.Table) (string, error) {
		if answer, ok := answers[question]; ok {
			return answer, nil
		}
		return "I do not know.", nil
	}
}

// EchoAgent returns an agent that replies with the question itself,
// prefixed so prompts can assert on agent output distinctly.
func EchoAgent() ports.Agent {
	return func(_ context.Context, question string, _ *dataset.Table) (string, error) {
		return "echo: " + question, nil
	}
}

// FailingAgent returns an agent that always errors.
func FailingAgent(err error) ports.Agent {
	return func(context.Context, string, *dataset.Table) (string, error) {
		return "", err
	}
}

// PanickingAgent returns an agent that panics on every call, for
// exercising the per-question fault boundary.
func PanickingAgent(message string) ports.Agent {
	return func(context.Context, string, *dataset.Table) (string, error) {
		panic(message)
	}
}

// SlowAgent wraps another agent with a random delay up to maxDelay,
// useful for shaking out ordering assumptions in concurrent runners.
// Delays honor context cancellation. The rng is serialized internally,
// so one SlowAgent may be shared across worker goroutines.
func SlowAgent(inner ports.Agent, maxDelay time.Duration, rng *rand.Rand) ports.Agent {
	var mu sync.Mutex
	return func(ctx context.Context, question string, table *dataset.Table) (string, error) {
		mu.Lock()
		delay := time.Duration(rng.Int63n(int64(maxDelay)))
		mu.Unlock()
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		return inner(ctx, question, table)
	}
}

// CountingAgent wraps an agent and reports how many calls it served
// through the returned counter func.
func CountingAgent(inner ports.Agent) (ports.Agent, func() int) {
	var calls atomic.Int64
	agent := func(ctx context.Context, question string, table *dataset.Table) (string, error) {
		calls.Add(1)
		return inner(ctx, question, table)
	}
	return agent, func() int { return int(calls.Load()) }
}

// TableReadingAgent answers with the table's row count, proving the
// opaque table reached the agent intact.
func TableReadingAgent() ports.Agent {
	return func(_ context.Context, _ string, table *dataset.Table) (string, error) {
		if table == nil {
			return "", fmt.Errorf("no table provided")
		}
		return fmt.Sprintf("%d rows", table.NumRows()), nil
	}
}
