// Package ports defines the interfaces between the benchmark core and the
// infrastructure layer: the judge transport, the evaluator contract, the
// caller-supplied agent, and observability hooks. These interfaces enable
// dependency injection and make the core testable without live backends.
package ports

import (
	"context"
	"time"

	"github.com/ahrav/crmbench/internal/dataset"
	"github.com/ahrav/crmbench/internal/domain"
)

// Agent is the caller-supplied function under benchmark. It receives the
// question text and the opaque data table and returns the agent's free-text
// answer. The harness never inspects the table on the agent's behalf.
//
// Agents may fail; a returned error (or panic) is absorbed at the
// per-question boundary as a zero-scored result and never aborts the run.
type Agent func(ctx context.Context, question string, table *dataset.Table) (string, error)

// JudgeClient is the transport to the external scoring oracle. The judge
// consumes a free-text request and replies with free text that is expected
// to parse as a single decimal in [0.00, 1.00]; interpreting that reply is
// the evaluator's job, not the transport's.
//
// Implementations own provider specifics (authentication, request shaping)
// and any middleware the assembler chose (rate limiting, retries,
// timeouts). A JudgeClient is handed to consumers explicitly; there is no
// ambient package-level client.
type JudgeClient interface {
	// Ask sends one prompt to the judge and returns its raw textual
	// output. The options map carries provider-specific knobs such as
	// "temperature" or "max_tokens".
	Ask(ctx context.Context, prompt string, options map[string]any) (string, error)

	// Model returns the model identifier in use, for logging and audit
	// strings.
	Model() string
}

// Evaluator scores one (agent response, expected answer) pair. The
// contract is fail-closed: every outcome is a bounded score in [0, 1] plus
// a debug string; no error path exists. An unparseable or unreachable
// judge yields score 0 with a debug string naming the failure, so callers
// cannot distinguish "judge unreachable" from "judge said no" by score
// alone, only by the debug string.
type Evaluator interface {
	Evaluate(ctx context.Context, agentResponse string, expected domain.ExpectedAnswer, context string) (score float64, debug string)
}

// MetricsCollector abstracts operational metrics so the judge transport
// and runners can record observations without binding to a specific
// backend. The Prometheus implementation lives in infrastructure/metrics.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
