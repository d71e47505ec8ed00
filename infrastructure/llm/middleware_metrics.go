package llm

import (
	"context"
	"time"

	"github.com/ahrav/crmbench/internal/ports"
)

// metricsJudge records latency, request counts, and token usage for every
// judge call through a MetricsCollector.
type metricsJudge struct {
	next      CoreJudge
	collector ports.MetricsCollector
}

// MetricsMiddleware instruments judge calls with the given collector. A
// nil collector degrades to a pass-through.
func MetricsMiddleware(collector ports.MetricsCollector) Middleware {
	return func(next CoreJudge) CoreJudge {
		return &metricsJudge{next: next, collector: collector}
	}
}

// Ask implements CoreJudge.
func (m *metricsJudge) Ask(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	start := time.Now()
	raw, tokensIn, tokensOut, err := m.next.Ask(ctx, prompt, opts)

	if m.collector == nil {
		return raw, tokensIn, tokensOut, err
	}

	labels := map[string]string{
		"model":  m.next.Model(),
		"status": "success",
	}
	if err != nil {
		labels["status"] = "error"
		if ctx.Err() == context.DeadlineExceeded {
			labels["status"] = "timeout"
		}
	}

	m.collector.RecordHistogram("judge_latency_seconds", time.Since(start).Seconds(), labels)
	m.collector.RecordCounter("judge_requests_total", 1, labels)

	if err == nil {
		labels["token_type"] = "input"
		m.collector.RecordCounter("judge_tokens_total", float64(tokensIn), labels)
		labels["token_type"] = "output"
		m.collector.RecordCounter("judge_tokens_total", float64(tokensOut), labels)
	}

	return raw, tokensIn, tokensOut, err
}

// Model implements CoreJudge.
func (m *metricsJudge) Model() string { return m.next.Model() }
