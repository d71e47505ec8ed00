package llm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracingJudge wraps a CoreJudge with an OpenTelemetry span per call.
type tracingJudge struct {
	next   CoreJudge
	tracer trace.Tracer
}

// TracingMiddleware emits one span per judge call carrying the model,
// prompt size, and token usage as attributes. Errors are recorded on the
// span and mark it failed.
func TracingMiddleware() Middleware {
	return func(next CoreJudge) CoreJudge {
		return &tracingJudge{
			next:   next,
			tracer: otel.Tracer("judge-client"),
		}
	}
}

// Ask implements CoreJudge.
func (t *tracingJudge) Ask(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	ctx, span := t.tracer.Start(ctx, "JudgeClient.Ask",
		trace.WithAttributes(
			attribute.String("judge.model", t.next.Model()),
			attribute.Int("judge.prompt_bytes", len(prompt)),
		),
	)
	defer span.End()

	raw, tokensIn, tokensOut, err := t.next.Ask(ctx, prompt, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return raw, tokensIn, tokensOut, err
	}

	span.SetAttributes(
		attribute.Int("judge.tokens_in", tokensIn),
		attribute.Int("judge.tokens_out", tokensOut),
	)
	return raw, tokensIn, tokensOut, nil
}

// Model implements CoreJudge.
func (t *tracingJudge) Model() string { return t.next.Model() }
