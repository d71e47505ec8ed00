// Package application orchestrates benchmark runs: single-dataset runs,
// multi-dataset batches with selectable concurrency strategies, and
// filesystem discovery of dataset/question pairs.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ahrav/crmbench/internal/dataset"
	"github.com/ahrav/crmbench/internal/domain"
	"github.com/ahrav/crmbench/internal/ports"
)

// RunOption customizes a single benchmark run.
type RunOption func(*runOptions)

type runOptions struct {
	weights     domain.CategoryWeights
	logger      *slog.Logger
	sendContext bool
	metrics     ports.MetricsCollector
	tag         string
}

// WithWeights overrides the category weights used for aggregation.
func WithWeights(weights domain.CategoryWeights) RunOption {
	return func(o *runOptions) { o.weights = weights }
}

// WithLogger attaches a logger; the default discards nothing but logs at
// the default slog level.
func WithLogger(logger *slog.Logger) RunOption {
	return func(o *runOptions) { o.logger = logger }
}

// WithTableContext forwards the table's textual form to the evaluator so
// the judge can consult the underlying data.
func WithTableContext() RunOption {
	return func(o *runOptions) { o.sendContext = true }
}

// WithMetrics records per-run observations through the collector.
func WithMetrics(collector ports.MetricsCollector) RunOption {
	return func(o *runOptions) { o.metrics = collector }
}

// WithTag labels the run's metrics and logs with a dataset tag.
func WithTag(tag string) RunOption {
	return func(o *runOptions) { o.tag = tag }
}

// Runner executes benchmark runs against a fixed evaluator.
type Runner struct {
	evaluator ports.Evaluator
	weights   domain.CategoryWeights
	logger    *slog.Logger
}

// NewRunner constructs a Runner. Weights apply to every run unless a
// run-level WithWeights overrides them.
func NewRunner(evaluator ports.Evaluator, weights domain.CategoryWeights, logger *slog.Logger) (*Runner, error) {
	if evaluator == nil {
		return nil, fmt.Errorf("evaluator must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{evaluator: evaluator, weights: weights, logger: logger}, nil
}

// RunOne benchmarks the agent over one ordered question sequence against
// one table. Questions are asked strictly in order; each agent failure
// (error or panic) is absorbed as a zero-scored question result and the
// run continues. The returned RunResult is complete even when every
// question failed.
func (r *Runner) RunOne(ctx context.Context, agent ports.Agent, questions []domain.Question, table *dataset.Table, opts ...RunOption) domain.RunResult {
	options := runOptions{weights: r.weights, logger: r.logger}
	for _, opt := range opts {
		opt(&options)
	}

	runID := uuid.NewString()
	logger := options.logger.With("run_id", runID)
	if options.tag != "" {
		logger = logger.With("dataset", options.tag)
	}

	var tableContext string
	if options.sendContext && table != nil {
		tableContext = table.String()
	}

	start := time.Now()
	details := make([]domain.QuestionResult, 0, len(questions))

	for _, question := range questions {
		detail := r.runQuestion(ctx, agent, question, table, tableContext, logger)
		details = append(details, detail)
	}

	total := time.Since(start)
	percent := domain.WeightedPercent(details, options.weights)

	logger.Info("run complete",
		"questions", len(questions),
		"score_percent", percent,
		"duration", total,
	)
	if options.metrics != nil {
		labels := map[string]string{"dataset": options.tag, "status": "success"}
		options.metrics.RecordHistogram("benchmark_run_duration_seconds", total.Seconds(), labels)
		options.metrics.RecordCounter("benchmark_runs_total", 1, labels)
	}

	return domain.RunResult{
		ID:                          runID,
		OverallWeightedScorePercent: percent,
		TotalTime:                   total,
		QuestionDetails:             details,
	}
}

// runQuestion times one agent invocation and evaluates its answer. The
// agent call is fenced with a recover so a panicking agent costs one
// question, not the run.
func (r *Runner) runQuestion(ctx context.Context, agent ports.Agent, question domain.Question, table *dataset.Table, tableContext string, logger *slog.Logger) domain.QuestionResult {
	result := domain.QuestionResult{
		QuestionID:   question.ID,
		Category:     question.Category,
		QuestionText: question.Text,
	}

	start := time.Now()
	response, err := invokeAgent(ctx, agent, question.Text, table)
	result.TimeTaken = time.Since(start)

	if err != nil {
		result.Score = 0.0
		result.EvaluationDebug = fmt.Sprintf("%v: %v", domain.ErrAgentInvocation, err)
		logger.Warn("agent failed", "question_id", question.ID, "error", err)
		return result
	}

	result.AgentResponse = response
	result.Score, result.EvaluationDebug = r.evaluator.Evaluate(ctx, response, question.Answer, tableContext)

	logger.Debug("question evaluated",
		"question_id", question.ID,
		"category", question.Category,
		"score", result.Score,
		"agent_time", result.TimeTaken,
	)
	return result
}

// invokeAgent calls the agent with panic absorption.
func invokeAgent(ctx context.Context, agent ports.Agent, question string, table *dataset.Table) (response string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			response = ""
			err = fmt.Errorf("agent panicked: %v", rec)
		}
	}()
	return agent(ctx, question, table)
}
