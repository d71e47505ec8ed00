// Package sdk is the user-facing facade over the benchmark harness. A
// Client bundles an evaluator-backed runner with an optional leaderboard
// client; callers bring their own agent function and dataset locations.
//
// Typical use:
//
//	judge, err := llm.NewClient("openai", llm.Config{APIKey: key})
//	eval, err := evaluator.NewJudgeEvaluator(judge, evaluator.Config{})
//	client, err := sdk.New(sdk.Options{
//	    AgentName: "pipeline-bot",
//	    Evaluator: eval,
//	})
//	summary, err := client.RunFullBenchmark(ctx, agent, "questions", "generated_csvs")
package sdk

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ahrav/crmbench/internal/application"
	"github.com/ahrav/crmbench/internal/dataset"
	"github.com/ahrav/crmbench/internal/domain"
	"github.com/ahrav/crmbench/internal/leaderboard"
	"github.com/ahrav/crmbench/internal/ports"
)

// Agent is re-exported so sdk users need not import internal packages.
type Agent = ports.Agent

// Options configures a Client. Evaluator is the only required
// dependency; everything else has working defaults.
type Options struct {
	// AgentName labels leaderboard submissions.
	AgentName string

	// Evaluator scores agent answers.
	Evaluator ports.Evaluator

	// Leaderboard, when set, enables RunAndSubmit.
	Leaderboard *leaderboard.Client

	// Weights defaults to the shipped CRM category weights.
	Weights domain.CategoryWeights

	// Batch controls batch scheduling; zero value runs sequentially.
	Batch application.BatchConfig

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Client runs benchmarks and optionally submits their scores.
type Client struct {
	runner      *application.Runner
	leaderboard *leaderboard.Client
	agentName   string
	batch       application.BatchConfig
	logger      *slog.Logger
}

// New assembles a Client from explicit dependencies.
func New(opts Options) (*Client, error) {
	if opts.Evaluator == nil {
		return nil, fmt.Errorf("evaluator must not be nil")
	}
	if opts.AgentName == "" {
		opts.AgentName = "unnamed-agent"
	}
	if opts.Weights == nil {
		opts.Weights = application.DefaultWeights()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	runner, err := application.NewRunner(opts.Evaluator, opts.Weights, opts.Logger)
	if err != nil {
		return nil, err
	}

	return &Client{
		runner:      runner,
		leaderboard: opts.Leaderboard,
		agentName:   opts.AgentName,
		batch:       opts.Batch,
		logger:      opts.Logger,
	}, nil
}

// RunBenchmark benchmarks the agent over one question file and one CSV
// table.
func (c *Client) RunBenchmark(ctx context.Context, agent Agent, questionsPath, csvPath string) (domain.BatchSummary, error) {
	units := []application.FileUnit{{QuestionsPath: questionsPath, TablePath: csvPath, Tag: "D1"}}
	return c.runner.RunManyFiles(ctx, agent, units, c.batch)
}

// RunUnits benchmarks the agent over pre-loaded units.
func (c *Client) RunUnits(ctx context.Context, agent Agent, units []application.Unit) (domain.BatchSummary, error) {
	return c.runner.RunMany(ctx, agent, units, c.batch)
}

// RunFullBenchmark discovers every question/CSV pair under the given
// directories and benchmarks the agent over all of them.
func (c *Client) RunFullBenchmark(ctx context.Context, agent Agent, questionsDir, csvDir string) (domain.BatchSummary, error) {
	units, err := application.DiscoverUnits(questionsDir, csvDir)
	if err != nil {
		return domain.BatchSummary{}, err
	}
	c.logger.Info("discovered benchmark units", "count", len(units))
	return c.runner.RunManyFiles(ctx, agent, units, c.batch)
}

// RunAndSubmit runs the full benchmark and submits the overall average
// to the leaderboard. An empty batch is refused with ErrNoRuns rather
// than submitting a spurious zero; a failed submission is reported in
// the returned SubmissionResult, never by dropping the summary.
func (c *Client) RunAndSubmit(ctx context.Context, agent Agent, questionsDir, csvDir string) (domain.BatchSummary, leaderboard.SubmissionResult, error) {
	if c.leaderboard == nil {
		return domain.BatchSummary{}, leaderboard.SubmissionResult{}, fmt.Errorf("no leaderboard client configured")
	}

	summary, err := c.RunFullBenchmark(ctx, agent, questionsDir, csvDir)
	if err != nil {
		return summary, leaderboard.SubmissionResult{}, err
	}
	if len(summary.IndividualResults) == 0 {
		return summary, leaderboard.SubmissionResult{}, domain.ErrNoRuns
	}

	result := c.leaderboard.SubmitScore(ctx, c.agentName, summary.OverallAverage, summary.DatasetAverages)
	if result.Accepted() {
		c.logger.Info("score submitted", "score", summary.OverallAverage, "username", result.Username)
	} else {
		c.logger.Warn("score submission failed", "status", result.Status, "error", result.Err, "message", result.Message)
	}
	return summary, result, nil
}

// SubmitScore submits an already-computed summary. It refuses an empty
// batch with ErrNoRuns.
func (c *Client) SubmitScore(ctx context.Context, summary domain.BatchSummary) (leaderboard.SubmissionResult, error) {
	if c.leaderboard == nil {
		return leaderboard.SubmissionResult{}, fmt.Errorf("no leaderboard client configured")
	}
	if len(summary.IndividualResults) == 0 {
		return leaderboard.SubmissionResult{}, domain.ErrNoRuns
	}
	return c.leaderboard.SubmitScore(ctx, c.agentName, summary.OverallAverage, summary.DatasetAverages), nil
}

// GenerateFixture writes a deterministic synthetic CRM table, exposed
// for callers that want local data without the shipped CSVs.
func GenerateFixture(cfg dataset.GenerateConfig) (*dataset.Table, dataset.Signature) {
	return dataset.Generate(cfg)
}
