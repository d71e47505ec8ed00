package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ahrav/crmbench/internal/application"
	"github.com/ahrav/crmbench/internal/leaderboard"
	"github.com/ahrav/crmbench/sdk"
)

func newRunCommand(flags *rootFlags) *cobra.Command {
	var (
		strategy string
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark over the configured datasets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if strategy != "" {
				cfg.Strategy = application.Strategy(strategy)
			}
			if workers > 0 {
				cfg.Workers = workers
			}
			if cfg.Workers == 0 && cfg.Strategy != application.StrategySequential {
				cfg.Workers = 4
			}

			client, err := buildClient(cfg, nil)
			if err != nil {
				return err
			}
			agent, err := buildAgent(cfg)
			if err != nil {
				return err
			}

			summary, err := client.RunFullBenchmark(cmd.Context(), agent, cfg.QuestionsDir, cfg.CSVDir)
			if err != nil {
				return err
			}

			slog.Info("benchmark finished",
				"overall", summary.OverallAverage,
				"runs", len(summary.IndividualResults),
			)
			return printSummary(summary)
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "batch strategy: sequential, pool, or concurrent")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker count for pool and concurrent strategies")
	return cmd
}

// printSummary writes the batch summary as JSON to stdout; logs go to
// stderr so the output stays machine-readable.
func printSummary(summary any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	return nil
}

func buildClient(cfg application.Config, lb *leaderboard.Client) (*sdk.Client, error) {
	eval, err := buildEvaluator(cfg)
	if err != nil {
		return nil, err
	}
	return sdk.New(sdk.Options{
		AgentName:   cfg.AgentName,
		Evaluator:   eval,
		Leaderboard: lb,
		Weights:     cfg.Weights,
		Batch:       cfg.BatchConfig(),
	})
}
