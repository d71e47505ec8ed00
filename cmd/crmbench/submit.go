package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ahrav/crmbench/internal/leaderboard"
)

func newSubmitCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "submit",
		Short: "Run the benchmark and submit the score to the leaderboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cfg.APIKey == "" {
				return fmt.Errorf("api_key is required to submit scores")
			}

			lb := leaderboard.NewClient(nil, cfg.ServerURL, cfg.APIKey,
				leaderboard.DefaultRetryPolicy(), slog.Default())

			client, err := buildClient(cfg, lb)
			if err != nil {
				return err
			}
			agent, err := buildAgent(cfg)
			if err != nil {
				return err
			}

			summary, result, err := client.RunAndSubmit(cmd.Context(), agent, cfg.QuestionsDir, cfg.CSVDir)
			if err != nil {
				return err
			}

			if result.Accepted() {
				slog.Info("score accepted", "username", result.Username, "score", summary.OverallAverage)
			} else {
				slog.Error("submission not accepted",
					"status", result.Status, "message", result.Message, "error", result.Err)
			}
			return printSummary(struct {
				Summary    any `json:"summary"`
				Submission any `json:"submission"`
			}{summary, result})
		},
	}
}
