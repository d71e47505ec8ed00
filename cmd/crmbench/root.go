package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahrav/crmbench/infrastructure/evaluator"
	"github.com/ahrav/crmbench/infrastructure/llm"
	"github.com/ahrav/crmbench/internal/application"
	"github.com/ahrav/crmbench/internal/dataset"
	"github.com/ahrav/crmbench/internal/ports"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configPath string
	judge      string
	verbose    bool
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "crmbench",
		Short:         "CRM agent benchmark harness",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			level := slog.LevelInfo
			if flags.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "crmbench.yaml", "path to the benchmark config file")
	root.PersistentFlags().StringVar(&flags.judge, "judge", "", "judge provider override: openai, anthropic, google, or none")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newRunCommand(flags))
	root.AddCommand(newSubmitCommand(flags))
	root.AddCommand(newGenerateCommand())
	return root
}

// loadConfig reads and validates the config file named by the flags,
// then applies flag overrides.
func loadConfig(flags *rootFlags) (application.Config, error) {
	cfg, err := application.LoadConfigFile(flags.configPath)
	if err != nil {
		return application.Config{}, fmt.Errorf("loading %s: %w", flags.configPath, err)
	}
	if flags.judge != "" {
		switch flags.judge {
		case "openai", "anthropic", "google", "none":
			cfg.Judge = flags.judge
		default:
			return application.Config{}, fmt.Errorf("unknown judge provider %q", flags.judge)
		}
	}
	return cfg, nil
}

// buildEvaluator assembles the evaluator the config asks for: a
// provider-backed judge with the standard middleware chain, or the
// offline lexical evaluator for "none".
func buildEvaluator(cfg application.Config) (ports.Evaluator, error) {
	if cfg.Judge == "none" {
		return evaluator.NewLexical(), nil
	}

	judge, err := llm.NewClient(cfg.Judge, llm.Config{
		APIKey: cfg.JudgeAPIKey,
		Model:  cfg.JudgeModel,
		Middleware: []llm.Middleware{
			llm.RateLimitMiddleware(10, 20),
			llm.RetryMiddleware(3, time.Second, 30*time.Second),
			llm.TimeoutMiddleware(60 * time.Second),
		},
	})
	if err != nil {
		return nil, err
	}
	return evaluator.NewJudgeEvaluator(judge, evaluator.Config{})
}

// buildAgent returns the built-in demo agent: an LLM call that answers
// each question with the table supplied as system context. It reuses
// the judge provider configuration.
func buildAgent(cfg application.Config) (ports.Agent, error) {
	if cfg.Judge == "none" {
		// Without a model there is nothing to answer with; echo the
		// question so offline runs still exercise the pipeline.
		return func(_ context.Context, question string, _ *dataset.Table) (string, error) {
			return question, nil
		}, nil
	}

	client, err := llm.NewClient(cfg.Judge, llm.Config{
		APIKey: cfg.JudgeAPIKey,
		Model:  cfg.JudgeModel,
		Middleware: []llm.Middleware{
			llm.RetryMiddleware(3, time.Second, 30*time.Second),
			llm.TimeoutMiddleware(120 * time.Second),
		},
	})
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, question string, table *dataset.Table) (string, error) {
		system := "You are an agent designed to analyze CRM data."
		if table != nil {
			system += "\n\n" + table.String()
		}
		return client.Ask(ctx, question, map[string]any{
			"system":     system,
			"max_tokens": 1024,
		})
	}, nil
}
