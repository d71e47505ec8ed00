package application

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/crmbench/internal/domain"
)

// DefaultServerURL is the leaderboard endpoint used when none is
// configured.
const DefaultServerURL = "http://localhost:5000"

// DefaultWeights returns the shipped CRM category weights.
func DefaultWeights() domain.CategoryWeights {
	return domain.CategoryWeights{
		"pipeline_insights":       0.75,
		"email_analysis":          0.75,
		"general_sales_knowledge": 0.50,
		"employee_performance":    0.25,
	}
}

// Config is the YAML-loadable benchmark configuration shared by the CLI
// and the sdk.
type Config struct {
	// AgentName identifies the agent on the leaderboard.
	AgentName string `yaml:"agent_name" validate:"required,min=1,max=255"`

	// Judge selects the judge provider: openai, anthropic, google, or
	// none for the offline lexical evaluator.
	Judge string `yaml:"judge" validate:"required,oneof=openai anthropic google none"`

	// JudgeModel names the judge model; empty selects the provider
	// default.
	JudgeModel string `yaml:"judge_model"`

	// JudgeAPIKey authenticates judge calls. Required unless Judge is
	// none.
	JudgeAPIKey string `yaml:"judge_api_key" validate:"required_unless=Judge none"`

	// ServerURL is the leaderboard base URL.
	ServerURL string `yaml:"server_url" validate:"omitempty,url"`

	// APIKey authenticates leaderboard submissions.
	APIKey string `yaml:"api_key"`

	// Strategy selects the batch scheduling strategy.
	Strategy Strategy `yaml:"strategy" validate:"omitempty,oneof=sequential pool concurrent"`

	// Workers bounds batch concurrency for the pool and concurrent
	// strategies.
	Workers int `yaml:"workers" validate:"min=0,max=64"`

	// UnitTimeoutSeconds bounds each dataset run; zero disables the
	// per-unit deadline.
	UnitTimeoutSeconds int `yaml:"unit_timeout_seconds" validate:"min=0,max=3600"`

	// Weights overrides the default category weights when non-empty.
	Weights domain.CategoryWeights `yaml:"weights"`

	// QuestionsDir and CSVDir locate the benchmark inputs for
	// discovery.
	QuestionsDir string `yaml:"questions_dir"`
	CSVDir       string `yaml:"csv_dir"`
}

var validateConfig = validator.New()

// LoadConfig decodes and validates a YAML configuration, applying
// defaults for unset fields.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	cfg.applyDefaults()

	if err := validateConfig.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile is LoadConfig over a file path.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}

func (c *Config) applyDefaults() {
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	if c.Strategy == "" {
		c.Strategy = StrategySequential
	}
	if c.Workers == 0 && c.Strategy != StrategySequential {
		c.Workers = 4
	}
	if len(c.Weights) == 0 {
		c.Weights = DefaultWeights()
	}
	if c.QuestionsDir == "" {
		c.QuestionsDir = "."
	}
	if c.CSVDir == "" {
		c.CSVDir = "generated_csvs"
	}
}

// BatchConfig derives the batch runner configuration.
func (c Config) BatchConfig() BatchConfig {
	return BatchConfig{
		Strategy:    c.Strategy,
		Workers:     c.Workers,
		UnitTimeout: time.Duration(c.UnitTimeoutSeconds) * time.Second,
	}
}
