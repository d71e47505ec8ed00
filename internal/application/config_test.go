package application

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(`
agent_name: pipeline-bot
judge: none
`))
	require.NoError(t, err)

	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Equal(t, StrategySequential, cfg.Strategy)
	assert.Equal(t, DefaultWeights(), cfg.Weights)
	assert.Equal(t, "generated_csvs", cfg.CSVDir)
}

func TestLoadConfig_FullDocument(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(`
agent_name: pipeline-bot
judge: openai
judge_model: o3-mini
judge_api_key: sk-test
server_url: https://leaderboard.example.com
api_key: abc123
strategy: pool
workers: 8
unit_timeout_seconds: 120
weights:
  pipeline_insights: 1.0
questions_dir: ./questions
csv_dir: ./csvs
`))
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Judge)
	assert.Equal(t, StrategyPool, cfg.Strategy)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 120, cfg.UnitTimeoutSeconds)
	assert.Equal(t, 1.0, cfg.Weights["pipeline_insights"])
	assert.Equal(t, "./csvs", cfg.CSVDir)
}

func TestLoadConfig_RejectsMissingJudgeKey(t *testing.T) {
	_, err := LoadConfig(strings.NewReader(`
agent_name: pipeline-bot
judge: openai
`))
	assert.Error(t, err, "a real judge provider requires an API key")
}

func TestLoadConfig_RejectsUnknownFields(t *testing.T) {
	_, err := LoadConfig(strings.NewReader(`
agent_name: pipeline-bot
judge: none
judgemodel: typo
`))
	assert.Error(t, err)
}

func TestLoadConfig_RejectsUnknownStrategy(t *testing.T) {
	_, err := LoadConfig(strings.NewReader(`
agent_name: pipeline-bot
judge: none
strategy: ludicrous
`))
	assert.Error(t, err)
}

func TestConfig_BatchConfig(t *testing.T) {
	cfg := Config{Strategy: StrategyConcurrent, Workers: 6, UnitTimeoutSeconds: 60}
	bc := cfg.BatchConfig()

	assert.Equal(t, StrategyConcurrent, bc.Strategy)
	assert.Equal(t, 6, bc.Workers)
	assert.Equal(t, time.Minute, bc.UnitTimeout)
}
