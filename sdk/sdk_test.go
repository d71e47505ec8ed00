package sdk

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/crmbench/infrastructure/evaluator"
	"github.com/ahrav/crmbench/internal/application"
	"github.com/ahrav/crmbench/internal/domain"
	"github.com/ahrav/crmbench/internal/leaderboard"
	"github.com/ahrav/crmbench/internal/testutils"
)

const fixtureQuestions = `[
  {
    "question_id": "q1",
    "category": "pipeline_insights",
    "question_text": "How many deals are open?",
    "correct_answer": {"main_answer": "2 deals are open."}
  }
]`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixtureDirs(t *testing.T) (questionsDir, csvDir string) {
	t.Helper()
	questionsDir = t.TempDir()
	csvDir = t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(questionsDir, "dataset_1_questions.json"), []byte(fixtureQuestions), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(csvDir, "D1_deals.csv"), []byte("DealName,Stage\nAcme,Open\nGlobex,Open\n"), 0o644))
	return questionsDir, csvDir
}

func perfectAgent() Agent {
	return testutils.AnsweringAgent(map[string]string{
		"How many deals are open?": "2 deals are open.",
	})
}

func newTestClient(t *testing.T, lb *leaderboard.Client) *Client {
	t.Helper()
	judge := testutils.NewScriptedJudge()
	judge.Reply("2 deals are open.", "1.00")
	judge.DefaultReply = "0.00"

	eval, err := evaluator.NewJudgeEvaluator(judge, evaluator.Config{})
	require.NoError(t, err)

	client, err := New(Options{
		AgentName:   "pipeline-bot",
		Evaluator:   eval,
		Leaderboard: lb,
		Logger:      quietLogger(),
	})
	require.NoError(t, err)
	return client
}

func TestNew_RequiresEvaluator(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestRunBenchmark_SingleUnit(t *testing.T) {
	questionsDir, csvDir := fixtureDirs(t)
	client := newTestClient(t, nil)

	summary, err := client.RunBenchmark(context.Background(), perfectAgent(),
		filepath.Join(questionsDir, "dataset_1_questions.json"),
		filepath.Join(csvDir, "D1_deals.csv"))
	require.NoError(t, err)

	assert.Equal(t, 100.0, summary.OverallAverage)
	require.Len(t, summary.IndividualResults, 1)
}

func TestRunFullBenchmark_DiscoversUnits(t *testing.T) {
	questionsDir, csvDir := fixtureDirs(t)
	client := newTestClient(t, nil)

	summary, err := client.RunFullBenchmark(context.Background(), perfectAgent(), questionsDir, csvDir)
	require.NoError(t, err)

	assert.Equal(t, 100.0, summary.OverallAverage)
	assert.Equal(t, 100.0, summary.DatasetAverages["D1"])
}

func TestRunAndSubmit_PostsOverallAverage(t *testing.T) {
	questionsDir, csvDir := fixtureDirs(t)

	var received struct {
		AgentName     string             `json:"agent_name"`
		Score         float64            `json:"score"`
		DatasetScores map[string]float64 `json:"dataset_scores"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(map[string]string{"status": "success", "username": "benchmarker"})
	}))
	defer server.Close()

	lb := leaderboard.NewClient(server.Client(), server.URL, "k", leaderboard.RetryPolicy{}, quietLogger())
	client := newTestClient(t, lb)

	summary, result, err := client.RunAndSubmit(context.Background(), perfectAgent(), questionsDir, csvDir)
	require.NoError(t, err)

	assert.True(t, result.Accepted())
	assert.Equal(t, "benchmarker", result.Username)
	assert.Equal(t, summary.OverallAverage, received.Score)
	assert.Equal(t, "pipeline-bot", received.AgentName)
	assert.Equal(t, 100.0, received.DatasetScores["D1"])
}

func TestRunAndSubmit_RefusesEmptyBatch(t *testing.T) {
	lb := leaderboard.NewClient(nil, "http://localhost:0", "k", leaderboard.RetryPolicy{}, quietLogger())
	client := newTestClient(t, lb)

	_, _, err := client.RunAndSubmit(context.Background(), perfectAgent(), t.TempDir(), t.TempDir())
	assert.Error(t, err, "no discovered units must surface as an error, not a zero submission")
}

func TestSubmitScore_RefusesEmptySummary(t *testing.T) {
	lb := leaderboard.NewClient(nil, "http://localhost:0", "k", leaderboard.RetryPolicy{}, quietLogger())
	client := newTestClient(t, lb)

	_, err := client.SubmitScore(context.Background(), domain.BatchSummary{})
	assert.ErrorIs(t, err, domain.ErrNoRuns)
}

func TestRunAndSubmit_WithoutLeaderboard(t *testing.T) {
	client := newTestClient(t, nil)

	_, _, err := client.RunAndSubmit(context.Background(), perfectAgent(), t.TempDir(), t.TempDir())
	assert.Error(t, err)
}

func TestRunUnits_UsesConfiguredBatch(t *testing.T) {
	judge := testutils.NewScriptedJudge()
	eval, err := evaluator.NewJudgeEvaluator(judge, evaluator.Config{})
	require.NoError(t, err)

	client, err := New(Options{
		Evaluator: eval,
		Logger:    quietLogger(),
		Batch:     application.BatchConfig{Strategy: application.StrategyPool, Workers: 2},
	})
	require.NoError(t, err)

	questions := testutils.Questions(2)
	units := []application.Unit{
		{Questions: questions, Table: testutils.Table(), Tag: "D1"},
		{Questions: questions, Table: testutils.Table(), Tag: "D2"},
	}

	summary, err := client.RunUnits(context.Background(), testutils.EchoAgent(), units)
	require.NoError(t, err)
	require.Len(t, summary.IndividualResults, 2)
	assert.Equal(t, 100.0, summary.OverallAverage, "the default scripted judge accepts everything")
}
