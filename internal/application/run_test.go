package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/crmbench/infrastructure/evaluator"
	"github.com/ahrav/crmbench/internal/domain"
	"github.com/ahrav/crmbench/internal/ports"
	"github.com/ahrav/crmbench/internal/testutils"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// perfectEvaluator gives 1.0 when the response equals Main, else 0.0.
type perfectEvaluator struct{}

func (perfectEvaluator) Evaluate(_ context.Context, response string, expected domain.ExpectedAnswer, _ string) (float64, string) {
	if response == expected.Main {
		return 1.0, "exact match"
	}
	return 0.0, "no match"
}

func newTestRunner(t *testing.T, eval ports.Evaluator) *Runner {
	t.Helper()
	r, err := NewRunner(eval, testutils.TestWeights, quietLogger())
	require.NoError(t, err)
	return r
}

func TestRunOne_AllCorrectScoresHundred(t *testing.T) {
	questions := testutils.Questions(4)
	agent := testutils.AnsweringAgent(testutils.AnswersFor(questions))
	runner := newTestRunner(t, perfectEvaluator{})

	result := runner.RunOne(context.Background(), agent, questions, testutils.Table())

	assert.Equal(t, 100.0, result.OverallWeightedScorePercent)
	assert.Len(t, result.QuestionDetails, 4)
	assert.NotEmpty(t, result.ID)
	assert.False(t, result.Failed())
	for i, detail := range result.QuestionDetails {
		assert.Equal(t, questions[i].ID, detail.QuestionID, "question order must be preserved")
		assert.Equal(t, 1.0, detail.Score)
	}
}

func TestRunOne_TwoQuestionHalfScore(t *testing.T) {
	questions := []domain.Question{
		{ID: "q1", Category: "pipeline_insights", Text: "First?",
			Answer: domain.ExpectedAnswer{Main: "right"}},
		{ID: "q2", Category: "pipeline_insights", Text: "Second?",
			Answer: domain.ExpectedAnswer{Main: "also right"}},
	}
	agent := testutils.AnsweringAgent(map[string]string{
		"First?":  "right",
		"Second?": "wrong",
	})
	runner := newTestRunner(t, perfectEvaluator{})

	result := runner.RunOne(context.Background(), agent, questions, testutils.Table())

	assert.Equal(t, 50.0, result.OverallWeightedScorePercent)
}

func TestRunOne_AgentErrorIsAbsorbedPerQuestion(t *testing.T) {
	questions := testutils.Questions(3)
	agent := testutils.FailingAgent(errors.New("broker offline"))
	runner := newTestRunner(t, perfectEvaluator{})

	result := runner.RunOne(context.Background(), agent, questions, testutils.Table())

	require.Len(t, result.QuestionDetails, 3, "every question must still be reported")
	assert.Equal(t, 0.0, result.OverallWeightedScorePercent)
	for _, detail := range result.QuestionDetails {
		assert.Equal(t, 0.0, detail.Score)
		assert.Contains(t, detail.EvaluationDebug, "broker offline")
		assert.Contains(t, detail.EvaluationDebug, domain.ErrAgentInvocation.Error())
	}
}

func TestRunOne_AgentPanicIsAbsorbedPerQuestion(t *testing.T) {
	questions := testutils.Questions(2)
	agent := testutils.PanickingAgent("index out of range")
	runner := newTestRunner(t, perfectEvaluator{})

	result := runner.RunOne(context.Background(), agent, questions, testutils.Table())

	require.Len(t, result.QuestionDetails, 2)
	for _, detail := range result.QuestionDetails {
		assert.Equal(t, 0.0, detail.Score)
		assert.Contains(t, detail.EvaluationDebug, "panicked")
	}
}

func TestRunOne_IdempotentModuloTiming(t *testing.T) {
	questions := testutils.Questions(4)
	agent := testutils.AnsweringAgent(testutils.AnswersFor(questions))
	runner := newTestRunner(t, perfectEvaluator{})

	first := runner.RunOne(context.Background(), agent, questions, testutils.Table())
	second := runner.RunOne(context.Background(), agent, questions, testutils.Table())

	assert.Equal(t, first.OverallWeightedScorePercent, second.OverallWeightedScorePercent)
	require.Equal(t, len(first.QuestionDetails), len(second.QuestionDetails))
	for i := range first.QuestionDetails {
		assert.Equal(t, first.QuestionDetails[i].Score, second.QuestionDetails[i].Score)
		assert.Equal(t, first.QuestionDetails[i].AgentResponse, second.QuestionDetails[i].AgentResponse)
	}
	assert.NotEqual(t, first.ID, second.ID, "each run gets a fresh identifier")
}

func TestRunOne_JudgeBackedEndToEnd(t *testing.T) {
	// Two equal-weight questions; the scripted judge accepts one answer
	// and rejects the other, so the weighted percent lands on 50.0.
	questions := []domain.Question{
		{ID: "q1", Category: "pipeline_insights", Text: "Total pipeline?",
			Answer: domain.ExpectedAnswer{Main: "Total pipeline is $155,000."}},
		{ID: "q2", Category: "email_analysis", Text: "Latest email sentiment?",
			Answer: domain.ExpectedAnswer{Main: "Positive."}},
	}
	judge := testutils.NewScriptedJudge()
	judge.Reply("Total pipeline is $155,000.", "1.00")
	judge.Reply("Positive.", "0.00")

	eval, err := evaluator.NewJudgeEvaluator(judge, evaluator.Config{})
	require.NoError(t, err)

	weights := domain.CategoryWeights{"pipeline_insights": 0.75, "email_analysis": 0.75}
	runner, err := NewRunner(eval, weights, quietLogger())
	require.NoError(t, err)

	agent := testutils.EchoAgent()
	result := runner.RunOne(context.Background(), agent, questions, testutils.Table())

	assert.Equal(t, 50.0, result.OverallWeightedScorePercent)
	assert.Equal(t, 2, judge.Calls())
}

func TestRunOne_TableContextReachesEvaluator(t *testing.T) {
	questions := testutils.Questions(1)
	judge := testutils.NewScriptedJudge()
	eval, err := evaluator.NewJudgeEvaluator(judge, evaluator.Config{})
	require.NoError(t, err)

	runner, err := NewRunner(eval, testutils.TestWeights, quietLogger())
	require.NoError(t, err)

	runner.RunOne(context.Background(), testutils.EchoAgent(), questions, testutils.Table(), WithTableContext())

	prompts := judge.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "Acme Renewal", "table rows must appear in the judge prompt")
}

func TestNewRunner_RejectsNilEvaluator(t *testing.T) {
	_, err := NewRunner(nil, testutils.TestWeights, nil)
	assert.Error(t, err)
}
