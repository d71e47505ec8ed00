package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightedPercent(t *testing.T) {
	tests := []struct {
		name    string
		results []QuestionResult
		weights CategoryWeights
		want    float64
	}{
		{
			name: "zero weight category fully excluded",
			results: []QuestionResult{
				{Category: "A", Score: 1.0},
				{Category: "B", Score: 1.0},
			},
			weights: CategoryWeights{"A": 1.0, "B": 0.0},
			want:    100.0,
		},
		{
			name:    "empty results yield zero, not NaN",
			results: nil,
			weights: CategoryWeights{"A": 1.0},
			want:    0.0,
		},
		{
			name: "unknown category contributes nothing",
			results: []QuestionResult{
				{Category: "known", Score: 0.5},
				{Category: "unknown", Score: 1.0},
			},
			weights: CategoryWeights{"known": 1.0},
			want:    50.0,
		},
		{
			name: "all categories zero weight yields zero",
			results: []QuestionResult{
				{Category: "A", Score: 1.0},
				{Category: "B", Score: 1.0},
			},
			weights: CategoryWeights{},
			want:    0.0,
		},
		{
			name: "uneven weights",
			results: []QuestionResult{
				{Category: "pipeline_insights", Score: 1.0},
				{Category: "employee_performance", Score: 0.0},
			},
			weights: CategoryWeights{
				"pipeline_insights":    0.75,
				"employee_performance": 0.25,
			},
			want: 75.0,
		},
		{
			name: "equal weights average the scores",
			results: []QuestionResult{
				{Category: "cat1", Score: 1.0},
				{Category: "cat2", Score: 0.0},
			},
			weights: CategoryWeights{"cat1": 1.0, "cat2": 1.0},
			want:    50.0,
		},
		{
			name: "result rounded to two decimals",
			results: []QuestionResult{
				{Category: "A", Score: 1.0},
				{Category: "A", Score: 0.0},
				{Category: "A", Score: 0.0},
			},
			weights: CategoryWeights{"A": 1.0},
			want:    33.33,
		},
		{
			name: "non-finite scores are skipped",
			results: []QuestionResult{
				{Category: "A", Score: math.NaN()},
				{Category: "A", Score: 1.0},
			},
			weights: CategoryWeights{"A": 1.0},
			want:    100.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeightedPercent(tt.results, tt.weights)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.False(t, math.IsNaN(got), "weighted percent must never be NaN")
			assert.False(t, math.IsInf(got, 0), "weighted percent must never be Inf")
		})
	}
}

// Per-question weighted sum, not per-category averaging: with category A
// holding two questions and B one, the two formulas diverge, and the direct
// weighted sum is the documented canonical rule.
func TestWeightedPercentUsesDirectWeightedSum(t *testing.T) {
	results := []QuestionResult{
		{Category: "A", Score: 1.0},
		{Category: "A", Score: 0.0},
		{Category: "B", Score: 1.0},
	}
	weights := CategoryWeights{"A": 1.0, "B": 1.0}

	// Direct weighted sum: (1 + 0 + 1) / 3 = 66.67.
	// Per-category averaging would give (0.5 + 1.0) / 2 = 75.
	assert.InDelta(t, 66.67, WeightedPercent(results, weights), 1e-9)
}

func TestBatchAverages(t *testing.T) {
	run := func(pct float64) RunResult {
		return RunResult{OverallWeightedScorePercent: pct}
	}

	t.Run("groups by tag and averages per dataset", func(t *testing.T) {
		summary := BatchAverages([]TaggedResult{
			{Tag: "D1", Result: run(80)},
			{Tag: "D1", Result: run(60)},
			{Tag: "D2", Result: run(100)},
		})

		require.Len(t, summary.IndividualResults, 3)
		assert.InDelta(t, 70.0, summary.DatasetAverages["D1"], 1e-9)
		assert.InDelta(t, 100.0, summary.DatasetAverages["D2"], 1e-9)
		// Overall mean is over individual runs, not per-tag averages:
		// (80+60+100)/3, not (70+100)/2.
		assert.InDelta(t, 80.0, summary.OverallAverage, 1e-9)
	})

	t.Run("empty tags absent from the map", func(t *testing.T) {
		summary := BatchAverages([]TaggedResult{{Tag: "D3", Result: run(50)}})
		_, ok := summary.DatasetAverages["D1"]
		assert.False(t, ok)
	})

	t.Run("zero runs is a distinguishable empty summary", func(t *testing.T) {
		summary := BatchAverages(nil)
		assert.Zero(t, summary.OverallAverage)
		assert.Empty(t, summary.DatasetAverages)
		assert.Empty(t, summary.IndividualResults)
	})

	t.Run("failed runs stay in the audit trail", func(t *testing.T) {
		failed := RunResult{Err: "run execution failed: no such file"}
		summary := BatchAverages([]TaggedResult{
			{Tag: "D1", Result: run(100)},
			{Tag: "D1", Result: failed},
		})

		require.Len(t, summary.IndividualResults, 2)
		assert.True(t, summary.IndividualResults[1].Failed())
		assert.InDelta(t, 50.0, summary.DatasetAverages["D1"], 1e-9)
	})
}

func TestRunResultFailed(t *testing.T) {
	assert.False(t, RunResult{}.Failed())
	assert.True(t, RunResult{Err: "boom"}.Failed())
}

func TestCategoryWeightsWeight(t *testing.T) {
	w := CategoryWeights{"email_analysis": 0.75}
	assert.Equal(t, 0.75, w.Weight("email_analysis"))
	assert.Zero(t, w.Weight("never_configured"))
}
