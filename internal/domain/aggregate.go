package domain

import "math"

// WeightedPercent reduces per-question scores to a single category-weighted
// percentage in [0, 100] using a direct per-question weighted sum:
//
//	percent = 100 * Σ(score_i * weight(category_i)) / Σ weight(category_i)
//
// Questions in zero-weight or unknown categories contribute to neither sum.
// This is the canonical aggregation rule for the harness; the alternative
// per-category-average-then-weight formula diverges whenever categories
// hold uneven question counts and is deliberately not used.
//
// A zero denominator (no question in a positive-weight category, or an
// empty result list) yields exactly 0.0, never NaN or Inf. Non-finite
// scores are skipped for the same reason. The result is
// rounded to two decimals to match the judge's score precision.
func WeightedPercent(results []QuestionResult, weights CategoryWeights) float64 {
	var weightedSum, totalWeight float64

	for _, r := range results {
		w := weights.Weight(r.Category)
		if w <= 0 || math.IsNaN(r.Score) || math.IsInf(r.Score, 0) {
			continue
		}
		weightedSum += r.Score * w
		totalWeight += w
	}

	if totalWeight == 0 {
		return 0.0
	}

	return round2(weightedSum / totalWeight * 100)
}

// BatchAverages reduces tagged run results into a BatchSummary.
//
// Per-tag averages are arithmetic means of the run percentages grouped
// under each tag; tags with zero runs are simply absent from the map. The
// overall average is the mean over all individual runs, not over the
// per-tag averages, so datasets with more runs weigh proportionally more.
//
// Zero input runs produce OverallAverage 0.0, an empty tag map, and empty
// IndividualResults; callers must treat that as "no valid runs", not as a
// score.
func BatchAverages(tagged []TaggedResult) BatchSummary {
	summary := BatchSummary{
		DatasetAverages:   make(map[string]float64, len(tagged)),
		IndividualResults: make([]RunResult, 0, len(tagged)),
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	var total float64

	for _, tr := range tagged {
		pct := tr.Result.OverallWeightedScorePercent
		summary.IndividualResults = append(summary.IndividualResults, tr.Result)
		total += pct
		if tr.Tag != "" {
			sums[tr.Tag] += pct
			counts[tr.Tag]++
		}
	}

	for tag, sum := range sums {
		summary.DatasetAverages[tag] = round2(sum / float64(counts[tag]))
	}

	if n := len(tagged); n > 0 {
		summary.OverallAverage = round2(total / float64(n))
	}

	return summary
}

// round2 rounds to two decimal places, the precision the judge contract
// fixes for scores.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
