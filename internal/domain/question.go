// Package domain contains the core data model for the CRM agent benchmark:
// questions with expected-answer specifications, per-question and per-run
// results, category weighting, and the aggregation rules that reduce scores
// into weighted percentages. The package has no external dependencies beyond
// the standard library and performs no I/O.
package domain

// ExpectedAnswer is the ground truth a judge compares an agent's free-text
// response against. Only Main is required; the variant lists are advisory
// context for the judge and are never machine-checked.
type ExpectedAnswer struct {
	// Main is the canonical correct statement for the question.
	Main string `json:"main_answer"`

	// Acceptable lists paraphrases that should also score as correct.
	Acceptable []string `json:"acceptable_variants,omitempty"`

	// Wrong lists statements that should score as incorrect, giving the
	// judge explicit negative examples.
	Wrong []string `json:"wrong_variants,omitempty"`
}

// Question is a single benchmark question. Questions are immutable once
// loaded; identity is the ID field. A question set is an ordered sequence
// of Questions.
//
// ID uniqueness is not enforced by the loader: aggregation is keyed by
// Category, not ID, so duplicate IDs are benign, but producers of question
// sets should still avoid them for audit readability.
type Question struct {
	// ID uniquely identifies this question within a set.
	ID string `json:"question_id"`

	// Category groups questions for weighted scoring (e.g.
	// "pipeline_insights"). Categories absent from the weight table
	// contribute nothing to the weighted total.
	Category string `json:"category"`

	// Text is the question presented to the agent.
	Text string `json:"question_text"`

	// Answer is the expected-answer specification handed to the judge.
	Answer ExpectedAnswer `json:"correct_answer"`
}

// CategoryWeights maps a category name to its non-negative scoring weight.
// Categories absent from the mapping default to weight 0 and are therefore
// excluded from weighted totals while still being recorded per-question.
type CategoryWeights map[string]float64

// Weight returns the weight for category, or 0 if the category is unknown.
func (w CategoryWeights) Weight(category string) float64 {
	return w[category]
}
