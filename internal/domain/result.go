package domain

import "time"

// QuestionResult captures the outcome of scoring one question within a run.
// Results are write-once: the orchestrator that created a QuestionResult
// owns it exclusively until it is handed to aggregation, and nothing
// mutates it afterwards.
type QuestionResult struct {
	// QuestionID echoes the ID of the question that was asked.
	QuestionID string `json:"question_id"`

	// Category echoes the question's scoring category.
	Category string `json:"category"`

	// QuestionText echoes the question for audit readability.
	QuestionText string `json:"question_text"`

	// AgentResponse is the agent's raw answer text. Empty when the agent
	// call itself failed.
	AgentResponse string `json:"agent_response"`

	// Score is the judge's correctness score in [0, 1]. Failures of any
	// kind (agent crash, judge unreachable, unparseable judgment) are
	// fail-closed to 0.
	Score float64 `json:"score"`

	// EvaluationDebug is the audit string explaining how Score was
	// produced, including the verbatim judge output on parse failures.
	EvaluationDebug string `json:"evaluation_debug"`

	// TimeTaken is the wall time of the agent call for this question.
	TimeTaken time.Duration `json:"time_taken"`
}

// RunResult is the scored outcome of one run unit: a (question set, data
// table) pairing. The Percent suffix on the score field fixes its scale by
// name; scores in [0, 1] live only on QuestionResult. Nothing in the
// harness ever infers a score's scale from its numeric range.
type RunResult struct {
	// ID uniquely identifies this run (a UUID assigned by the
	// orchestrator).
	ID string `json:"id"`

	// OverallWeightedScorePercent is the category-weighted score for the
	// run, in [0, 100].
	OverallWeightedScorePercent float64 `json:"overall_weighted_score_percent"`

	// TotalTime is the cumulative wall time of all agent calls.
	TotalTime time.Duration `json:"total_time"`

	// QuestionDetails holds one result per question, in question-set
	// order. Empty when the run itself failed before any question could
	// be asked.
	QuestionDetails []QuestionResult `json:"question_details"`

	// Err records a run-level failure (data table unreadable, malformed
	// question set, ...). A failed run has Err set, a zero percent, and
	// no question details; "every question scored zero" is the distinct
	// state of a populated QuestionDetails with all scores 0.
	Err string `json:"error,omitempty"`
}

// Failed reports whether this run was absorbed as a run-level failure
// rather than scored question by question.
func (r RunResult) Failed() bool { return r.Err != "" }

// TaggedResult pairs a RunResult with the dataset tag (e.g. "D1") of the
// unit that produced it. Tags are assigned by the caller from file-naming
// conventions, never derived from question content.
type TaggedResult struct {
	Tag    string    `json:"tag"`
	Result RunResult `json:"result"`
}

// BatchSummary is the reduction of many runs into dataset-grouped and
// global averages, retaining every individual RunResult as the audit trail.
type BatchSummary struct {
	// OverallAverage is the arithmetic mean of every individual run's
	// weighted percentage, in [0, 100]. Exactly 0 when the batch
	// produced no runs; callers distinguish that state by an empty
	// IndividualResults, not by the zero.
	OverallAverage float64 `json:"overall_average"`

	// DatasetAverages maps each dataset tag to the mean percentage of
	// its runs. Tags with no runs are absent from the map.
	DatasetAverages map[string]float64 `json:"dataset_averages"`

	// IndividualResults lists every run in the batch in input order,
	// failed runs included.
	IndividualResults []RunResult `json:"individual_results"`
}
