package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy for the benchmark harness. Errors local to one question or
// one run are always absorbed at the smallest enclosing boundary and
// converted to a zero score plus an audit string; they never bubble past
// the batch runner. The only errors allowed to reach a top-level caller are
// configuration errors detected before any run starts.
var (
	// ErrMalformedQuestionSet indicates a question-set source that does
	// not parse into the expected shape. Fatal to the run that needed it,
	// absorbed as a failed RunResult at the batch boundary.
	ErrMalformedQuestionSet = errors.New("malformed question set")

	// ErrJudgeUnreachable indicates the judge call itself failed
	// (network, timeout, auth). Absorbed inside the evaluator; exported
	// so debug strings can be classified in audits.
	ErrJudgeUnreachable = errors.New("judge unreachable")

	// ErrJudgeParse indicates the judge returned output that does not
	// parse as a single decimal score. Absorbed inside the evaluator.
	ErrJudgeParse = errors.New("judge output not parseable as score")

	// ErrAgentInvocation indicates the caller-supplied agent function
	// failed. Absorbed at the per-question boundary.
	ErrAgentInvocation = errors.New("agent invocation failed")

	// ErrRunExecution indicates an uncaught failure within a single run
	// unit (I/O failure loading its table, etc.). Absorbed at the batch
	// boundary.
	ErrRunExecution = errors.New("run execution failed")

	// ErrSubmission indicates a leaderboard submission that failed after
	// retries or returned a non-success status. Surfaced as a structured
	// result, never as a panic that loses computed scores.
	ErrSubmission = errors.New("score submission failed")

	// ErrNoRuns indicates a batch that produced zero runs; an empty
	// batch must never be mistaken for a legitimate 0 score.
	ErrNoRuns = errors.New("no valid runs")

	// ErrConfigMismatch indicates a can't-possibly-proceed configuration
	// error (mismatched path-list lengths, zero workers). This is the
	// one error class that propagates out of a batch call, raised before
	// any run starts.
	ErrConfigMismatch = errors.New("invalid batch configuration")
)

// RunError wraps a run-level failure with the unit's dataset tag and input
// index so batch audit trails can name the exact unit that failed.
type RunError struct {
	// Index is the unit's position in the original input list.
	Index int

	// Tag is the unit's dataset tag, if any.
	Tag string

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *RunError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("run %d (%s): %v", e.Index, e.Tag, e.Err)
	}
	return fmt.Sprintf("run %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying error for errors.Is / errors.As matching.
func (e *RunError) Unwrap() error { return e.Err }

// NewRunError creates a RunError for the unit at the given input index.
func NewRunError(index int, tag string, err error) *RunError {
	return &RunError{Index: index, Tag: tag, Err: err}
}
