// Package evaluator scores agent answers against expected-answer variants.
// The primary implementation delegates judgment to an external model via
// ports.JudgeClient; a lexical fallback scores by edit distance for
// offline runs. Both honor the same fail-closed contract: every outcome
// is a score in [0, 1] plus a debug string, never an error.
package evaluator

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/template"

	"github.com/go-playground/validator/v10"

	"github.com/ahrav/crmbench/internal/domain"
	"github.com/ahrav/crmbench/internal/ports"
)

var _ ports.Evaluator = (*JudgeEvaluator)(nil)

// Default configuration applied when the zero Config is used.
const (
	// DefaultDecimalPlaces rounds parsed scores to two decimals.
	DefaultDecimalPlaces = 2
	// DefaultMaxTokens bounds the judge reply; the contract is a single
	// decimal number so this is generous headroom.
	DefaultMaxTokens = 256
	// DefaultTemperature keeps scoring deterministic.
	DefaultTemperature = 0.0
)

// systemPrompt frames the judge's role for providers with a system slot.
const systemPrompt = "You are a strict evaluator."

// scoringPrompt instructs the judge to reply with exactly one decimal in
// [0.00, 1.00]. The expected-answer variants and optional table context
// are embedded verbatim.
const scoringPrompt = `You are an evaluator. Read the question's correct-answer data, the
agent's response, and any relevant table data, then decide on a single
numeric score between 0.00 and 1.00 (inclusive). Output ONLY that float,
nothing else.

Scoring guidelines:
- 1.00 means the agent's answer is fully correct (or acceptable).
- 0.00 means the agent is completely incorrect or contradicts known facts.
- A value in between is allowed if partially correct.

Question's correct/acceptable/wrong data:
- MAIN correct statement: {{.Main}}
- ACCEPTABLE variants: {{.Acceptable}}
- WRONG variants: {{.Wrong}}

Agent's response:
{{.Response}}
{{if .Context}}
Table data (for context):
{{.Context}}
{{end}}
Return only the numeric score, e.g. 0.75.`

// Config holds the tunable parameters of a JudgeEvaluator.
type Config struct {
	// DecimalPlaces is the rounding precision applied to parsed scores.
	// Two matches the judge's requested output format; three is allowed
	// for finer-grained experiments.
	DecimalPlaces int `yaml:"decimal_places" json:"decimal_places" validate:"oneof=2 3"`

	// Temperature is forwarded to the judge. Zero keeps scoring
	// repeatable.
	Temperature float64 `yaml:"temperature" json:"temperature" validate:"min=0.0,max=2.0"`

	// MaxTokens bounds the judge reply length.
	MaxTokens int `yaml:"max_tokens" json:"max_tokens" validate:"min=1,max=2000"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		DecimalPlaces: DefaultDecimalPlaces,
		Temperature:   DefaultTemperature,
		MaxTokens:     DefaultMaxTokens,
	}
}

var validate = validator.New()

// JudgeEvaluator scores responses by asking an external judge model for a
// single decimal. It makes exactly one judge call per evaluation; retry
// policy belongs to the judge client's middleware, not here.
//
// The evaluator is stateless apart from its injected client and is safe
// for concurrent use.
type JudgeEvaluator struct {
	judge  ports.JudgeClient
	config Config
	prompt *template.Template
}

// promptData is the template input for one evaluation.
type promptData struct {
	Main       string
	Acceptable []string
	Wrong      []string
	Response   string
	Context    string
}

// NewJudgeEvaluator constructs an evaluator around the given judge
// client. A zero Config selects the defaults.
func NewJudgeEvaluator(judge ports.JudgeClient, config Config) (*JudgeEvaluator, error) {
	if judge == nil {
		return nil, fmt.Errorf("judge client must not be nil")
	}
	if config == (Config{}) {
		config = DefaultConfig()
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("evaluator config: %w", err)
	}

	tmpl, err := template.New("scoring_prompt").Parse(scoringPrompt)
	if err != nil {
		return nil, fmt.Errorf("compiling scoring prompt: %w", err)
	}

	return &JudgeEvaluator{judge: judge, config: config, prompt: tmpl}, nil
}

// Evaluate implements ports.Evaluator. It renders the scoring prompt,
// asks the judge once, and parses the reply as a decimal. Any failure
// (transport, template, parse) yields score 0 with a debug string naming
// the failure; the error never escapes.
func (e *JudgeEvaluator) Evaluate(ctx context.Context, agentResponse string, expected domain.ExpectedAnswer, contextData string) (float64, string) {
	var buf bytes.Buffer
	err := e.prompt.Execute(&buf, promptData{
		Main:       expected.Main,
		Acceptable: expected.Acceptable,
		Wrong:      expected.Wrong,
		Response:   agentResponse,
		Context:    contextData,
	})
	if err != nil {
		return 0.0, fmt.Sprintf("rendering scoring prompt failed: %v", err)
	}

	raw, err := e.judge.Ask(ctx, buf.String(), map[string]any{
		"system":      systemPrompt,
		"temperature": e.config.Temperature,
		"max_tokens":  e.config.MaxTokens,
	})
	if err != nil {
		return 0.0, fmt.Sprintf("%v: judge call failed: %v", domain.ErrJudgeUnreachable, err)
	}

	content := strings.TrimSpace(raw)
	score, err := strconv.ParseFloat(content, 64)
	if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		// ParseFloat accepts "NaN" and "Inf"; neither is a score.
		return 0.0, fmt.Sprintf("%v: failed to parse score from: %s", domain.ErrJudgeParse, content)
	}

	score = clamp(score, 0.0, 1.0)
	score = roundTo(score, e.config.DecimalPlaces)
	return score, fmt.Sprintf("judge %s scored %s", e.judge.Model(), formatScore(score, e.config.DecimalPlaces))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundTo(v float64, places int) float64 {
	shift := 1.0
	for i := 0; i < places; i++ {
		shift *= 10
	}
	return math.Round(v*shift) / shift
}

func formatScore(v float64, places int) string {
	return strconv.FormatFloat(v, 'f', places, 64)
}
