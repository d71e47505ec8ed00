package evaluator

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/ahrav/crmbench/internal/domain"
	"github.com/ahrav/crmbench/internal/ports"
)

var _ ports.Evaluator = (*Lexical)(nil)

// foldCaser is a package-level Unicode case folder; folding per call
// would allocate a caser each time.
var foldCaser = cases.Fold()

// Lexical scores responses by normalized Levenshtein similarity against
// the expected-answer variants, without any judge call. The response is
// compared case-folded against Main and every Acceptable variant; the
// best similarity wins. If a Wrong variant is closer than every correct
// variant, the score drops to 0.
//
// It honors the same fail-closed contract as the judge-backed evaluator
// and exists for offline smoke runs where no judge credentials are
// available. Deterministic and safe for concurrent use.
type Lexical struct{}

// NewLexical returns a lexical evaluator.
func NewLexical() *Lexical { return &Lexical{} }

// Evaluate implements ports.Evaluator. The table context is ignored;
// lexical scoring only looks at the response text.
func (l *Lexical) Evaluate(_ context.Context, agentResponse string, expected domain.ExpectedAnswer, _ string) (float64, string) {
	response := foldCaser.String(agentResponse)

	best := similarity(response, foldCaser.String(expected.Main))
	bestVariant := expected.Main
	for _, variant := range expected.Acceptable {
		if s := similarity(response, foldCaser.String(variant)); s > best {
			best = s
			bestVariant = variant
		}
	}

	for _, variant := range expected.Wrong {
		if similarity(response, foldCaser.String(variant)) > best {
			return 0.0, fmt.Sprintf("lexical: response nearest to wrong variant %q", variant)
		}
	}

	score := roundTo(best, DefaultDecimalPlaces)
	return score, fmt.Sprintf("lexical: similarity %.2f to %q", best, bestVariant)
}

// similarity is 1 minus the rune-normalized Levenshtein distance. Two
// empty strings are identical.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(a, b)

	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}

	s := 1.0 - float64(distance)/float64(maxLen)
	if s < 0 {
		s = 0
	}
	return s
}
