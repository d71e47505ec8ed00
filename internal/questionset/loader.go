// Package questionset loads benchmark question sets from their JSON source
// format: a sequence of records with question_id, category, question_text,
// and a correct_answer object holding the main statement plus optional
// acceptable/wrong paraphrase lists. Loading is a pure transform of
// external bytes into the domain model; shape violations surface as
// domain.ErrMalformedQuestionSet.
package questionset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ahrav/crmbench/internal/domain"
)

// questionSetSchema gates the source shape before decoding. Schema
// validation produces per-entry error messages that name the offending
// record, which plain json.Unmarshal type errors do not.
const questionSetSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["question_id", "category", "question_text", "correct_answer"],
    "properties": {
      "question_id": {"type": "string", "minLength": 1},
      "category": {"type": "string", "minLength": 1},
      "question_text": {"type": "string", "minLength": 1},
      "correct_answer": {
        "type": "object",
        "required": ["main_answer"],
        "properties": {
          "main_answer": {"type": "string", "minLength": 1},
          "acceptable_variants": {"type": "array", "items": {"type": "string"}},
          "wrong_variants": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

var schema = gojsonschema.NewSchemaLoader()

// compiledSchema is built once at package init; the schema literal is
// trusted input, so a compile failure is a programming error.
var compiledSchema = func() *gojsonschema.Schema {
	s, err := schema.Compile(gojsonschema.NewStringLoader(questionSetSchema))
	if err != nil {
		panic(fmt.Sprintf("questionset: invalid embedded schema: %v", err))
	}
	return s
}()

// Load parses a question set from r. The source must be a JSON array of
// question records matching the documented shape; any violation (missing
// required field, wrong type, not an array) returns an error wrapping
// domain.ErrMalformedQuestionSet that identifies the offending entry.
//
// Load does not enforce question_id uniqueness: scoring aggregates by
// category, not ID, so duplicate IDs are benign.
func Load(r io.Reader) ([]domain.Question, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading question set: %w", err)
	}

	result, err := compiledSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		// gojsonschema errors here on invalid JSON, not schema misses.
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedQuestionSet, err)
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return nil, fmt.Errorf("%w: %s: %s",
			domain.ErrMalformedQuestionSet, first.Field(), first.Description())
	}

	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedQuestionSet, err)
	}

	return questions, nil
}

// LoadFile loads a question set from a JSON file on disk.
func LoadFile(path string) ([]domain.Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening question set %s: %w", path, err)
	}
	defer f.Close()

	questions, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("question set %s: %w", path, err)
	}
	return questions, nil
}
