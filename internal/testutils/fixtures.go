package testutils

import (
	"fmt"

	"github.com/ahrav/crmbench/internal/dataset"
	"github.com/ahrav/crmbench/internal/domain"
)

// Weights used across package tests; mirrors the shipped CRM defaults.
var TestWeights = domain.CategoryWeights{
	"pipeline_insights":       0.75,
	"email_analysis":          0.75,
	"general_sales_knowledge": 0.50,
	"employee_performance":    0.25,
}

// Questions returns n fixture questions cycling through the CRM
// categories, each with a distinct main answer plus acceptable and wrong
// variants.
func Questions(n int) []domain.Question {
	categories := []string{
		"pipeline_insights",
		"email_analysis",
		"general_sales_knowledge",
		"employee_performance",
	}

	questions := make([]domain.Question, n)
	for i := range questions {
		questions[i] = domain.Question{
			ID:       fmt.Sprintf("q%d", i+1),
			Category: categories[i%len(categories)],
			Text:     fmt.Sprintf("Fixture question %d?", i+1),
			Answer: domain.ExpectedAnswer{
				Main:       fmt.Sprintf("Answer %d", i+1),
				Acceptable: []string{fmt.Sprintf("answer %d", i+1)},
				Wrong:      []string{"Everything is closed-lost."},
			},
		}
	}
	return questions
}

// Table returns a small in-memory deals table for agent fixtures.
func Table() *dataset.Table {
	return &dataset.Table{
		Header: []string{"DealName", "Stage", "Amount", "OwnerID"},
		Rows: [][]string{
			{"Acme Renewal", "Negotiation", "42000", "EMP000001"},
			{"Globex Expansion", "Closed Won", "98000", "EMP000002"},
			{"Initech Pilot", "Prospecting", "15000", "EMP000001"},
		},
	}
}

// AnswersFor maps each fixture question's text to its main answer so an
// AnsweringAgent scores perfectly against a cooperative judge.
func AnswersFor(questions []domain.Question) map[string]string {
	answers := make(map[string]string, len(questions))
	for _, q := range questions {
		answers[q.Text] = q.Answer.Main
	}
	return answers
}
