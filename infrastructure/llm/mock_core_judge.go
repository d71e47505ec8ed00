package llm

import (
	"context"
	"sync"
	"time"
)

// MockCoreJudge is a configurable CoreJudge for middleware tests. It
// records every call and can be scripted to fail, delay, or succeed.
type MockCoreJudge struct {
	mu sync.Mutex

	// Response configuration.
	Response      string
	TokensIn      int
	TokensOut     int
	Err           error
	ModelName     string
	ResponseDelay time.Duration

	// FailUntilAttempt makes the first N calls fail before succeeding.
	FailUntilAttempt int

	// Tracking.
	CallCount      int
	LastPrompt     string
	LastOpts       map[string]any
	CallTimestamps []time.Time
}

// NewMockCoreJudge returns a mock that answers "0.75" successfully.
func NewMockCoreJudge() *MockCoreJudge {
	return &MockCoreJudge{
		Response:  "0.75",
		TokensIn:  10,
		TokensOut: 2,
		ModelName: "test-judge",
	}
}

// Ask implements CoreJudge with the scripted behavior.
func (m *MockCoreJudge) Ask(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	m.mu.Lock()
	m.CallCount++
	call := m.CallCount
	m.LastPrompt = prompt
	m.LastOpts = opts
	m.CallTimestamps = append(m.CallTimestamps, time.Now())
	delay := m.ResponseDelay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", 0, 0, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailUntilAttempt > 0 && call <= m.FailUntilAttempt {
		if m.Err != nil {
			return "", 0, 0, m.Err
		}
		return "", 0, 0, errMockFailure
	}

	if m.Err != nil {
		return "", 0, 0, m.Err
	}
	return m.Response, m.TokensIn, m.TokensOut, nil
}

// Model implements CoreJudge.
func (m *MockCoreJudge) Model() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ModelName
}

// Calls returns the number of Ask invocations so far.
func (m *MockCoreJudge) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

type mockError string

func (e mockError) Error() string { return string(e) }

var errMockFailure = mockError("simulated judge failure")
