// Package testutils provides deterministic doubles for the benchmark
// pipeline: a scripted judge client, scripted agent functions, and
// question fixtures. Everything here is plain configuration, no live
// backends, so package tests stay fast and repeatable.
package testutils

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ahrav/crmbench/internal/ports"
)

// ScriptedJudge implements ports.JudgeClient with deterministic replies.
// Replies are chosen by substring match against the prompt, falling back
// to a default; a fixed error or per-call delay can be scripted in.
type ScriptedJudge struct {
	mu sync.Mutex

	// DefaultReply is returned when no pattern matches.
	DefaultReply string
	// Err, when set, is returned by every Ask call.
	Err error
	// Delay is slept (context-aware) before each reply.
	Delay time.Duration

	// replies maps prompt substrings to scripted outputs.
	replies map[string]string
	// Sequence, when non-empty, overrides pattern matching: calls
	// consume it in order, repeating the last entry once exhausted.
	Sequence []string

	calls   int
	prompts []string
}

// NewScriptedJudge returns a judge that answers "1.00" to everything.
func NewScriptedJudge() *ScriptedJudge {
	return &ScriptedJudge{
		DefaultReply: "1.00",
		replies:      make(map[string]string),
	}
}

// Reply scripts an output for prompts containing the given substring.
func (j *ScriptedJudge) Reply(promptContains, output string) *ScriptedJudge {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.replies[promptContains] = output
	return j
}

// Ask implements ports.JudgeClient.
func (j *ScriptedJudge) Ask(ctx context.Context, prompt string, _ map[string]any) (string, error) {
	j.mu.Lock()
	j.calls++
	call := j.calls
	j.prompts = append(j.prompts, prompt)
	delay := j.Delay
	j.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.Err != nil {
		return "", j.Err
	}

	if len(j.Sequence) > 0 {
		idx := call - 1
		if idx >= len(j.Sequence) {
			idx = len(j.Sequence) - 1
		}
		return j.Sequence[idx], nil
	}

	for pattern, output := range j.replies {
		if pattern != "" && strings.Contains(prompt, pattern) {
			return output, nil
		}
	}
	return j.DefaultReply, nil
}

// Model implements ports.JudgeClient.
func (j *ScriptedJudge) Model() string { return "scripted-judge" }

// Calls returns how many times Ask was invoked.
func (j *ScriptedJudge) Calls() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.calls
}

// Prompts returns a copy of every prompt received, in order.
func (j *ScriptedJudge) Prompts() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.prompts))
	copy(out, j.prompts)
	return out
}

var _ ports.JudgeClient = (*ScriptedJudge)(nil)
