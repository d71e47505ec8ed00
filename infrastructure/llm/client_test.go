package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// taggingMiddleware appends a tag to the prompt so chain order is visible
// in what the core receives.
func taggingMiddleware(tag string) Middleware {
	return func(next CoreJudge) CoreJudge {
		return &taggingJudge{next: next, tag: tag}
	}
}

type taggingJudge struct {
	next CoreJudge
	tag  string
}

func (j *taggingJudge) Ask(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	return j.next.Ask(ctx, prompt+" "+j.tag, opts)
}

func (j *taggingJudge) Model() string { return j.next.Model() }

func TestNewClient_UnknownProvider(t *testing.T) {
	_, err := NewClient("delphi", Config{APIKey: "k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown judge provider")
}

func TestNewClient_MissingAPIKey(t *testing.T) {
	_, err := NewClient("openai", Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config")
}

func TestNewClient_KnownProviders(t *testing.T) {
	for _, provider := range []string{"openai", "anthropic", "google"} {
		t.Run(provider, func(t *testing.T) {
			client, err := NewClient(provider, Config{APIKey: "test-key", Timeout: 5 * time.Second})
			require.NoError(t, err)
			assert.NotEmpty(t, client.Model(), "provider default model should apply")
		})
	}
}

func TestNewClient_CustomProviderFactory(t *testing.T) {
	mock := NewMockCoreJudge()
	RegisterProviderFactory("scripted", func(Config) (CoreJudge, error) {
		return mock, nil
	})

	client, err := NewClient("scripted", Config{APIKey: "ignored"})
	require.NoError(t, err)

	raw, err := client.Ask(context.Background(), "score this", nil)
	require.NoError(t, err)
	assert.Equal(t, "0.75", raw)
	assert.Equal(t, "test-judge", client.Model())
}

func TestWrap_AppliesMiddlewareOutermostFirst(t *testing.T) {
	mock := NewMockCoreJudge()
	client := Wrap(mock, taggingMiddleware("outer"), taggingMiddleware("inner"))

	_, err := client.Ask(context.Background(), "prompt", nil)
	require.NoError(t, err)

	// The first middleware runs first, so its tag lands before the
	// inner one's in the prompt the core sees.
	assert.Equal(t, "prompt outer inner", mock.LastPrompt)
}

func TestWrap_ChainCooperates(t *testing.T) {
	mock := NewMockCoreJudge()
	mock.FailUntilAttempt = 1
	client := Wrap(mock,
		TimeoutMiddleware(time.Second),
		RetryMiddleware(2, time.Millisecond, 100*time.Millisecond),
	)

	raw, err := client.Ask(context.Background(), "score this", nil)
	require.NoError(t, err)
	assert.Equal(t, "0.75", raw)
	assert.Equal(t, 2, mock.Calls())
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abc"))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 3, EstimateTokens("a ten-char"))
}
