package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIDefaultModel is the judge model used when none is configured; the
// reasoning-tier models give the most stable numeric scoring.
const OpenAIDefaultModel = "o3-mini"

func init() {
	RegisterProviderFactory("openai", newOpenAIProvider)
}

// openAIProvider implements CoreJudge against OpenAI's chat completions
// API.
type openAIProvider struct {
	client *openai.Client
	model  string
}

func newOpenAIProvider(cfg Config) (CoreJudge, error) {
	if cfg.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	model := cfg.Model
	if model == "" {
		model = OpenAIDefaultModel
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &openAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Ask sends the scoring prompt as a single user message, with an optional
// system message when the caller set one.
func (p *openAIProvider) Ask(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	options := parseOptions(opts, p.model)

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if options.system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: options.system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	req := openai.ChatCompletionRequest{
		Model:     options.model,
		Messages:  messages,
		MaxTokens: options.maxTokens,
	}
	if options.temperature != nil {
		req.Temperature = float32(clampFloat(*options.temperature, 0.0, 2.0))
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", 0, 0, p.wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", 0, 0, ErrEmptyResponse
	}

	content := resp.Choices[0].Message.Content
	tokensIn := tokenCount(resp.Usage.PromptTokens, prompt)
	tokensOut := tokenCount(resp.Usage.CompletionTokens, content)

	return content, tokensIn, tokensOut, nil
}

func (p *openAIProvider) wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("openai request aborted: %w", err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("openai API error (status %d): %w", apiErr.HTTPStatusCode, err)
	}

	return fmt.Errorf("openai request failed: %w", err)
}

// Model implements CoreJudge.
func (p *openAIProvider) Model() string { return p.model }

// tokenCount prefers the count reported by the API and falls back to
// estimation when usage data is absent.
func tokenCount(reported int, text string) int {
	if reported > 0 {
		return reported
	}
	return EstimateTokens(text)
}
