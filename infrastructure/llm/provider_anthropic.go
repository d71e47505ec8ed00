package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicDefaultModel is the Claude model used when none is configured.
const AnthropicDefaultModel = "claude-3-5-sonnet-20241022"

func init() {
	RegisterProviderFactory("anthropic", newAnthropicProvider)
}

// anthropicProvider implements CoreJudge against Anthropic's Messages API.
type anthropicProvider struct {
	client anthropic.Client
	model  string
}

func newAnthropicProvider(cfg Config) (CoreJudge, error) {
	if cfg.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	model := cfg.Model
	if model == "" {
		model = AnthropicDefaultModel
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}

	return &anthropicProvider{
		client: anthropic.NewClient(opts...),
		model:  model,
	}, nil
}

// Ask sends the scoring prompt as a single user message. Anthropic carries
// the system prompt as a top-level parameter rather than a message role.
func (p *anthropicProvider) Ask(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	options := parseOptions(opts, p.model)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(options.model),
		MaxTokens: int64(options.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if options.temperature != nil {
		params.Temperature = anthropic.Float(clampFloat(*options.temperature, 0.0, 1.0))
	}
	if options.system != "" {
		params.System = []anthropic.TextBlockParam{{Text: options.system}}
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", 0, 0, p.wrapError(err)
	}

	var reply strings.Builder
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			reply.WriteString(text.Text)
		}
	}
	content := reply.String()
	if content == "" {
		return "", 0, 0, ErrEmptyResponse
	}

	tokensIn := tokenCount(int(message.Usage.InputTokens), prompt)
	tokensOut := tokenCount(int(message.Usage.OutputTokens), content)

	return content, tokensIn, tokensOut, nil
}

func (p *anthropicProvider) wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("anthropic request aborted: %w", err)
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("anthropic API error (status %d): %w", apiErr.StatusCode, err)
	}

	return fmt.Errorf("anthropic request failed: %w", err)
}

// Model implements CoreJudge.
func (p *anthropicProvider) Model() string { return p.model }
