package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GoogleDefaultModel is the Gemini model used when none is configured.
const GoogleDefaultModel = "gemini-2.0-flash-exp"

func init() {
	RegisterProviderFactory("google", newGoogleProvider)
}

// googleProvider implements CoreJudge against the Gemini API.
type googleProvider struct {
	client *genai.Client
	model  string
}

func newGoogleProvider(cfg Config) (CoreJudge, error) {
	if cfg.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	model := cfg.Model
	if model == "" {
		model = GoogleDefaultModel
	}

	clientConfig := &genai.ClientConfig{Backend: genai.BackendGeminiAPI}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if looksLikeCredentialsFile(cfg.APIKey) {
		if _, err := os.Stat(cfg.APIKey); err != nil {
			return nil, fmt.Errorf("credentials file not found: %s", cfg.APIKey)
		}
		clientConfig.Backend = genai.BackendVertexAI
	} else {
		clientConfig.APIKey = cfg.APIKey
	}

	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, fmt.Errorf("creating google client: %w", err)
	}

	return &googleProvider{client: client, model: model}, nil
}

// Ask sends the scoring prompt as user content. Gemini has no separate
// system role, so a configured system prompt is prepended to the user
// text.
func (p *googleProvider) Ask(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	options := parseOptions(opts, p.model)

	finalPrompt := prompt
	if options.system != "" {
		finalPrompt = fmt.Sprintf("System: %s\n\nUser: %s", options.system, prompt)
	}
	contents := []*genai.Content{
		genai.NewContentFromText(finalPrompt, genai.RoleUser),
	}

	genConfig := &genai.GenerateContentConfig{}
	if options.temperature != nil {
		genConfig.Temperature = genai.Ptr(float32(clampFloat(*options.temperature, 0.0, 2.0)))
	}
	if options.maxTokens > 0 {
		genConfig.MaxOutputTokens = int32(options.maxTokens)
	}

	resp, err := p.client.Models.GenerateContent(ctx, options.model, contents, genConfig)
	if err != nil {
		return "", 0, 0, p.wrapError(err)
	}

	content := resp.Text()
	if content == "" {
		return "", 0, 0, ErrEmptyResponse
	}

	tokensIn := EstimateTokens(finalPrompt)
	tokensOut := EstimateTokens(content)
	if usage := resp.UsageMetadata; usage != nil {
		if usage.PromptTokenCount > 0 {
			tokensIn = int(usage.PromptTokenCount)
		}
		if usage.CandidatesTokenCount > 0 {
			tokensOut = int(usage.CandidatesTokenCount)
		}
	}

	return content, tokensIn, tokensOut, nil
}

func (p *googleProvider) wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("google request aborted: %w", err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("google API error (status %d): %w", apiErr.Code, err)
	}

	return fmt.Errorf("google request failed: %w", err)
}

// Model implements CoreJudge.
func (p *googleProvider) Model() string { return p.model }

// looksLikeCredentialsFile distinguishes a service-account file path from
// a literal API key.
func looksLikeCredentialsFile(key string) bool {
	return strings.HasSuffix(key, ".json") ||
		strings.HasPrefix(key, "/") ||
		strings.HasPrefix(key, "./")
}
