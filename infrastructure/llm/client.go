// Package llm implements the judge transport: provider-backed clients that
// carry a scoring prompt to an external text model and return its raw
// reply. Providers (OpenAI, Anthropic, Google) are abstracted behind the
// CoreJudge interface and composed with middleware for rate limiting,
// retries, timeouts, metrics, and tracing.
//
// The package takes no credentials from the environment and holds no
// package-level client: whoever assembles the pipeline constructs a client
// with explicit configuration and hands it to the evaluator.
//
// Basic usage:
//
//	client, err := llm.NewClient("openai", llm.Config{
//	    APIKey: cfg.JudgeAPIKey,
//	    Model:  "o3-mini",
//	})
//	raw, err := client.Ask(ctx, prompt, nil)
//
// With middleware:
//
//	client, err := llm.NewClient("anthropic", llm.Config{
//	    APIKey: cfg.JudgeAPIKey,
//	    Model:  "claude-3-5-sonnet-20241022",
//	    Middleware: []llm.Middleware{
//	        llm.RateLimitMiddleware(10, 20),
//	        llm.RetryMiddleware(3, time.Second, 30*time.Second),
//	    },
//	})
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ahrav/crmbench/internal/ports"
)

// CoreJudge is the minimal surface a judge provider must implement. The
// middleware chain wraps any conforming implementation.
type CoreJudge interface {
	// Ask sends one prompt to the judge backend and returns the raw
	// reply text plus input/output token counts (estimated when the
	// backend does not report usage).
	Ask(ctx context.Context, prompt string, opts map[string]any) (raw string, tokensIn, tokensOut int, err error)

	// Model returns the configured model identifier.
	Model() string
}

// Middleware wraps a CoreJudge to add cross-cutting behavior. Middleware
// composes; the first entry in Config.Middleware becomes the outermost
// layer.
type Middleware func(CoreJudge) CoreJudge

// Config holds everything needed to construct a judge client. Credentials
// are passed explicitly; nothing is read from ambient process state.
type Config struct {
	// APIKey authenticates against the provider. For the Google
	// provider this may instead be a path to a credentials file.
	APIKey string `validate:"required"`

	// Model names the judge model. Empty selects the provider default.
	Model string

	// BaseURL overrides the provider's default endpoint, for proxies
	// and test servers.
	BaseURL string

	// Timeout bounds each underlying HTTP request. Zero means the
	// provider default.
	Timeout time.Duration `validate:"min=0"`

	// Middleware is applied outermost-first around the provider.
	Middleware []Middleware
}

// client adapts a middleware-wrapped CoreJudge to ports.JudgeClient,
// discarding token usage for callers that only need the reply text.
type client struct {
	core CoreJudge
}

var validate = validator.New()

// NewClient constructs a judge client for the named provider ("openai",
// "anthropic", "google") with the middleware chain applied.
func NewClient(provider string, cfg Config) (ports.JudgeClient, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("judge client config: %w", err)
	}

	factory, ok := providerFactories[provider]
	if !ok {
		return nil, fmt.Errorf("unknown judge provider %q", provider)
	}

	core, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("judge provider %s: %w", provider, err)
	}

	// Reverse application so the first configured middleware ends up
	// outermost.
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		core = cfg.Middleware[i](core)
	}

	return &client{core: core}, nil
}

// Wrap builds a ports.JudgeClient directly from a CoreJudge, applying the
// given middleware. Used by tests and by callers that bring their own
// provider implementation.
func Wrap(core CoreJudge, middleware ...Middleware) ports.JudgeClient {
	for i := len(middleware) - 1; i >= 0; i-- {
		core = middleware[i](core)
	}
	return &client{core: core}
}

// Ask implements ports.JudgeClient.
func (c *client) Ask(ctx context.Context, prompt string, options map[string]any) (string, error) {
	raw, _, _, err := c.core.Ask(ctx, prompt, options)
	return raw, err
}

// Model implements ports.JudgeClient.
func (c *client) Model() string { return c.core.Model() }

// ProviderFactory builds a CoreJudge from configuration. Factories
// register themselves in init so provider selection stays a string lookup.
type ProviderFactory func(Config) (CoreJudge, error)

var providerFactories = map[string]ProviderFactory{}

// RegisterProviderFactory registers a custom judge provider under the
// given name, replacing any existing registration.
func RegisterProviderFactory(name string, factory ProviderFactory) {
	providerFactories[name] = factory
}

// EstimateTokens approximates a token count for text when the provider
// does not report usage. A 4-characters-per-token heuristic is close
// enough for the metrics this feeds.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}
