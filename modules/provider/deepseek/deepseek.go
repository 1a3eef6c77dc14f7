// Package deepseek implements provider.Provider on top of the DeepSeek
// chat completions API, which is OpenAI-compatible.
package deepseek

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/solacelabs/solace/internal/provider"
)

const (
	defaultBaseURL = "https://api.deepseek.com"
	defaultModel   = "deepseek-chat"
	defaultTimeout = 60 * time.Second
)

// Config configures the DeepSeek client.
type Config struct {
	APIKey string

	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string

	// Model is the model identifier sent with each request.
	Model string

	// Timeout bounds a single completion call.
	Timeout time.Duration
}

// withDefaults returns a copy of cfg with zero-valued fields filled in.
func (cfg Config) withDefaults() Config {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return cfg
}

// Provider calls the DeepSeek API.
type Provider struct {
	client openai.Client
	config Config
}

// New creates a DeepSeek provider.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("deepseek: API key is required")
	}
	cfg = cfg.withDefaults()

	// Interactive calls fail fast; retry policy belongs to the caller.
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(0),
	)
	return &Provider{client: client, config: cfg}, nil
}

// Compile-time interface check.
var _ provider.Provider = (*Provider)(nil)

// ModelName returns the configured model identifier.
func (p *Provider) ModelName() string {
	return p.config.Model
}

// Complete sends a chat completion request.
//
// Transport and server failures are classified into the provider error
// taxonomy. A well-formed response with empty text is returned as-is; the
// caller decides how to handle it.
func (p *Provider) Complete(ctx context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	params := openai.ChatCompletionNewParams{
		Model:    p.config.Model,
		Messages: toParamMessages(req.Messages),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return provider.CompletionResponse{}, classify(err)
	}

	if len(completion.Choices) == 0 {
		return provider.CompletionResponse{}, fmt.Errorf("deepseek: response has no choices: %w", provider.ErrMalformedResponse)
	}

	return provider.CompletionResponse{
		Content: completion.Choices[0].Message.Content,
		Usage: provider.TokenUsage{
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:      int(completion.Usage.TotalTokens),
		},
	}, nil
}

// classify maps API and transport errors onto the provider error taxonomy.
func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("deepseek: %w: %w", provider.ErrRateLimit, err)
		case apiErr.StatusCode >= 500:
			return fmt.Errorf("deepseek: %w: %w", provider.ErrProviderDown, err)
		}
		return fmt.Errorf("deepseek: api error: %w", err)
	}
	// Timeouts, DNS failures, connection resets.
	return fmt.Errorf("deepseek: %w: %w", provider.ErrProviderDown, err)
}

func toParamMessages(messages []provider.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case provider.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case provider.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
