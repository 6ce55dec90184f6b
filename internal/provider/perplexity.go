package provider

import (
	"context"
	"errors"

	"github.com/sells-group/visibility-cli/internal/config"
	"github.com/sells-group/visibility-cli/internal/cost"
	"github.com/sells-group/visibility-cli/internal/model"
	"github.com/sells-group/visibility-cli/pkg/perplexity"
)

// Perplexity queries the Perplexity API through pkg/perplexity.
type Perplexity struct {
	base
	client perplexity.Client
}

// NewPerplexity creates the Perplexity adapter.
func NewPerplexity(cfg config.ProviderConfig, calc *cost.Calculator) *Perplexity {
	opts := []perplexity.Option{}
	if cfg.BaseURL != "" {
		opts = append(opts, perplexity.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Model != "" {
		opts = append(opts, perplexity.WithModel(cfg.Model))
	}
	return &Perplexity{
		base:   newBase("perplexity", cfg, calc),
		client: perplexity.NewClient(cfg.Key, opts...),
	}
}

// WithClient substitutes the API client, for tests.
func (p *Perplexity) WithClient(c perplexity.Client) *Perplexity {
	p.client = c
	return p
}

// ExecuteQuery implements Provider.
func (p *Perplexity) ExecuteQuery(ctx context.Context, query string, biz model.BusinessProfile) model.ProviderResponse {
	return p.execute(ctx, query, func(ctx context.Context) (completion, error) {
		temp := p.cfg.Temperature
		maxTokens := p.cfg.MaxTokens
		resp, err := p.client.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
			Model: p.cfg.Model,
			Messages: []perplexity.Message{
				{Role: "system", Content: SystemPrompt(biz)},
				{Role: "user", Content: query},
			},
			Temperature: &temp,
			MaxTokens:   &maxTokens,
		})
		if err != nil {
			return completion{}, Classify(p.name, perplexityStatus(err), err)
		}
		if len(resp.Choices) == 0 {
			return completion{}, &PlatformError{Provider: p.name, Err: errors.New("empty choices")}
		}
		return completion{
			text:         resp.Choices[0].Message.Content,
			inputTokens:  resp.Usage.PromptTokens,
			outputTokens: resp.Usage.CompletionTokens,
		}, nil
	})
}

// HealthCheck implements Provider.
func (p *Perplexity) HealthCheck(ctx context.Context) error {
	if p.cfg.Key == "" {
		return &AuthenticationError{Provider: p.name}
	}
	one := 1
	_, err := p.client.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Model:     p.cfg.Model,
		Messages:  []perplexity.Message{{Role: "user", Content: "ping"}},
		MaxTokens: &one,
	})
	if err != nil {
		return Classify(p.name, perplexityStatus(err), err)
	}
	return nil
}

func perplexityStatus(err error) int {
	var apierr *perplexity.APIError
	if errors.As(err, &apierr) {
		return apierr.StatusCode
	}
	return 0
}
