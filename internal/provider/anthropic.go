package provider

import (
	"context"
	"errors"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/sells-group/visibility-cli/internal/config"
	"github.com/sells-group/visibility-cli/internal/cost"
	"github.com/sells-group/visibility-cli/internal/model"
)

// Anthropic queries Claude via the official SDK.
type Anthropic struct {
	base
	client sdk.Client
}

// NewAnthropic creates the Anthropic adapter.
func NewAnthropic(cfg config.ProviderConfig, calc *cost.Calculator) *Anthropic {
	opts := []option.RequestOption{option.WithAPIKey(cfg.Key)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Anthropic{
		base:   newBase("anthropic", cfg, calc),
		client: sdk.NewClient(opts...),
	}
}

// ExecuteQuery implements Provider.
func (p *Anthropic) ExecuteQuery(ctx context.Context, query string, biz model.BusinessProfile) model.ProviderResponse {
	return p.execute(ctx, query, func(ctx context.Context) (completion, error) {
		msg, err := p.client.Messages.New(ctx, sdk.MessageNewParams{
			Model:       sdk.Model(p.cfg.Model),
			MaxTokens:   int64(p.cfg.MaxTokens),
			System:      []sdk.TextBlockParam{{Text: SystemPrompt(biz)}},
			Messages:    []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(query))},
			Temperature: sdk.Float(p.cfg.Temperature),
		})
		if err != nil {
			return completion{}, Classify(p.name, anthropicStatus(err), err)
		}

		var sb strings.Builder
		for _, block := range msg.Content {
			sb.WriteString(block.Text)
		}
		return completion{
			text:         sb.String(),
			inputTokens:  int(msg.Usage.InputTokens),
			outputTokens: int(msg.Usage.OutputTokens),
		}, nil
	})
}

// HealthCheck implements Provider.
func (p *Anthropic) HealthCheck(ctx context.Context) error {
	if p.cfg.Key == "" {
		return &AuthenticationError{Provider: p.name}
	}
	_, err := p.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(p.cfg.Model),
		MaxTokens: 1,
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock("ping"))},
	})
	if err != nil {
		return Classify(p.name, anthropicStatus(err), err)
	}
	return nil
}

func anthropicStatus(err error) int {
	var apierr *sdk.Error
	if errors.As(err, &apierr) {
		return apierr.StatusCode
	}
	return 0
}
