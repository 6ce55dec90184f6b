package provider

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/sells-group/visibility-cli/internal/config"
	"github.com/sells-group/visibility-cli/internal/cost"
	"github.com/sells-group/visibility-cli/internal/model"
)

// OpenAI queries ChatGPT via the official SDK.
type OpenAI struct {
	base
	client openai.Client
}

// NewOpenAI creates the OpenAI adapter.
func NewOpenAI(cfg config.ProviderConfig, calc *cost.Calculator) *OpenAI {
	opts := []option.RequestOption{option.WithAPIKey(cfg.Key)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAI{
		base:   newBase("openai", cfg, calc),
		client: openai.NewClient(opts...),
	}
}

// ExecuteQuery implements Provider.
func (p *OpenAI) ExecuteQuery(ctx context.Context, query string, biz model.BusinessProfile) model.ProviderResponse {
	return p.execute(ctx, query, func(ctx context.Context) (completion, error) {
		resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: openai.ChatModel(p.cfg.Model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(SystemPrompt(biz)),
				openai.UserMessage(query),
			},
			Temperature: openai.Float(p.cfg.Temperature),
			MaxTokens:   openai.Int(int64(p.cfg.MaxTokens)),
		})
		if err != nil {
			return completion{}, Classify(p.name, openaiStatus(err), err)
		}
		if len(resp.Choices) == 0 {
			return completion{}, &PlatformError{Provider: p.name, Err: errors.New("empty choices")}
		}
		return completion{
			text:         resp.Choices[0].Message.Content,
			inputTokens:  int(resp.Usage.PromptTokens),
			outputTokens: int(resp.Usage.CompletionTokens),
		}, nil
	})
}

// HealthCheck implements Provider.
func (p *OpenAI) HealthCheck(ctx context.Context) error {
	if p.cfg.Key == "" {
		return &AuthenticationError{Provider: p.name}
	}
	_, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage("ping"),
		},
		MaxTokens: openai.Int(1),
	})
	if err != nil {
		return Classify(p.name, openaiStatus(err), err)
	}
	return nil
}

func openaiStatus(err error) int {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return apierr.StatusCode
	}
	return 0
}
