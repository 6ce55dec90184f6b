package provider

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"github.com/sells-group/visibility-cli/internal/config"
	"github.com/sells-group/visibility-cli/internal/cost"
	"github.com/sells-group/visibility-cli/internal/model"
)

// Gemini queries Google Gemini via the genai SDK.
type Gemini struct {
	base
	client *genai.Client
}

// NewGemini creates the Gemini adapter. Client construction only fails on
// malformed configuration, not on a missing key; the key is validated per
// call like every other adapter.
func NewGemini(ctx context.Context, cfg config.ProviderConfig, calc *cost.Calculator) (*Gemini, error) {
	g := &Gemini{base: newBase("gemini", cfg, calc)}
	if cfg.Key == "" {
		return g, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	g.client = client
	return g, nil
}

// ExecuteQuery implements Provider.
func (p *Gemini) ExecuteQuery(ctx context.Context, query string, biz model.BusinessProfile) model.ProviderResponse {
	return p.execute(ctx, query, func(ctx context.Context) (completion, error) {
		result, err := p.client.Models.GenerateContent(ctx, p.cfg.Model,
			genai.Text(query),
			&genai.GenerateContentConfig{
				SystemInstruction: genai.NewContentFromText(SystemPrompt(biz), genai.RoleUser),
				Temperature:       genai.Ptr(float32(p.cfg.Temperature)),
				MaxOutputTokens:   int32(p.cfg.MaxTokens),
			},
		)
		if err != nil {
			return completion{}, Classify(p.name, geminiStatus(err), err)
		}

		c := completion{text: result.Text()}
		if result.UsageMetadata != nil {
			c.inputTokens = int(result.UsageMetadata.PromptTokenCount)
			c.outputTokens = int(result.UsageMetadata.CandidatesTokenCount)
		}
		return c, nil
	})
}

// HealthCheck implements Provider.
func (p *Gemini) HealthCheck(ctx context.Context) error {
	if p.cfg.Key == "" || p.client == nil {
		return &AuthenticationError{Provider: p.name}
	}
	_, err := p.client.Models.GenerateContent(ctx, p.cfg.Model,
		genai.Text("ping"),
		&genai.GenerateContentConfig{MaxOutputTokens: 1},
	)
	if err != nil {
		return Classify(p.name, geminiStatus(err), err)
	}
	return nil
}

func geminiStatus(err error) int {
	var apierr genai.APIError
	if errors.As(err, &apierr) {
		return apierr.Code
	}
	return 0
}
