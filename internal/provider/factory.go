package provider

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/visibility-cli/internal/config"
	"github.com/sells-group/visibility-cli/internal/cost"
)

// BuildRegistry constructs adapters for every enabled provider in cfg.
// Unknown provider names in config are logged and skipped.
func BuildRegistry(ctx context.Context, cfgs map[string]config.ProviderConfig, calc *cost.Calculator) (*Registry, error) {
	reg := NewRegistry()
	for name, pc := range cfgs {
		if !pc.Enabled {
			continue
		}
		switch name {
		case "openai":
			reg.Register(NewOpenAI(pc, calc))
		case "anthropic":
			reg.Register(NewAnthropic(pc, calc))
		case "perplexity":
			reg.Register(NewPerplexity(pc, calc))
		case "gemini":
			g, err := NewGemini(ctx, pc, calc)
			if err != nil {
				return nil, eris.Wrap(err, "provider: build gemini")
			}
			reg.Register(g)
		default:
			zap.L().Warn("unknown provider in config, skipping", zap.String("provider", name))
		}
	}
	return reg, nil
}
