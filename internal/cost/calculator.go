// Package cost estimates per-call spend for each assistant platform.
package cost

// ModelRate holds per-model token pricing in USD per million tokens.
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// Rates maps provider name to its per-model pricing table.
type Rates map[string]map[string]ModelRate

// Calculator computes estimated USD costs for provider API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Estimate computes the cost of one call. Unknown provider/model pairs
// cost zero so a pricing gap never fails a report run.
func (c *Calculator) Estimate(provider, model string, inputTokens, outputTokens int) float64 {
	models, ok := c.rates[provider]
	if !ok {
		return 0
	}
	rate, ok := models[model]
	if !ok {
		return 0
	}
	return (float64(inputTokens)/1e6)*rate.Input + (float64(outputTokens)/1e6)*rate.Output
}

// DefaultRates returns the built-in pricing table. Config overrides merge
// on top of these.
func DefaultRates() Rates {
	return Rates{
		"openai": {
			"gpt-4o-mini": {Input: 0.15, Output: 0.60},
			"gpt-4o":      {Input: 2.50, Output: 10.00},
		},
		"anthropic": {
			"claude-haiku-4-5-20251001":  {Input: 0.80, Output: 4.00},
			"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
		},
		"gemini": {
			"gemini-2.0-flash": {Input: 0.10, Output: 0.40},
			"gemini-2.5-pro":   {Input: 1.25, Output: 10.00},
		},
		"perplexity": {
			"sonar":     {Input: 1.00, Output: 1.00},
			"sonar-pro": {Input: 3.00, Output: 15.00},
		},
	}
}
