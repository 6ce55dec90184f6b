// Package provider defines the adapter interface for assistant platforms and
// the shared execution path every adapter runs through: local rate limiting,
// per-call timeout, error classification, latency and cost accounting.
package provider

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/visibility-cli/internal/analyzer"
	"github.com/sells-group/visibility-cli/internal/config"
	"github.com/sells-group/visibility-cli/internal/cost"
	"github.com/sells-group/visibility-cli/internal/model"
	"github.com/sells-group/visibility-cli/internal/ratelimit"
)

// Provider is one assistant platform the pipeline queries.
type Provider interface {
	// Name returns the provider identifier used in config, scores and storage.
	Name() string
	// ExecuteQuery submits one query and returns the normalized envelope.
	// Failures are recorded on the response, never returned as an error.
	ExecuteQuery(ctx context.Context, query string, biz model.BusinessProfile) model.ProviderResponse
	// ParseResponse derives structured signals from a raw answer.
	ParseResponse(raw, businessName string) model.Analysis
	// HealthCheck verifies the platform is reachable with the configured key.
	HealthCheck(ctx context.Context) error
}

// Registry manages the configured providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the registry.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get returns a provider by name, or nil if not found.
func (r *Registry) Get(name string) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[name]
}

// List returns all registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the registered providers in name order.
func (r *Registry) All() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Provider, 0, len(names))
	for _, n := range names {
		out = append(out, r.providers[n])
	}
	return out
}

// SystemPrompt instructs the remote model to produce a ranked, extractable
// recommendation list for the business's category and location.
func SystemPrompt(biz model.BusinessProfile) string {
	return fmt.Sprintf(
		"You are a knowledgeable local guide. When asked about %s options in %s, "+
			"recommend specific businesses as a ranked, numbered list with a short "+
			"reason for each. Mention notable competitors and anything a listed "+
			"business is missing compared to the others.",
		biz.Category, biz.Location,
	)
}

// completion is the transport result one adapter call produces.
type completion struct {
	text         string
	inputTokens  int
	outputTokens int
}

// base carries the behavior common to every adapter.
type base struct {
	name    string
	cfg     config.ProviderConfig
	limiter *ratelimit.Limiter
	calc    *cost.Calculator
}

func newBase(name string, cfg config.ProviderConfig, calc *cost.Calculator) base {
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 20
	}
	window := time.Duration(cfg.RateWindowMin) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	return base{
		name:    name,
		cfg:     cfg,
		limiter: ratelimit.New(name, limit, window),
		calc:    calc,
	}
}

func (b *base) Name() string { return b.name }

// ParseResponse applies the shared heuristics.
func (b *base) ParseResponse(raw, businessName string) model.Analysis {
	return analyzer.Analyze(raw, businessName)
}

// Limiter exposes the adapter's rate limiter for tests.
func (b *base) Limiter() *ratelimit.Limiter { return b.limiter }

// execute runs the shared call path around a transport function. The
// returned response always carries latency, and token/cost figures for
// whatever the transport reported before failing.
func (b *base) execute(ctx context.Context, query string, call func(ctx context.Context) (completion, error)) model.ProviderResponse {
	resp := model.ProviderResponse{
		Provider: b.name,
		Query:    query,
	}
	start := time.Now()
	finish := func() {
		resp.Latency = time.Since(start)
	}

	if b.cfg.Key == "" {
		resp.Error = (&AuthenticationError{Provider: b.name}).Error()
		finish()
		return resp
	}

	if err := b.limiter.Acquire(ctx); err != nil {
		resp.Error = Classify(b.name, 0, err).Error()
		finish()
		return resp
	}

	callCtx, cancel := context.WithTimeout(ctx, b.cfg.Timeout())
	defer cancel()

	result, err := call(callCtx)
	finish()

	resp.TokensUsed = result.inputTokens + result.outputTokens
	resp.CostUSD = b.calc.Estimate(b.name, b.cfg.Model, result.inputTokens, result.outputTokens)

	if err != nil {
		classified := err
		if !isClassified(err) {
			classified = Classify(b.name, 0, err)
		}
		resp.Error = classified.Error()
		resp.Retryable = IsRetryable(classified)
		zap.L().Warn("provider query failed",
			zap.String("provider", b.name),
			zap.String("query", query),
			zap.Duration("latency", resp.Latency),
			zap.Error(classified),
		)
		return resp
	}

	resp.RawAnswer = result.text
	return resp
}

func isClassified(err error) bool {
	switch err.(type) {
	case *AuthenticationError, *RateLimitError, *PlatformError, *TimeoutError:
		return true
	}
	return false
}
