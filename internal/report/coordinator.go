// Package report turns generated queries into a finished visibility report:
// fan-out execution, scoring, competitor aggregation, gap and action
// generation, and final assembly.
package report

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/visibility-cli/internal/model"
	"github.com/sells-group/visibility-cli/internal/provider"
)

// QueryResult holds every provider's response and analysis for one query.
type QueryResult struct {
	Query     model.GeneratedQuery
	Responses map[string]model.ProviderResponse
	Analyses  map[string]model.Analysis // only for responses that succeeded
}

// Coordinator executes queries against all configured providers. Queries run
// sequentially with paced spacing; within one query, providers run
// concurrently, each already throttled by its own rate limiter.
type Coordinator struct {
	pacer *rate.Limiter
}

// NewCoordinator creates a coordinator with the given inter-query delay.
func NewCoordinator(interQueryDelay time.Duration) *Coordinator {
	if interQueryDelay <= 0 {
		return &Coordinator{pacer: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Coordinator{pacer: rate.NewLimiter(rate.Every(interQueryDelay), 1)}
}

// Execute runs every query against every provider. A provider failure is
// recorded as an error-flagged response and never aborts the query or the
// run. Results are returned in query order.
func (c *Coordinator) Execute(ctx context.Context, queries []model.GeneratedQuery, providers []provider.Provider, biz model.BusinessProfile) []QueryResult {
	log := zap.L().With(zap.String("component", "report.coordinator"))
	results := make([]QueryResult, 0, len(queries))

	for i, q := range queries {
		if err := c.pacer.Wait(ctx); err != nil {
			log.Warn("run cancelled between queries", zap.Int("query_index", i), zap.Error(err))
			break
		}

		qr := QueryResult{
			Query:     q,
			Responses: make(map[string]model.ProviderResponse, len(providers)),
			Analyses:  make(map[string]model.Analysis, len(providers)),
		}

		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		for _, p := range providers {
			g.Go(func() error {
				resp := p.ExecuteQuery(gctx, q.Text, biz)

				mu.Lock()
				defer mu.Unlock()
				qr.Responses[p.Name()] = resp
				if !resp.Failed() {
					qr.Analyses[p.Name()] = p.ParseResponse(resp.RawAnswer, biz.Name)
				}
				return nil
			})
		}
		_ = g.Wait() // goroutines never return errors; failures live on the responses

		failed := 0
		for _, r := range qr.Responses {
			if r.Failed() {
				failed++
			}
		}
		log.Debug("query executed",
			zap.Int("query_index", i),
			zap.String("query", q.Text),
			zap.Int("providers", len(providers)),
			zap.Int("failed", failed),
		)

		results = append(results, qr)
	}
	return results
}
