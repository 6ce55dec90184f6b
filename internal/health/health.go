// Package health runs availability probes against every configured
// assistant platform for operator diagnostics.
package health

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/visibility-cli/internal/model"
	"github.com/sells-group/visibility-cli/internal/provider"
)

// DefaultTimeout bounds each provider's probe.
const DefaultTimeout = 15 * time.Second

// Check probes every registered provider concurrently and returns one
// status per provider in name order. A probe failure is reported in the
// status, never as an error from Check itself.
func Check(ctx context.Context, reg *provider.Registry) []model.HealthStatus {
	providers := reg.All()
	statuses := make([]model.HealthStatus, len(providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range providers {
		g.Go(func() error {
			probeCtx, cancel := context.WithTimeout(gctx, DefaultTimeout)
			defer cancel()

			start := time.Now()
			err := p.HealthCheck(probeCtx)
			st := model.HealthStatus{
				Provider:  p.Name(),
				Available: err == nil,
				Latency:   time.Since(start),
			}
			if err != nil {
				st.Error = err.Error()
				zap.L().Warn("provider health check failed",
					zap.String("provider", p.Name()),
					zap.Duration("latency", st.Latency),
					zap.Error(err),
				)
			}
			statuses[i] = st
			return nil
		})
	}
	_ = g.Wait() // probes never return errors; failures live on the statuses
	return statuses
}
