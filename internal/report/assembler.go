package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/visibility-cli/internal/config"
	"github.com/sells-group/visibility-cli/internal/model"
	"github.com/sells-group/visibility-cli/internal/provider"
	"github.com/sells-group/visibility-cli/internal/querygen"
)

// Sink persists report lifecycle transitions. The store package satisfies
// it; a nil sink disables persistence (library use, tests).
type Sink interface {
	CreateReport(ctx context.Context, r *model.Report) error
	UpdateReportStatus(ctx context.Context, id string, status model.ReportStatus) error
	FinalizeReport(ctx context.Context, r *model.Report) error
}

// Assembler orchestrates a full report run: query generation, provider
// fan-out, scoring, competitor aggregation, gap and action generation.
type Assembler struct {
	registry *provider.Registry
	cfg      config.ReportConfig
	sink     Sink
}

// NewAssembler wires the assembler. Providers come from the registry so
// tests can substitute fakes.
func NewAssembler(registry *provider.Registry, cfg config.ReportConfig, sink Sink) *Assembler {
	return &Assembler{registry: registry, cfg: cfg, sink: sink}
}

// Generate runs the full pipeline for one business and returns the finished
// report. Individual provider failures are absorbed into the report; the
// run itself fails only when no usable provider can be resolved. The
// returned report is non-nil even on failure so the caller can inspect it.
func (a *Assembler) Generate(ctx context.Context, biz model.BusinessProfile) (*model.Report, error) {
	log := zap.L().With(zap.String("component", "report.assembler"), zap.String("business", biz.Name))

	rep := &model.Report{
		ID:        uuid.NewString(),
		Business:  biz,
		Status:    model.ReportStatusPending,
		Grade:     model.Grade(0),
		StartedAt: time.Now().UTC(),
	}
	if a.sink != nil {
		if err := a.sink.CreateReport(ctx, rep); err != nil {
			return rep, eris.Wrap(err, "report: create")
		}
	}

	providers, err := a.resolveProviders(biz.Providers)
	if err != nil {
		return rep, a.fail(ctx, rep, err)
	}

	rep.Status = model.ReportStatusProcessing
	if a.sink != nil {
		if err := a.sink.UpdateReportStatus(ctx, rep.ID, rep.Status); err != nil {
			return rep, eris.Wrap(err, "report: mark processing")
		}
	}

	count := a.cfg.QueryCount
	if count <= 0 {
		count = 10
	}
	rep.Queries = querygen.Generate(biz.Name, biz.Category, biz.Location, biz.CustomQueries, count)
	log.Info("queries generated", zap.Int("count", len(rep.Queries)), zap.Int("providers", len(providers)))

	coord := NewCoordinator(time.Duration(a.cfg.InterQueryDelayMS) * time.Millisecond)
	results := coord.Execute(ctx, rep.Queries, providers, biz)
	if err := ctx.Err(); err != nil {
		return rep, a.fail(ctx, rep, eris.Wrap(err, "report: run interrupted"))
	}

	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}

	scores := ComputeScores(results, names)
	rep.ProviderScores = scores.Breakdowns
	rep.MissingProviders = scores.Missing
	rep.OverallScore, rep.Grade = scores.Overall()

	rep.Competitors = AggregateCompetitors(results, a.cfg.MinCompetitorSeen)
	rep.ContentGaps = BuildGaps(results, rep.Competitors, biz.Name, GapThresholds{
		LowVisibilityPct:  float64(a.cfg.LowVisibilityPct),
		WeakRankThreshold: float64(a.cfg.WeakRankThreshold),
	})
	rep.Actions = BuildActions(scores, rep.Competitors, biz.Name)

	for _, qr := range results {
		for _, resp := range qr.Responses {
			rep.Responses = append(rep.Responses, resp)
			rep.TotalCostUSD += resp.CostUSD
		}
	}

	now := time.Now().UTC()
	rep.CompletedAt = &now
	rep.Status = model.ReportStatusCompleted
	if a.sink != nil {
		if err := a.sink.FinalizeReport(ctx, rep); err != nil {
			return rep, eris.Wrap(err, "report: finalize")
		}
	}

	log.Info("report completed",
		zap.String("report_id", rep.ID),
		zap.Int("overall_score", rep.OverallScore),
		zap.String("grade", rep.Grade),
		zap.Strings("missing_providers", rep.MissingProviders),
		zap.Float64("total_cost_usd", rep.TotalCostUSD),
	)
	return rep, nil
}

// resolveProviders maps the profile's provider subset (empty = all) onto
// registered adapters. No resolvable provider makes the run meaningless.
func (a *Assembler) resolveProviders(subset []string) ([]provider.Provider, error) {
	if len(subset) == 0 {
		all := a.registry.All()
		if len(all) == 0 {
			return nil, eris.New("report: no providers configured")
		}
		return all, nil
	}

	var out []provider.Provider
	for _, name := range subset {
		p := a.registry.Get(name)
		if p == nil {
			zap.L().Warn("requested provider is not configured", zap.String("provider", name))
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, eris.Errorf("report: none of the requested providers are configured: %v", subset)
	}
	return out, nil
}

func (a *Assembler) fail(ctx context.Context, rep *model.Report, cause error) error {
	rep.Status = model.ReportStatusFailed
	rep.Error = cause.Error()
	now := time.Now().UTC()
	rep.CompletedAt = &now
	if a.sink != nil {
		if err := a.sink.FinalizeReport(ctx, rep); err != nil {
			zap.L().Error("failed to persist failed report", zap.String("report_id", rep.ID), zap.Error(err))
		}
	}
	return cause
}
