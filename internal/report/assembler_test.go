package report

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/visibility-cli/internal/config"
	"github.com/sells-group/visibility-cli/internal/model"
	"github.com/sells-group/visibility-cli/internal/provider"
)

// fakeSink records lifecycle calls in order.
type fakeSink struct {
	mu        sync.Mutex
	created   *model.Report
	statuses  []model.ReportStatus
	finalized *model.Report
}

func (s *fakeSink) CreateReport(_ context.Context, r *model.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.created = &cp
	return nil
}

func (s *fakeSink) UpdateReportStatus(_ context.Context, _ string, status model.ReportStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, status)
	return nil
}

func (s *fakeSink) FinalizeReport(_ context.Context, r *model.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.finalized = &cp
	return nil
}

func testRegistry(providers ...provider.Provider) *provider.Registry {
	reg := provider.NewRegistry()
	for _, p := range providers {
		reg.Register(p)
	}
	return reg
}

func TestAssemblerEndToEnd(t *testing.T) {
	t.Parallel()

	// Provider alpha ranks the business first with positive sentiment on
	// every query; provider beta never mentions it at all.
	alpha := &fakeProvider{name: "alpha", answer: "1. Espresso Elegance - excellent coffee and friendly staff\n2. Brew Bros\n3. Java House"}
	beta := &fakeProvider{name: "beta", answer: "Here are the top coffee shops in Seattle:\n1. Brew Bros\n2. Java House\n3. Bean Scene"}

	sink := &fakeSink{}
	asm := NewAssembler(testRegistry(alpha, beta), config.ReportConfig{QueryCount: 3}, sink)

	biz := model.BusinessProfile{
		Name:     "Espresso Elegance",
		Category: "coffee shop",
		Location: "Seattle, WA",
		CustomQueries: []string{
			"best coffee shop in Seattle",
			"where to get espresso in Seattle",
			"top rated Seattle coffee",
		},
	}

	rep, err := asm.Generate(context.Background(), biz)
	require.NoError(t, err)
	require.NotNil(t, rep)

	assert.NotEmpty(t, rep.ID)
	assert.Equal(t, model.ReportStatusCompleted, rep.Status)
	require.NotNil(t, rep.CompletedAt)
	require.Len(t, rep.Queries, 3)
	require.Len(t, rep.Responses, 6)
	assert.InDelta(t, 0.006, rep.TotalCostUSD, 1e-9)

	require.Len(t, rep.ProviderScores, 2)
	byName := map[string]model.ProviderScoreBreakdown{}
	for _, b := range rep.ProviderScores {
		byName[b.Provider] = b
	}
	assert.Equal(t, 100, byName["alpha"].Total)
	assert.Equal(t, 0, byName["beta"].Total)
	assert.Equal(t, 50, rep.OverallScore)
	assert.Equal(t, "D", rep.Grade)
	assert.Empty(t, rep.MissingProviders)

	// Beta's zero visibility must surface as a critical action naming it.
	var critical *model.PriorityAction
	for i, a := range rep.Actions {
		if a.Priority == model.PriorityCritical && strings.Contains(a.Title+a.Description, "beta") {
			critical = &rep.Actions[i]
			break
		}
	}
	require.NotNil(t, critical, "expected a critical action referencing beta")
	assert.NotEmpty(t, critical.Fix)

	// Lifecycle persisted: created pending, marked processing, finalized completed.
	require.NotNil(t, sink.created)
	assert.Equal(t, model.ReportStatusPending, sink.created.Status)
	assert.Equal(t, []model.ReportStatus{model.ReportStatusProcessing}, sink.statuses)
	require.NotNil(t, sink.finalized)
	assert.Equal(t, model.ReportStatusCompleted, sink.finalized.Status)
}

func TestAssemblerFailsWithNoProviders(t *testing.T) {
	t.Parallel()

	sink := &fakeSink{}
	asm := NewAssembler(testRegistry(), config.ReportConfig{QueryCount: 3}, sink)

	rep, err := asm.Generate(context.Background(), model.BusinessProfile{Name: "Espresso Elegance"})
	require.Error(t, err)
	require.NotNil(t, rep)
	assert.Equal(t, model.ReportStatusFailed, rep.Status)
	assert.NotEmpty(t, rep.Error)

	require.NotNil(t, sink.finalized)
	assert.Equal(t, model.ReportStatusFailed, sink.finalized.Status)
}

func TestAssemblerFailsWhenSubsetMatchesNothing(t *testing.T) {
	t.Parallel()

	alpha := &fakeProvider{name: "alpha", answer: "hi"}
	asm := NewAssembler(testRegistry(alpha), config.ReportConfig{QueryCount: 1}, nil)

	rep, err := asm.Generate(context.Background(), model.BusinessProfile{
		Name:      "Espresso Elegance",
		Providers: []string{"does-not-exist"},
	})
	require.Error(t, err)
	assert.Equal(t, model.ReportStatusFailed, rep.Status)
}

func TestAssemblerHonorsProviderSubset(t *testing.T) {
	t.Parallel()

	alpha := &fakeProvider{name: "alpha", answer: "1. Espresso Elegance - great"}
	beta := &fakeProvider{name: "beta", answer: "1. Espresso Elegance - great"}
	asm := NewAssembler(testRegistry(alpha, beta), config.ReportConfig{QueryCount: 2}, nil)

	biz := model.BusinessProfile{
		Name:          "Espresso Elegance",
		Category:      "coffee shop",
		Location:      "Seattle, WA",
		CustomQueries: []string{"q1", "q2"},
		Providers:     []string{"alpha"},
	}

	rep, err := asm.Generate(context.Background(), biz)
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusCompleted, rep.Status)
	require.Len(t, rep.ProviderScores, 1)
	assert.Equal(t, "alpha", rep.ProviderScores[0].Provider)
	assert.Zero(t, beta.calls.Load())
}

func TestAssemblerSurfacesMissingProviders(t *testing.T) {
	t.Parallel()

	alpha := &fakeProvider{name: "alpha", answer: "1. Espresso Elegance - excellent and friendly"}
	broken := &fakeProvider{name: "broken", fail: true}
	asm := NewAssembler(testRegistry(alpha, broken), config.ReportConfig{QueryCount: 2}, nil)

	biz := model.BusinessProfile{
		Name:          "Espresso Elegance",
		CustomQueries: []string{"q1", "q2"},
	}

	rep, err := asm.Generate(context.Background(), biz)
	require.NoError(t, err)

	// The run completes; the dead provider stays out of the average.
	assert.Equal(t, model.ReportStatusCompleted, rep.Status)
	assert.Equal(t, []string{"broken"}, rep.MissingProviders)
	require.Len(t, rep.ProviderScores, 1)
	assert.Equal(t, 100, rep.OverallScore)
}
