package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/visibility-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleReport(id, business string) *model.Report {
	return &model.Report{
		ID:       id,
		Business: model.BusinessProfile{Name: business, Category: "coffee shop", Location: "Seattle, WA"},
		Status:   model.ReportStatusPending,
		Grade:    "F",
	}
}

func TestSQLiteReportLifecycle(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	rep := sampleReport("r-1", "Espresso Elegance")
	require.NoError(t, s.CreateReport(ctx, rep))

	got, err := s.GetReport(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusPending, got.Status)
	assert.Equal(t, "Espresso Elegance", got.Business.Name)

	require.NoError(t, s.UpdateReportStatus(ctx, "r-1", model.ReportStatusProcessing))
	got, err = s.GetReport(ctx, "r-1")
	require.NoError(t, err)
	// The status column wins over the stale payload.
	assert.Equal(t, model.ReportStatusProcessing, got.Status)

	rep.Status = model.ReportStatusCompleted
	rep.OverallScore = 50
	rep.Grade = "D"
	rep.ProviderScores = []model.ProviderScoreBreakdown{{Provider: "openai", Total: 100}}
	require.NoError(t, s.FinalizeReport(ctx, rep))

	got, err = s.GetReport(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusCompleted, got.Status)
	assert.Equal(t, 50, got.OverallScore)
	assert.Equal(t, "D", got.Grade)
	require.Len(t, got.ProviderScores, 1)
	assert.Equal(t, 100, got.ProviderScores[0].Total)
}

func TestSQLiteGetReportNotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.GetReport(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteUpdateMissingReport(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	err := s.UpdateReportStatus(ctx, "nope", model.ReportStatusProcessing)
	require.Error(t, err)

	err = s.FinalizeReport(ctx, sampleReport("nope", "X"))
	require.Error(t, err)
}

func TestSQLiteListReports(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateReport(ctx, sampleReport("r-1", "Espresso Elegance")))
	require.NoError(t, s.CreateReport(ctx, sampleReport("r-2", "Espresso Elegance")))
	require.NoError(t, s.CreateReport(ctx, sampleReport("r-3", "Brew Bros")))
	require.NoError(t, s.UpdateReportStatus(ctx, "r-2", model.ReportStatusCompleted))

	all, err := s.ListReports(ctx, ReportFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	completed, err := s.ListReports(ctx, ReportFilter{Status: model.ReportStatusCompleted})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "r-2", completed[0].ID)

	byBiz, err := s.ListReports(ctx, ReportFilter{Business: "Espresso Elegance"})
	require.NoError(t, err)
	assert.Len(t, byBiz, 2)

	limited, err := s.ListReports(ctx, ReportFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestOpenSelectsDriver(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "open.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(context.Background(), "oracle", "dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
