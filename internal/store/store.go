// Package store persists visibility reports. Two backends are provided:
// SQLite for single-machine use and Postgres for shared deployments. The
// full report is stored as a JSON payload next to the columns the list and
// filter queries need.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/visibility-cli/internal/model"
)

// ReportFilter specifies criteria for listing reports.
type ReportFilter struct {
	Status   model.ReportStatus `json:"status,omitempty"`
	Business string             `json:"business,omitempty"`
	Limit    int                `json:"limit,omitempty"`
	Offset   int                `json:"offset,omitempty"`
}

// Store defines the persistence interface for the report pipeline.
type Store interface {
	CreateReport(ctx context.Context, r *model.Report) error
	UpdateReportStatus(ctx context.Context, id string, status model.ReportStatus) error
	FinalizeReport(ctx context.Context, r *model.Report) error
	GetReport(ctx context.Context, id string) (*model.Report, error)
	ListReports(ctx context.Context, filter ReportFilter) ([]model.Report, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open constructs the backend named by driver ("sqlite" or "postgres").
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite", "":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
