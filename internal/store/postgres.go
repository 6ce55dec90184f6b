package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/visibility-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_report":        `INSERT INTO reports (id, business, status, payload, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
	"update_report_status": `UPDATE reports SET status = $1, updated_at = $2 WHERE id = $3`,
	"finalize_report":      `UPDATE reports SET status = $1, payload = $2, updated_at = $3 WHERE id = $4`,
	"get_report":           `SELECT status, payload FROM reports WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS reports (
	id         TEXT PRIMARY KEY,
	business   TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'pending',
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status);
CREATE INDEX IF NOT EXISTS idx_reports_business ON reports(business);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateReport(ctx context.Context, r *model.Report) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal report")
	}

	now := time.Now().UTC()
	_, err = s.pool.Exec(ctx,
		preparedStatements["insert_report"],
		r.ID, r.Business.Name, string(r.Status), payload, now, now,
	)
	return eris.Wrapf(err, "postgres: insert report %s", r.ID)
}

func (s *PostgresStore) UpdateReportStatus(ctx context.Context, id string, status model.ReportStatus) error {
	tag, err := s.pool.Exec(ctx,
		preparedStatements["update_report_status"],
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update report status %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("report not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) FinalizeReport(ctx context.Context, r *model.Report) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal report")
	}

	tag, err := s.pool.Exec(ctx,
		preparedStatements["finalize_report"],
		string(r.Status), payload, time.Now().UTC(), r.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: finalize report %s", r.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("report not found: %s", r.ID)
	}
	return nil
}

func (s *PostgresStore) GetReport(ctx context.Context, id string) (*model.Report, error) {
	var status string
	var payload []byte
	err := s.pool.QueryRow(ctx, preparedStatements["get_report"], id).Scan(&status, &payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.New("report not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get report")
	}
	return decodeReport(status, payload)
}

func (s *PostgresStore) ListReports(ctx context.Context, filter ReportFilter) ([]model.Report, error) {
	query := `SELECT status, payload FROM reports WHERE 1=1`
	var args []any

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if filter.Business != "" {
		args = append(args, filter.Business)
		query += fmt.Sprintf(` AND business = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(` LIMIT $%d`, len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list reports")
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		var status string
		var payload []byte
		if err := rows.Scan(&status, &payload); err != nil {
			return nil, eris.Wrap(err, "postgres: scan report")
		}
		r, err := decodeReport(status, payload)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}
	return reports, eris.Wrap(rows.Err(), "postgres: list reports iterate")
}

func decodeReport(status string, payload []byte) (*model.Report, error) {
	var r model.Report
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal report")
	}
	r.Status = model.ReportStatus(status)
	return &r, nil
}
