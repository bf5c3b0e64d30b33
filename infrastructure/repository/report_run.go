package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/campaign-reporter/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-reporter/internal/domain"
)

const reportRunsTable = "report_runs"

type RunRepository interface {
	Create(ctx context.Context, run *domain.RunRecord) error
	Finish(ctx context.Context, run *domain.RunRecord) error
	ListRecent(ctx context.Context, limit int) ([]domain.RunRecord, error)
}

type runRepository struct {
	conn postgres.Queryer
}

func NewRunRepository(conn postgres.Queryer) RunRepository {
	return &runRepository{
		conn: conn,
	}
}

func (r *runRepository) Create(ctx context.Context, run *domain.RunRecord) error {
	query, args, err := squirrel.
		Insert(reportRunsTable).
		Columns("id", "mode", "from_date", "to_date", "status", "started_at").
		Values(run.ID, run.Mode, run.FromDate, run.ToDate, run.Status, run.StartedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return wrapDatabaseError(err)
	}

	return nil
}

func (r *runRepository) Finish(ctx context.Context, run *domain.RunRecord) error {
	query, args, err := squirrel.
		Update(reportRunsTable).
		Set("status", run.Status).
		Set("campaigns_total", run.CampaignsTotal).
		Set("campaigns_reported", run.CampaignsReported).
		Set("error", nullString(run.Error)).
		Set("finished_at", run.FinishedAt).
		Where(squirrel.Eq{"id": run.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return wrapDatabaseError(err)
	}

	return nil
}

func (r *runRepository) ListRecent(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query, args, err := squirrel.
		Select("id", "mode", "from_date", "to_date", "status", "campaigns_total", "campaigns_reported", "error", "started_at", "finished_at").
		From(reportRunsTable).
		OrderBy("started_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDatabaseError(err)
	}
	defer rows.Close()

	runs := make([]domain.RunRecord, 0)
	for rows.Next() {
		var (
			run        domain.RunRecord
			runErr     sql.NullString
			finishedAt sql.NullTime
		)
		if err := rows.Scan(
			&run.ID,
			&run.Mode,
			&run.FromDate,
			&run.ToDate,
			&run.Status,
			&run.CampaignsTotal,
			&run.CampaignsReported,
			&runErr,
			&run.StartedAt,
			&finishedAt,
		); err != nil {
			return nil, err
		}

		run.Error = runErr.String
		if finishedAt.Valid {
			t := finishedAt.Time
			run.FinishedAt = &t
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func wrapDatabaseError(err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
	}
	return fmt.Errorf("failed to execute query: %w", err)
}

// NoopRunRepository é usado quando o histórico em banco está desativado
type NoopRunRepository struct{}

func (NoopRunRepository) Create(context.Context, *domain.RunRecord) error { return nil }

func (NoopRunRepository) Finish(context.Context, *domain.RunRecord) error { return nil }

func (NoopRunRepository) ListRecent(context.Context, int) ([]domain.RunRecord, error) {
	return []domain.RunRecord{}, nil
}
