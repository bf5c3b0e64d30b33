package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-reporter/internal/domain"
)

func TestRunRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	started := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	day := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	run := &domain.RunRecord{
		ID:        "run1",
		Mode:      domain.RunModeDaily,
		FromDate:  day,
		ToDate:    day,
		Status:    domain.RunStatusRunning,
		StartedAt: started,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO report_runs (id,mode,from_date,to_date,status,started_at) VALUES ($1,$2,$3,$4,$5,$6)")).
		WithArgs("run1", domain.RunModeDaily, day, day, domain.RunStatusRunning, started).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewRunRepository(db)
	require.NoError(t, repo.Create(context.Background(), run))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepository_Finish(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	finished := time.Date(2025, 6, 4, 0, 5, 0, 0, time.UTC)
	run := &domain.RunRecord{
		ID:                "run1",
		Status:            domain.RunStatusFailed,
		CampaignsTotal:    4,
		CampaignsReported: 2,
		Error:             "boom",
		FinishedAt:        &finished,
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE report_runs SET status = $1, campaigns_total = $2, campaigns_reported = $3, error = $4, finished_at = $5 WHERE id = $6")).
		WithArgs(domain.RunStatusFailed, 4, 2, sqlmock.AnyArg(), sqlmock.AnyArg(), "run1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewRunRepository(db)
	require.NoError(t, repo.Finish(context.Background(), run))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepository_ListRecent(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(mock sqlmock.Sqlmock)
		validate func(t *testing.T, runs []domain.RunRecord, err error)
	}{
		{
			name: "retorna execucoes mais recentes primeiro",
			setup: func(mock sqlmock.Sqlmock) {
				started := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
				finished := started.Add(3 * time.Minute)
				day := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
				rows := sqlmock.NewRows([]string{"id", "mode", "from_date", "to_date", "status", "campaigns_total", "campaigns_reported", "error", "started_at", "finished_at"}).
					AddRow("run2", "daily", day, day, "succeeded", 3, 2, nil, started, finished).
					AddRow("run1", "historical", day, day, "running", 0, 0, nil, started.Add(-time.Hour), nil)
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, mode, from_date, to_date, status, campaigns_total, campaigns_reported, error, started_at, finished_at FROM report_runs ORDER BY started_at DESC LIMIT 5")).
					WillReturnRows(rows)
			},
			validate: func(t *testing.T, runs []domain.RunRecord, err error) {
				require.NoError(t, err)
				require.Len(t, runs, 2)
				assert.Equal(t, "run2", runs[0].ID)
				assert.Equal(t, domain.RunStatusSucceeded, runs[0].Status)
				require.NotNil(t, runs[0].FinishedAt)
				assert.Nil(t, runs[1].FinishedAt)
				assert.Equal(t, domain.RunModeHistorical, runs[1].Mode)
			},
		},
		{
			name: "erro do banco e propagado",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection reset"))
			},
			validate: func(t *testing.T, _ []domain.RunRecord, err error) {
				assert.ErrorContains(t, err, "connection reset")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.setup(mock)

			runs, err := NewRunRepository(db).ListRecent(context.Background(), 5)
			tt.validate(t, runs, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
