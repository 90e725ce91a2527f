package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/match-scheduler-gateway/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestSchedulingRunRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSchedulingRunRepository(db)
	userID := "user-1"
	run := &models.SchedulingRun{
		ID:            "run-1",
		WizardID:      "wiz-1",
		StageID:       "stage-1",
		SchedulerType: "swiss",
		UserID:        &userID,
		Outcome:       models.SchedulingRunSucceeded,
		MatchCount:    12,
		Payload:       types.JSONText(`{"stageId":"stage-1"}`),
		DurationMs:    340,
		CreatedAt:     time.Now().UTC(),
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO scheduling_runs")).
		WithArgs("run-1", "wiz-1", "stage-1", "swiss", &userID, models.SchedulingRunSucceeded, 12, nil, sqlmock.AnyArg(), int64(340), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), run))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSchedulingRunRepositoryCreateError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSchedulingRunRepository(db)
	mock.ExpectExec("INSERT INTO scheduling_runs").WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), &models.SchedulingRun{ID: "run-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert scheduling run")
}

func TestSchedulingRunRepositoryListByStage(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSchedulingRunRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM scheduling_runs WHERE stage_id = $1")).
		WithArgs("stage-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	rows := sqlmock.NewRows([]string{"id", "wizard_id", "stage_id", "scheduler_type", "user_id", "outcome", "match_count", "error_message", "payload", "duration_ms", "created_at"}).
		AddRow("run-2", "wiz-1", "stage-1", "frc", nil, "failed", 0, "Not enough teams", []byte(`{}`), 120, now).
		AddRow("run-1", "wiz-1", "stage-1", "swiss", "user-1", "succeeded", 8, nil, []byte(`{}`), 90, now.Add(-time.Minute))
	mock.ExpectQuery(regexp.QuoteMeta("FROM scheduling_runs WHERE stage_id = $1 ORDER BY created_at DESC")).
		WithArgs("stage-1", 20, 0).
		WillReturnRows(rows)

	runs, total, err := repo.ListByStage(context.Background(), "stage-1", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, runs, 2)
	assert.Equal(t, models.SchedulingRunFailed, runs[0].Outcome)
	require.NotNil(t, runs[0].ErrorMessage)
	assert.Equal(t, "Not enough teams", *runs[0].ErrorMessage)
	assert.Nil(t, runs[0].UserID)
	require.NotNil(t, runs[1].UserID)
	assert.Equal(t, "user-1", *runs[1].UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}
