package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/match-scheduler-gateway/internal/models"
)

// SchedulingRunRepository persists schedule submission attempts.
type SchedulingRunRepository struct {
	db *sqlx.DB
}

// NewSchedulingRunRepository constructs the repository.
func NewSchedulingRunRepository(db *sqlx.DB) *SchedulingRunRepository {
	return &SchedulingRunRepository{db: db}
}

// Create inserts a run. Re-inserting the same id is ignored so queue retries stay idempotent.
func (r *SchedulingRunRepository) Create(ctx context.Context, run *models.SchedulingRun) error {
	const query = `INSERT INTO scheduling_runs (id, wizard_id, stage_id, scheduler_type, user_id, outcome, match_count, error_message, payload, duration_ms, created_at)
VALUES (:id, :wizard_id, :stage_id, :scheduler_type, :user_id, :outcome, :match_count, :error_message, :payload, :duration_ms, :created_at)
ON CONFLICT (id) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("insert scheduling run: %w", err)
	}
	return nil
}

// ListByStage returns the most recent runs of a stage, newest first, and the total count.
func (r *SchedulingRunRepository) ListByStage(ctx context.Context, stageID string, limit, offset int) ([]models.SchedulingRun, int, error) {
	const countQuery = `SELECT COUNT(*) FROM scheduling_runs WHERE stage_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, stageID); err != nil {
		return nil, 0, fmt.Errorf("count scheduling runs: %w", err)
	}

	const query = `SELECT id, wizard_id, stage_id, scheduler_type, user_id, outcome, match_count, error_message, payload, duration_ms, created_at
FROM scheduling_runs WHERE stage_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	var runs []models.SchedulingRun
	if err := r.db.SelectContext(ctx, &runs, query, stageID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list scheduling runs: %w", err)
	}
	return runs, total, nil
}
