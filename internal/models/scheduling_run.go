package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// SchedulingRunOutcome records how a submission ended.
type SchedulingRunOutcome string

const (
	SchedulingRunSucceeded SchedulingRunOutcome = "succeeded"
	SchedulingRunFailed    SchedulingRunOutcome = "failed"
)

// SchedulingRun is the audit record of a single schedule submission attempt.
type SchedulingRun struct {
	ID            string               `db:"id" json:"id"`
	WizardID      string               `db:"wizard_id" json:"wizardId"`
	StageID       string               `db:"stage_id" json:"stageId"`
	SchedulerType string               `db:"scheduler_type" json:"schedulerType"`
	UserID        *string              `db:"user_id" json:"userId,omitempty"`
	Outcome       SchedulingRunOutcome `db:"outcome" json:"outcome"`
	MatchCount    int                  `db:"match_count" json:"matchCount"`
	ErrorMessage  *string              `db:"error_message" json:"errorMessage,omitempty"`
	Payload       types.JSONText       `db:"payload" json:"payload,omitempty"`
	DurationMs    int64                `db:"duration_ms" json:"durationMs"`
	CreatedAt     time.Time            `db:"created_at" json:"createdAt"`
}
