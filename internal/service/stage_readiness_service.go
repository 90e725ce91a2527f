package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/match-scheduler-gateway/internal/models"
	appErrors "github.com/noah-isme/match-scheduler-gateway/pkg/errors"
)

type readinessReader interface {
	StageReadiness(ctx context.Context, token, stageID string) (models.StageReadiness, error)
}

type stageMatchLister interface {
	ListByStage(ctx context.Context, token, stageID string) ([]models.ScheduledMatch, bool, error)
}

// StageReadinessService decides whether a stage's advance action is enabled.
type StageReadinessService struct {
	readiness readinessReader
	matches   stageMatchLister
	logger    *zap.Logger
}

// NewStageReadinessService constructs the service.
func NewStageReadinessService(readiness readinessReader, matches stageMatchLister, logger *zap.Logger) *StageReadinessService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StageReadinessService{readiness: readiness, matches: matches, logger: logger}
}

// Evaluate returns the backend readiness, which alone gates the advance action.
// Swiss stages also get the round-completion hint, computed from the stage's matches.
func (s *StageReadinessService) Evaluate(ctx context.Context, token, stageID string, stageType models.StageType) (*models.StageReadinessView, error) {
	if stageID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "stage id is required")
	}
	if stageType != "" && !stageType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "stageType must be one of SWISS, PLAYOFF, FINAL")
	}

	readiness, err := s.readiness.StageReadiness(ctx, token, stageID)
	if err != nil {
		return nil, err
	}

	view := &models.StageReadinessView{
		StageID:    stageID,
		StageType:  stageType,
		Readiness:  readiness,
		CanAdvance: readiness.Ready,
	}

	if stageType == models.StageTypeSwiss && s.matches != nil {
		matches, _, err := s.matches.ListByStage(ctx, token, stageID)
		if err != nil {
			s.logger.Warn("swiss round hint unavailable", zap.String("stage_id", stageID), zap.Error(err))
			return view, nil
		}
		hint := EvaluateSwissRound(matches)
		view.SwissHint = &hint
	}
	return view, nil
}

// EvaluateSwissRound inspects the latest round of a Swiss stage.
// A stage without matches may always generate its first round.
func EvaluateSwissRound(matches []models.ScheduledMatch) models.SwissRoundHint {
	hint := models.SwissRoundHint{}
	if len(matches) == 0 {
		hint.CanGenerateNextRound = true
		return hint
	}

	latest := matches[0].RoundNumber
	for _, match := range matches[1:] {
		if match.RoundNumber > latest {
			latest = match.RoundNumber
		}
	}
	hint.LatestRoundNumber = latest

	for _, match := range matches {
		if match.RoundNumber != latest {
			continue
		}
		hint.MatchesInRound++
		if match.Status == models.MatchStatusCompleted {
			hint.CompletedInRound++
		}
	}
	hint.AllMatchesCompleted = hint.CompletedInRound == hint.MatchesInRound
	hint.CanGenerateNextRound = hint.AllMatchesCompleted
	return hint
}
