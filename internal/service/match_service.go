package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/match-scheduler-gateway/internal/models"
	appErrors "github.com/noah-isme/match-scheduler-gateway/pkg/errors"
)

const (
	matchCacheAllKey      = "matches:all"
	matchCacheStagePrefix = "matches:stage:"
)

type matchSource interface {
	Matches(ctx context.Context, token string) ([]models.ScheduledMatch, error)
	StageMatches(ctx context.Context, token, stageID string) ([]models.ScheduledMatch, error)
}

// MatchService reads match lists through the shared match-list cache.
type MatchService struct {
	source matchSource
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
}

// NewMatchService constructs a MatchService. A nil cache disables caching.
func NewMatchService(source matchSource, cache *CacheService, ttl time.Duration, logger *zap.Logger) *MatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchService{source: source, cache: cache, ttl: ttl, logger: logger}
}

// StageMatchesKey is the cache key of a stage's match list.
func StageMatchesKey(stageID string) string {
	return matchCacheStagePrefix + stageID
}

// ListAll returns every match. The boolean reports a cache hit.
func (s *MatchService) ListAll(ctx context.Context, token string) ([]models.ScheduledMatch, bool, error) {
	return s.readThrough(ctx, matchCacheAllKey, func() ([]models.ScheduledMatch, error) {
		return s.source.Matches(ctx, token)
	})
}

// ListByStage returns the matches of one stage. The boolean reports a cache hit.
func (s *MatchService) ListByStage(ctx context.Context, token, stageID string) ([]models.ScheduledMatch, bool, error) {
	if stageID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "stage id is required")
	}
	return s.readThrough(ctx, StageMatchesKey(stageID), func() ([]models.ScheduledMatch, error) {
		return s.source.StageMatches(ctx, token, stageID)
	})
}

// InvalidateStage drops the "all matches" list and the stage's list so readers refetch.
func (s *MatchService) InvalidateStage(ctx context.Context, stageID string) error {
	return s.cache.InvalidateKeys(ctx, matchCacheAllKey, StageMatchesKey(stageID))
}

func (s *MatchService) readThrough(ctx context.Context, key string, load func() ([]models.ScheduledMatch, error)) ([]models.ScheduledMatch, bool, error) {
	var cached []models.ScheduledMatch
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}

	matches, err := load()
	if err != nil {
		return nil, false, err
	}
	if matches == nil {
		matches = []models.ScheduledMatch{}
	}
	_ = s.cache.Set(ctx, key, matches, s.ttl)
	return matches, false, nil
}
