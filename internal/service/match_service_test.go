package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/match-scheduler-gateway/internal/models"
	appErrors "github.com/noah-isme/match-scheduler-gateway/pkg/errors"
)

type memoryCacheRepo struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{data: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	return nil
}

func (m *memoryCacheRepo) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memoryCacheRepo) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

type countingMatchSource struct {
	all, stage int
	matches    []models.ScheduledMatch
	err        error
}

func (c *countingMatchSource) Matches(context.Context, string) ([]models.ScheduledMatch, error) {
	c.all++
	return c.matches, c.err
}

func (c *countingMatchSource) StageMatches(context.Context, string, string) ([]models.ScheduledMatch, error) {
	c.stage++
	return c.matches, c.err
}

func TestMatchServiceReadsThroughCache(t *testing.T) {
	repo := newMemoryCacheRepo()
	source := &countingMatchSource{matches: generatedMatches(3)}
	svc := NewMatchService(source, NewCacheService(repo, nil, time.Minute, nil, true), time.Minute, nil)

	matches, hit, err := svc.ListByStage(context.Background(), "tok", "stage-1")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, matches, 3)

	matches, hit, err = svc.ListByStage(context.Background(), "tok", "stage-1")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Len(t, matches, 3)
	assert.Equal(t, 1, source.stage)
}

func TestMatchServiceInvalidateStageDropsBothLists(t *testing.T) {
	repo := newMemoryCacheRepo()
	source := &countingMatchSource{matches: generatedMatches(2)}
	svc := NewMatchService(source, NewCacheService(repo, nil, time.Minute, nil, true), time.Minute, nil)

	_, _, err := svc.ListAll(context.Background(), "tok")
	require.NoError(t, err)
	_, _, err = svc.ListByStage(context.Background(), "tok", "stage-1")
	require.NoError(t, err)
	_, _, err = svc.ListByStage(context.Background(), "tok", "stage-2")
	require.NoError(t, err)

	require.NoError(t, svc.InvalidateStage(context.Background(), "stage-1"))

	assert.False(t, repo.has(matchCacheAllKey))
	assert.False(t, repo.has(StageMatchesKey("stage-1")))
	assert.True(t, repo.has(StageMatchesKey("stage-2")))

	_, hit, err := svc.ListAll(context.Background(), "tok")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, source.all)
}

func TestMatchServiceWithoutCache(t *testing.T) {
	source := &countingMatchSource{}
	svc := NewMatchService(source, nil, time.Minute, nil)

	matches, hit, err := svc.ListAll(context.Background(), "tok")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NotNil(t, matches)
	require.NoError(t, svc.InvalidateStage(context.Background(), "stage-1"))
}

func TestMatchServiceSourceError(t *testing.T) {
	source := &countingMatchSource{err: errors.New("down")}
	svc := NewMatchService(source, NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, true), time.Minute, nil)

	_, _, err := svc.ListByStage(context.Background(), "tok", "stage-1")
	require.Error(t, err)

	_, _, err = svc.ListByStage(context.Background(), "tok", "")
	require.ErrorIs(t, err, appErrors.ErrValidation)
}
