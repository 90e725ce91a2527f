package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/match-scheduler-gateway/pkg/errors"
)

func TestCacheRepositoryWithoutClientAlwaysMisses(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "matches:all", []string{"m-1"}, time.Minute))

	var dest []string
	err := repo.Get(ctx, "matches:all", &dest)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.Empty(t, dest)

	assert.NoError(t, repo.Delete(ctx, "matches:all"))
}

func TestNamespacedKeys(t *testing.T) {
	assert.Equal(t, "msg:matches:stage:s-1", namespaced("matches:stage:s-1"))
}
