package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenCacheRepo struct{}

func (brokenCacheRepo) Get(context.Context, string, interface{}) error {
	return errors.New("connection refused")
}
func (brokenCacheRepo) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("connection refused")
}
func (brokenCacheRepo) DeleteByPattern(context.Context, string) error {
	return errors.New("connection refused")
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
	assert.Equal(t, "timetable:grid:s1:4:2", nilSvc.GridViewKey("s1", 2, 4))

	svc := NewCacheService(newMemoryCacheRepo(), nil, 0, "", nil, false)
	hit, err := svc.Get(context.Background(), "k", &struct{}{})
	assert.False(t, hit)
	assert.NoError(t, err)
	assert.NoError(t, svc.Set(context.Background(), "k", 1, 0))
}

func TestCacheServiceRoundTripAndInvalidateSession(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, NewMetricsService(), time.Minute, "grid", nil, true)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, svc.GridViewKey("a", 1, 1), map[string]int{"rows": 3}, 0))
	require.NoError(t, svc.Set(ctx, svc.GridViewKey("b", 1, 1), map[string]int{"rows": 5}, 0))

	var dest map[string]int
	hit, err := svc.Get(ctx, "grid:a:1:1", &dest)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 3, dest["rows"])

	require.NoError(t, svc.InvalidateSession(ctx, "a"))
	hit, err = svc.Get(ctx, "grid:a:1:1", &dest)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, repo.len())
}

func TestCacheServiceSurfacesBackendErrors(t *testing.T) {
	svc := NewCacheService(brokenCacheRepo{}, nil, 0, "", nil, true)
	ctx := context.Background()

	hit, err := svc.Get(ctx, "k", &struct{}{})
	assert.False(t, hit)
	assert.Error(t, err)
	assert.Error(t, svc.Set(ctx, "k", 1, 0))
	assert.Error(t, svc.Invalidate(ctx, "k*"))
}
