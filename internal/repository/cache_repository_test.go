package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/interview-timetable-api/pkg/errors"
)

func TestCacheRepositoryWithoutClientAlwaysMisses(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	assert.NoError(t, repo.Set(ctx, "timetable:grid:s1:1:1", map[string]int{"rows": 4}, time.Minute))

	var dest map[string]int
	err := repo.Get(ctx, "timetable:grid:s1:1:1", &dest)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
	assert.Nil(t, dest)

	assert.NoError(t, repo.DeleteByPattern(ctx, "timetable:grid:*"))
	assert.NoError(t, repo.Close())
}
