package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/interview-timetable-api/internal/models"
	appErrors "github.com/noah-isme/interview-timetable-api/pkg/errors"
)

const defaultCachePrefix = "timetable:grid"

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService caches rendered grid views keyed by session and revisions.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	prefix     string
	logger     *zap.Logger
	enabled    bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, prefix string, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 2 * time.Minute
	}
	if prefix == "" {
		prefix = defaultCachePrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, prefix: prefix, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Get attempts to retrieve a cached entry. It returns true when the cache was hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return true, nil
}

// Set stores the value in cache.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Invalidate removes cached values for the provided pattern.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	return nil
}

// GridViewKey builds the key of a session's rendered grid at the given revisions.
func (s *CacheService) GridViewKey(sessionID string, revision, scheduleRev uint64) string {
	return fmt.Sprintf("%s:%s:%d:%d", s.keyPrefix(), sessionID, scheduleRev, revision)
}

// InvalidateSession drops every cached view of one session.
func (s *CacheService) InvalidateSession(ctx context.Context, sessionID string) error {
	return s.Invalidate(ctx, fmt.Sprintf("%s:%s:*", s.keyPrefix(), sessionID))
}

// WatchSchedule drops all cached views whenever the shared settings change.
// The returned function stops watching.
func (s *CacheService) WatchSchedule(state *ScheduleState) func() {
	if !s.Enabled() || state == nil {
		return func() {}
	}
	return state.Subscribe(func(snap models.AdminSnapshot) {
		if err := s.Invalidate(context.Background(), s.keyPrefix()+":*"); err != nil {
			return
		}
		s.logger.Debug("grid views invalidated", zap.Uint64("schedule_revision", snap.Revision))
	})
}

func (s *CacheService) keyPrefix() string {
	if s == nil || s.prefix == "" {
		return defaultCachePrefix
	}
	return s.prefix
}
