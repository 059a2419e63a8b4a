package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/noah-isme/interview-timetable-api/internal/service"
	appErrors "github.com/noah-isme/interview-timetable-api/pkg/errors"
	"github.com/noah-isme/interview-timetable-api/pkg/response"
)

const limiterIdleTTL = 10 * time.Minute

type sessionLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// GestureLimiter throttles grid events per session id.
type GestureLimiter struct {
	mu       sync.Mutex
	limiters map[string]*sessionLimiter
	limit    rate.Limit
	burst    int
	metrics  *service.MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewGestureLimiter allows perSecond events per session with the given burst.
// A non-positive rate disables throttling.
func NewGestureLimiter(perSecond float64, burst int, metrics *service.MetricsService, logger *zap.Logger) *GestureLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst <= 0 {
		burst = 1
	}
	return &GestureLimiter{
		limiters: make(map[string]*sessionLimiter),
		limit:    limit,
		burst:    burst,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Middleware rejects events over the session's budget with 429.
func (l *GestureLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" || l.allow(id) {
			c.Next()
			return
		}
		l.metrics.IncRateLimited()
		l.logger.Warn("grid event rate limit exceeded", zap.String("session_id", id))
		response.Error(c, appErrors.ErrRateLimited)
		c.Abort()
	}
}

func (l *GestureLimiter) allow(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.limiters[id]
	if !ok {
		l.pruneLocked(now)
		entry = &sessionLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[id] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (l *GestureLimiter) pruneLocked(now time.Time) {
	for id, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(l.limiters, id)
		}
	}
}
