package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// ingestLimiter is a fixed-window per-key limiter backed by redis. Without
// redis it is a no-op; single-instance deployments that skip redis also skip
// the limit.
type ingestLimiter struct {
	redis     *redis.Client
	perMinute int
}

func newIngestLimiter(rdb *redis.Client, perMinute int) *ingestLimiter {
	return &ingestLimiter{redis: rdb, perMinute: perMinute}
}

func (l *ingestLimiter) Allow(ctx context.Context, keyID string) bool {
	if l.redis == nil || l.perMinute <= 0 {
		return true
	}
	window := time.Now().UTC().Unix() / 60
	key := fmt.Sprintf("ratelimit:ingest:%s:%d", keyID, window)

	pipe := l.redis.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 2*time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		// Redis trouble must not take down ingest.
		return true
	}
	return count.Val() <= int64(l.perMinute)
}

func (s *Server) IngestRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, _ := c.Get(contextAPIKeyIDKey)
		keyID := fmt.Sprint(value)
		if !s.limiter.Allow(c.Request.Context(), keyID) {
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}
