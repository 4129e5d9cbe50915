package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	reportdomain "github.com/adlenslabs/adlens/internal/report/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
)

// summaryCache keeps computed range summaries in redis for a short TTL.
// Invalidation bumps a per-owner version that is part of every key, so stale
// entries simply age out without a scan.
type summaryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func newSummaryCache(rdb *redis.Client, ttl time.Duration) *summaryCache {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &summaryCache{rdb: rdb, ttl: ttl}
}

func (c *summaryCache) enabled() bool { return c != nil && c.rdb != nil }

func (c *summaryCache) versionKey(ownerID snowflake.ID) string {
	return fmt.Sprintf("report:ver:%d", ownerID)
}

func (c *summaryCache) rangeKey(ctx context.Context, ownerID snowflake.ID, begin, end time.Time) (string, error) {
	ver, err := c.rdb.Get(ctx, c.versionKey(ownerID)).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("report:range:%d:%d:%s:%s",
		ownerID, ver, begin.Format("2006-01-02"), end.Format("2006-01-02")), nil
}

func (c *summaryCache) getRange(ctx context.Context, ownerID snowflake.ID, begin, end time.Time) (*reportdomain.RangeSummary, bool) {
	if !c.enabled() {
		return nil, false
	}
	key, err := c.rangeKey(ctx, ownerID, begin, end)
	if err != nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var summary reportdomain.RangeSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, false
	}
	return &summary, true
}

func (c *summaryCache) putRange(ctx context.Context, ownerID snowflake.ID, begin, end time.Time, summary *reportdomain.RangeSummary) {
	if !c.enabled() || summary == nil {
		return
	}
	key, err := c.rangeKey(ctx, ownerID, begin, end)
	if err != nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, raw, c.ttl)
}

func (c *summaryCache) invalidate(ctx context.Context, ownerID snowflake.ID) error {
	if !c.enabled() {
		return nil
	}
	return c.rdb.Incr(ctx, c.versionKey(ownerID)).Err()
}
