package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper is a once-only guard for redelivered Slack events, keyed by event ID
// with a TTL. Slack marks retries with X-Slack-Retry-Num, but an event can
// also be redelivered without the header; the guard covers that case.
type Deduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDeduper(rdb *redis.Client, ttl time.Duration) *Deduper {
	return &Deduper{rdb: rdb, ttl: ttl}
}

// AcquireOnce tries to acquire the dedup lock for eventID.
// It returns true the first time an event is seen and false on a duplicate.
// When redis is unreachable it fails open and returns true: processing a
// duplicate is preferable to dropping a live request.
func (d *Deduper) AcquireOnce(ctx context.Context, eventID string) bool {
	key := fmt.Sprintf("dedup:slack_event:%s", eventID)

	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		return true
	}
	return ok
}
