package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestAcquireOnceFailsOpen(t *testing.T) {
	// Nothing listens here; redis being down must not block event intake.
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
	})
	d := NewDeduper(rdb, time.Hour)

	assert.True(t, d.AcquireOnce(context.Background(), "Ev123"))
}
