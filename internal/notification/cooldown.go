package notification

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const cooldownKeyPrefix = "alertfi:alert:cooldown:"

// Cooldown reports whether an alert for a detector may be sent now, and if so
// blocks further alerts for that detector until window elapses.
type Cooldown interface {
	Acquire(ctx context.Context, detectorID string, window time.Duration) (bool, error)
}

type RedisCooldown struct {
	rdb *goredis.Client
}

func NewRedisCooldown(rdb *goredis.Client) *RedisCooldown {
	return &RedisCooldown{rdb: rdb}
}

func (c *RedisCooldown) Acquire(ctx context.Context, detectorID string, window time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, cooldownKeyPrefix+detectorID, time.Now().UTC().Unix(), window).Result()
}
