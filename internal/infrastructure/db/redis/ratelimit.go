package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter implements fixed-window request counting backed by Redis.
// Key format: ratelimit:<scope>:<client>:<window_start_unix>
type RateLimiter struct {
	client redis.Cmdable
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter creates a RateLimiter with the given window length.
// A non-positive window defaults to one minute.
func NewRateLimiter(client redis.Cmdable, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{client: client, window: window, now: time.Now}
}

// Allow counts one hit for client within scope and reports whether the count
// is still within limit. The counter expires with its window.
func (l *RateLimiter) Allow(ctx context.Context, scope, client string, limit int) (bool, error) {
	key := l.key(scope, client, l.now())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit: %w", err)
	}

	return incr.Val() <= int64(limit), nil
}

func (l *RateLimiter) key(scope, client string, t time.Time) string {
	start := t.Truncate(l.window).Unix()
	return fmt.Sprintf("ratelimit:%s:%s:%d", scope, client, start)
}
