package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skovert/folio/pkg/errors"
)

// RedisLimiter is a fixed-window limiter shared across server instances.
// Each key is a Redis SET NX with the window as TTL: the first writer in a
// window wins, later attempts read the remaining TTL as the wait.
type RedisLimiter struct {
	client *redis.Client
	window time.Duration
	prefix string
}

// NewRedisLimiter creates a limiter on an existing Redis client.
// A window of 0 uses DefaultWindow.
func NewRedisLimiter(client *redis.Client, window time.Duration) *RedisLimiter {
	if window <= 0 {
		window = DefaultWindow
	}
	return &RedisLimiter{
		client: client,
		window: window,
		prefix: "ratelimit:",
	}
}

// Allow records an attempt for key and reports whether it is permitted.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	set, err := l.client.SetNX(ctx, l.prefix+key, 1, l.window).Result()
	if err != nil {
		return false, 0, errors.Wrap(errors.ErrCodeNetwork, err, "rate limit check")
	}
	if set {
		return true, 0, nil
	}

	ttl, err := l.client.TTL(ctx, l.prefix+key).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return false, ttl, nil
}

// Ensure RedisLimiter implements Limiter.
var _ Limiter = (*RedisLimiter)(nil)
