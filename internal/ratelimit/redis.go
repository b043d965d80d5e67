package ratelimit

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisLimiter counts requests per client in one-minute windows shared by
// every API replica
type RedisLimiter struct {
	redis *redis.Client
	rpm   int
	now   func() time.Time
}

// NewRedisLimiter creates a limiter allowing rpm requests per minute
func NewRedisLimiter(client *redis.Client, rpm int) *RedisLimiter {
	if rpm < minRPM {
		rpm = minRPM
	}
	return &RedisLimiter{redis: client, rpm: rpm, now: time.Now}
}

// Allow increments the client's counter for the current window
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now().UTC()
	window := now.Unix() / 60
	rk := fmt.Sprintf("grievance:rl:%s:%d", key, window)

	// INCR and TTL in one round trip; the TTL only matters on the first hit
	pipe := l.redis.TxPipeline()
	incr := pipe.Incr(ctx, rk)
	pipe.Expire(ctx, rk, time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("rate limit counter: %w", err)
	}

	count := int(incr.Val())
	d := Decision{Allowed: true, Limit: l.rpm, Remaining: l.rpm - count}
	if count > l.rpm {
		secPassed := int(now.Unix() % 60)
		d.Allowed = false
		d.Remaining = 0
		d.RetryAfter = time.Duration(60-secPassed) * time.Second
	}
	return d, nil
}
