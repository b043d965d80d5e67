// Package ratelimit provides per-client request budgets for the HTTP API
package ratelimit

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/rajasatyajit/grievance-insights/config"
	"github.com/rajasatyajit/grievance-insights/internal/logger"
)

// Decision is the outcome of one Allow call
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether a client identified by key may make a request
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// New returns a Redis fixed-window limiter when client is set, otherwise an
// in-process token bucket limiter. It returns nil when limiting is disabled.
func New(client *redis.Client, cfg config.RateLimitConfig) Limiter {
	if !cfg.Enabled {
		logger.Info("Rate limiting disabled")
		return nil
	}
	if client != nil {
		logger.Info("Rate limiting via redis", "rpm", cfg.RequestsPerMinute)
		return NewRedisLimiter(client, cfg.RequestsPerMinute)
	}
	logger.Info("Rate limiting in process", "rpm", cfg.RequestsPerMinute, "burst", cfg.Burst)
	return NewLocalLimiter(cfg.RequestsPerMinute, cfg.Burst)
}
