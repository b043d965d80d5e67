// Package cache memoizes dashboard summaries for repeated batches. Results are
// deterministic for a given lexicon and input, so an entry never goes stale
// while the lexicon fingerprint in its key is unchanged.
package cache

import (
	"context"
	"strconv"

	redis "github.com/redis/go-redis/v9"

	"github.com/rajasatyajit/grievance-insights/config"
	"github.com/rajasatyajit/grievance-insights/internal/logger"
	"github.com/rajasatyajit/grievance-insights/internal/models"
	"github.com/rajasatyajit/grievance-insights/pkg/utils"
)

const keyPrefix = "grievance:summary:"

// Cache stores summaries by key
type Cache interface {
	Get(ctx context.Context, key string) (*models.DashboardSummary, bool, error)
	Set(ctx context.Context, key string, summary *models.DashboardSummary) error
	Health(ctx context.Context) error
	Name() string
}

// New picks the cache backend: none when disabled, Redis when a client is
// given, otherwise a bounded in-process cache.
func New(client *redis.Client, cfg config.CacheConfig) Cache {
	var c Cache
	switch {
	case !cfg.Enabled:
		c = NoopCache{}
	case client != nil:
		c = NewRedisCache(client, cfg.TTL)
	default:
		c = NewInMemoryCache(cfg.TTL, cfg.MaxEntries)
	}

	logger.Info("Summary cache initialized", "backend", c.Name(), "ttl", cfg.TTL.String())
	return c
}

// Key derives the cache key for one request. scope names the pipeline
// settings that shape a summary. Raw texts are hashed in order, since blank
// filtering and ordering both affect the summary.
func Key(scope string, details bool, items []models.RawComplaint) string {
	parts := make([]string, 0, len(items)+3)
	parts = append(parts, "v2", scope, strconv.FormatBool(details))
	for _, item := range items {
		parts = append(parts, item.RawText)
	}
	return keyPrefix + utils.HashStrings(parts...)
}

// NoopCache never stores anything
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, key string) (*models.DashboardSummary, bool, error) {
	return nil, false, nil
}

func (NoopCache) Set(ctx context.Context, key string, summary *models.DashboardSummary) error {
	return nil
}

func (NoopCache) Health(ctx context.Context) error { return nil }

func (NoopCache) Name() string { return "none" }
