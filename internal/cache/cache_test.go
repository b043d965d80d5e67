package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"

	"github.com/rajasatyajit/grievance-insights/config"
	"github.com/rajasatyajit/grievance-insights/internal/models"
)

func testSummary(total int) *models.DashboardSummary {
	return &models.DashboardSummary{
		TotalComplaints:           total,
		ComplaintVolumeByCategory: map[string]int{"Noise": total},
		SentimentOverview:         map[string]int{"Positive": 0, "Negative": total, "Neutral": 0},
		UrgencyDistribution:       map[string]int{"Low": total, "Medium": 0, "High": 0},
		WeeklySummary:             "summary",
		TopRecurringIssues:        []string{"noise"},
	}
}

func TestKey(t *testing.T) {
	items := models.Texts("wifi down", "noise")

	a := Key("fp", true, items)
	if !strings.HasPrefix(a, keyPrefix) {
		t.Errorf("Expected key prefix %s, got %s", keyPrefix, a)
	}
	if a != Key("fp", true, models.Texts("wifi down", "noise")) {
		t.Error("Expected identical inputs to produce identical keys")
	}

	different := []string{
		Key("fp2", true, items),
		Key("fp;top=1;min=3", true, items),
		Key("fp", false, items),
		Key("fp", true, models.Texts("noise", "wifi down")),
		Key("fp", true, models.Texts("wifi", "down noise")),
		Key("fp", true, models.Texts("wifi down", "noise", "")),
	}
	for i, k := range different {
		if k == a {
			t.Errorf("Variant %d produced the same key", i)
		}
	}
}

func TestInMemoryCache_GetSet(t *testing.T) {
	c := NewInMemoryCache(time.Minute, 10)
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "missing"); ok || err != nil {
		t.Errorf("Expected miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "k", testSummary(3)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Expected hit, got ok=%v err=%v", ok, err)
	}
	if got.TotalComplaints != 3 {
		t.Errorf("Expected total 3, got %d", got.TotalComplaints)
	}

	got.TotalComplaints = 99
	again, _, _ := c.Get(ctx, "k")
	if again.TotalComplaints != 3 {
		t.Error("Expected cached value to be unaffected by caller mutation")
	}

	if err := c.Set(ctx, "k", testSummary(5)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	replaced, _, _ := c.Get(ctx, "k")
	if replaced.TotalComplaints != 5 || c.Len() != 1 {
		t.Errorf("Expected replacement in place, got total=%d len=%d", replaced.TotalComplaints, c.Len())
	}

	if err := c.Set(ctx, "nil", nil); err != nil || c.Len() != 1 {
		t.Errorf("Expected nil summary to be ignored")
	}
}

func TestInMemoryCache_Expiry(t *testing.T) {
	c := NewInMemoryCache(time.Minute, 10)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_ = c.Set(ctx, "k", testSummary(1))

	now = now.Add(59 * time.Second)
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Error("Expected entry before TTL")
	}

	now = now.Add(time.Second)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Expected entry to expire at TTL")
	}
	if c.Len() != 0 {
		t.Errorf("Expected expired entry to be removed, got len %d", c.Len())
	}
}

func TestInMemoryCache_Eviction(t *testing.T) {
	c := NewInMemoryCache(0, 2)
	ctx := context.Background()

	_ = c.Set(ctx, "a", testSummary(1))
	_ = c.Set(ctx, "b", testSummary(2))
	_, _, _ = c.Get(ctx, "a") // a becomes most recent
	_ = c.Set(ctx, "c", testSummary(3))

	if _, ok, _ := c.Get(ctx, "b"); ok {
		t.Error("Expected least recently used entry b to be evicted")
	}
	if _, ok, _ := c.Get(ctx, "a"); !ok {
		t.Error("Expected a to survive")
	}
	if _, ok, _ := c.Get(ctx, "c"); !ok {
		t.Error("Expected c to be present")
	}
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedisCache(client, time.Minute)
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "missing"); ok || err != nil {
		t.Errorf("Expected miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "k", testSummary(4)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ttl := mr.TTL("k"); ttl != time.Minute {
		t.Errorf("Expected TTL of 1m, got %v", ttl)
	}

	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Expected hit, got ok=%v err=%v", ok, err)
	}
	if got.TotalComplaints != 4 || got.TopRecurringIssues[0] != "noise" {
		t.Errorf("Unexpected summary: %+v", got)
	}
	if got.ProcessedComplaints != nil {
		t.Errorf("Expected no details, got %v", got.ProcessedComplaints)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Expected entry to expire")
	}

	if err := mr.Set("bad", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, _, err := c.Get(ctx, "bad"); err == nil {
		t.Error("Expected decode error for corrupt entry")
	}

	if err := c.Health(ctx); err != nil {
		t.Errorf("Expected healthy, got %v", err)
	}
	mr.Close()
	if err := c.Health(ctx); err == nil {
		t.Error("Expected health error after server shutdown")
	}
}

func TestNew_SelectsBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	tests := []struct {
		name   string
		client *redis.Client
		cfg    config.CacheConfig
		want   string
	}{
		{"disabled", client, config.CacheConfig{Enabled: false}, "none"},
		{"redis", client, config.CacheConfig{Enabled: true, TTL: time.Minute}, "redis"},
		{"memory", nil, config.CacheConfig{Enabled: true, TTL: time.Minute, MaxEntries: 8}, "memory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.client, tt.cfg).Name(); got != tt.want {
				t.Errorf("Expected backend %s, got %s", tt.want, got)
			}
		})
	}

	noop := NoopCache{}
	_ = noop.Set(context.Background(), "k", testSummary(1))
	if _, ok, _ := noop.Get(context.Background(), "k"); ok {
		t.Error("Expected noop cache to never hit")
	}
}
