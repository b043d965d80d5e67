package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/rajasatyajit/grievance-insights/config"
	"github.com/rajasatyajit/grievance-insights/internal/logger"
)

func TestNew_NoDatabase(t *testing.T) {
	logger.Init("error", "text")

	db, err := New(context.Background(), config.DatabaseConfig{})
	if err != nil {
		t.Errorf("Expected no error for empty database URL, got %v", err)
	}
	if db == nil {
		t.Fatal("Expected DB instance, got nil")
	}
	if db.pool != nil {
		t.Error("Expected pool to be nil when no database URL provided")
	}
	if db.IsConfigured() {
		t.Error("Expected IsConfigured to return false when no database")
	}
	db.Close(context.Background())
	db.Close(context.Background())
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New(context.Background(), config.DatabaseConfig{URL: "invalid-url"})
	if err == nil {
		t.Error("Expected error for invalid database URL, got nil")
	}
}

func TestDB_Operations_NoPool(t *testing.T) {
	db := &DB{}
	ctx := context.Background()

	if err := db.Exec(ctx, "SELECT 1"); err != nil {
		t.Errorf("Expected no error for Exec with no pool, got %v", err)
	}
	if _, err := db.Query(ctx, "SELECT 1"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured for Query with no pool, got %v", err)
	}
	if err := db.Health(ctx); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured for Health with no pool, got %v", err)
	}
}

func TestDB_CollectMetrics_NoPool(t *testing.T) {
	db := &DB{stop: make(chan struct{})}

	done := make(chan struct{})
	go func() {
		db.collectMetrics()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collectMetrics should return immediately without a pool")
	}
}

func TestNewRedis(t *testing.T) {
	ctx := context.Background()

	t.Run("Not configured", func(t *testing.T) {
		client, err := NewRedis(ctx, config.RedisConfig{})
		if err != nil || client != nil {
			t.Errorf("Expected nil client and nil error, got %v, %v", client, err)
		}
	})

	t.Run("Invalid URL", func(t *testing.T) {
		if _, err := NewRedis(ctx, config.RedisConfig{URL: "://bad"}); err == nil {
			t.Error("Expected parse error")
		}
	})

	t.Run("Reachable server", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client, err := NewRedis(ctx, config.RedisConfig{URL: "redis://" + mr.Addr()})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		defer client.Close()
		if err := client.Set(ctx, "k", "v", 0).Err(); err != nil {
			t.Fatalf("set: %v", err)
		}
		if got, _ := mr.Get("k"); got != "v" {
			t.Errorf("Expected value to reach miniredis, got %q", got)
		}
	})

	t.Run("Unreachable server", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()
		if _, err := NewRedis(ctx, config.RedisConfig{URL: "redis://" + addr}); err == nil {
			t.Error("Expected ping error")
		}
	})
}

func BenchmarkDB_Exec(b *testing.B) {
	db := &DB{}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = db.Exec(ctx, "SELECT 1")
	}
}
