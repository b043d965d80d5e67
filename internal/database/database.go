package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rajasatyajit/grievance-insights/config"
	"github.com/rajasatyajit/grievance-insights/internal/logger"
	"github.com/rajasatyajit/grievance-insights/internal/metrics"
)

const (
	connectTimeout   = 30 * time.Second
	statementTimeout = 30 * time.Second
	healthTimeout    = 5 * time.Second
	statsInterval    = 30 * time.Second
)

// ErrNotConfigured is returned by reads when no DATABASE_URL was given
var ErrNotConfigured = errors.New("database not configured")

// DB wraps a pgx pool. A DB without a pool is valid: writes are no-ops and
// reads report ErrNotConfigured, so callers can run without Postgres.
type DB struct {
	pool *pgxpool.Pool
	cfg  config.DatabaseConfig

	stop     chan struct{}
	stopOnce sync.Once
}

// New connects to Postgres when cfg.URL is set
func New(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	if cfg.URL == "" {
		logger.Info("DATABASE_URL not set; postgres lexicon source unavailable")
		return &DB{cfg: cfg, stop: make(chan struct{})}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		logger.Debug("Database connection established", "pid", conn.PgConn().PID())
		return nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	db := &DB{pool: pool, cfg: cfg, stop: make(chan struct{})}
	go db.collectMetrics()

	logger.Info("Database connection established",
		"max_conns", cfg.MaxConns,
		"min_conns", cfg.MinConns,
	)

	return db, nil
}

// Close stops the stats loop and closes the pool
func (d *DB) Close(ctx context.Context) {
	d.stopOnce.Do(func() {
		if d.stop != nil {
			close(d.stop)
		}
	})
	if d.pool != nil {
		d.pool.Close()
		logger.Info("Database connection closed")
	}
}

// collectMetrics publishes pool usage until Close
func (d *DB) collectMetrics() {
	if d.pool == nil {
		return
	}

	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			stat := d.pool.Stat()
			metrics.SetDBConnectionsActive(float64(stat.AcquiredConns()))
		}
	}
}

// Exec executes a statement. Without arguments pgx uses the simple protocol,
// so multi-statement scripts such as scripts/init.sql are accepted.
func (d *DB) Exec(ctx context.Context, sql string, args ...any) error {
	if d.pool == nil {
		return nil
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, statementTimeout)
	defer cancel()

	_, err := d.pool.Exec(ctx, sql, args...)
	d.observe("exec", sql, start, err)
	return err
}

// Query executes a query and returns pgx.Rows as interface{} so that callers
// can depend on a narrow interface of their own
func (d *DB) Query(ctx context.Context, sql string, args ...any) (interface{}, error) {
	if d.pool == nil {
		return nil, ErrNotConfigured
	}

	start := time.Now()
	// The rows outlive this call, so the statement timeout is left to the
	// caller's context.
	rows, err := d.pool.Query(ctx, sql, args...)
	d.observe("query", sql, start, err)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Health checks database connectivity
func (d *DB) Health(ctx context.Context) error {
	if d.pool == nil {
		return ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	return d.pool.Ping(ctx)
}

// IsConfigured returns true if database is configured
func (d *DB) IsConfigured() bool {
	return d.pool != nil
}

func (d *DB) observe(op, sql string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
		logger.Error("Database "+op+" failed", "error", err, "sql", sql)
	} else {
		logger.Debug("Database "+op,
			"sql", sql,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	metrics.RecordDBQuery(op, status)
}
