package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rajasatyajit/grievance-insights/config"
	"github.com/rajasatyajit/grievance-insights/internal/api"
	"github.com/rajasatyajit/grievance-insights/internal/cache"
	"github.com/rajasatyajit/grievance-insights/internal/database"
	"github.com/rajasatyajit/grievance-insights/internal/lexicon"
	"github.com/rajasatyajit/grievance-insights/internal/logger"
	"github.com/rajasatyajit/grievance-insights/internal/metrics"
	middlewares "github.com/rajasatyajit/grievance-insights/internal/middleware"
	"github.com/rajasatyajit/grievance-insights/internal/pipeline"
	"github.com/rajasatyajit/grievance-insights/internal/ratelimit"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Starting grievance insights API",
		"version", Version,
		"build_time", BuildTime,
		"git_commit", GitCommit,
	)

	// Initialize metrics
	if cfg.Metrics.Enabled {
		metrics.Init()
		logger.Info("Metrics enabled", "port", cfg.Metrics.Port)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database is only needed for the postgres lexicon source
	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", "error", err)
	}
	defer db.Close(ctx)

	rdb, err := database.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to initialize redis", "error", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// Lexicon is loaded once and never changes while serving
	lex, err := lexicon.Load(ctx, cfg.Lexicon, db)
	if err != nil {
		logger.Fatal("Failed to load lexicon", "error", err)
	}

	p := pipeline.New(lex, cfg.Analysis)
	summaryCache := cache.New(rdb, cfg.Cache)
	limiter := ratelimit.New(rdb, cfg.RateLimit)

	apiHandler := api.NewHandler(p, summaryCache, cfg.Analysis, Version, BuildTime, GitCommit)
	if cfg.Lexicon.Source == config.LexiconSourcePostgres && db.IsConfigured() {
		apiHandler.WithDatabase(db)
	}
	r := newRouter(cfg, apiHandler, limiter)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		go startMetricsServer(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	// HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting HTTP server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

// newRouter builds the middleware stack around the API routes
func newRouter(cfg *config.Config, h *api.Handler, limiter ratelimit.Limiter) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.Logging)
	r.Use(middlewares.Metrics)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.WriteTimeout))
	r.Use(middlewares.Security)
	r.Use(middlewares.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middlewares.RateLimit(limiter))

	h.RegisterRoutes(r)
	return r
}

func startMetricsServer(port int, path string) {
	mux := http.NewServeMux()
	mux.Handle(path, metrics.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info("Starting metrics server", "address", addr, "path", path)

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics server failed", "error", err)
	}
}
