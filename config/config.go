package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Lexicon sources
const (
	LexiconSourceBuiltin  = "builtin"
	LexiconSourceFile     = "file"
	LexiconSourcePostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Analysis  AnalysisConfig
	Lexicon   LexiconConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Logging   LoggingConfig
	Metrics   MetricsConfig
}

type ServerConfig struct {
	Host                    string
	Port                    int
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	IdleTimeout             time.Duration
	GracefulShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

// AnalysisConfig tunes the batch engine and its transport limits
type AnalysisConfig struct {
	WorkerCount       int
	ParallelThreshold int
	TopIssues         int
	MinTokenLength    int
	MaxBatchSize      int
	MaxUploadBytes    int64
}

type LexiconConfig struct {
	Source string // builtin, file or postgres
	Path   string // YAML file when Source is file
}

type CacheConfig struct {
	Enabled    bool
	TTL        time.Duration
	MaxEntries int
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	Burst             int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LoggingConfig struct {
	Level  string
	Format string // json or text
}

type MetricsConfig struct {
	Enabled bool
	Port    int
	Path    string
}

// Load loads configuration from environment variables with sensible defaults.
// A dotenv file (ENV_FILE, default .env) is read first when present; variables
// already set in the environment win.
func Load() (*Config, error) {
	if err := loadDotEnv(getEnv("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:                    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:                    getEnvInt("SERVER_PORT", 8000),
			ReadTimeout:             getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:            getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:             getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			GracefulShutdownTimeout: getEnvDuration("SERVER_GRACEFUL_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvInt("DB_MAX_CONNS", 5),
			MinConns:        getEnvInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvDuration("DB_MAX_CONN_LIFETIME", 1*time.Hour),
			MaxConnIdleTime: getEnvDuration("DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Analysis: AnalysisConfig{
			WorkerCount:       getEnvInt("ANALYSIS_WORKER_COUNT", 4),
			ParallelThreshold: getEnvInt("ANALYSIS_PARALLEL_THRESHOLD", 32),
			TopIssues:         getEnvInt("ANALYSIS_TOP_ISSUES", 5),
			MinTokenLength:    getEnvInt("ANALYSIS_MIN_TOKEN_LENGTH", 3),
			MaxBatchSize:      getEnvInt("ANALYSIS_MAX_BATCH_SIZE", 10000),
			MaxUploadBytes:    int64(getEnvInt("ANALYSIS_MAX_UPLOAD_BYTES", 10<<20)),
		},
		Lexicon: LexiconConfig{
			Source: strings.ToLower(getEnv("LEXICON_SOURCE", LexiconSourceBuiltin)),
			Path:   getEnv("LEXICON_PATH", ""),
		},
		Cache: CacheConfig{
			Enabled:    getEnvBool("CACHE_ENABLED", true),
			TTL:        getEnvDuration("CACHE_TTL", 10*time.Minute),
			MaxEntries: getEnvInt("CACHE_MAX_ENTRIES", 256),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnvBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute: getEnvInt("RATE_LIMIT_RPM", 120),
			Burst:             getEnvInt("RATE_LIMIT_BURST", 20),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Port:    getEnvInt("METRICS_PORT", 9090),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Analysis.WorkerCount < 1 {
		return fmt.Errorf("analysis worker count must be at least 1")
	}
	if c.Analysis.TopIssues < 1 {
		return fmt.Errorf("analysis top issues must be at least 1")
	}
	if c.Analysis.MinTokenLength < 1 {
		return fmt.Errorf("analysis min token length must be at least 1")
	}
	if c.Analysis.MaxBatchSize < 1 {
		return fmt.Errorf("analysis max batch size must be at least 1")
	}
	switch c.Lexicon.Source {
	case LexiconSourceBuiltin:
	case LexiconSourceFile:
		if c.Lexicon.Path == "" {
			return fmt.Errorf("LEXICON_PATH is required when LEXICON_SOURCE=file")
		}
	case LexiconSourcePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when LEXICON_SOURCE=postgres")
		}
		if c.Database.MaxConns < 1 {
			return fmt.Errorf("database max connections must be at least 1")
		}
	default:
		return fmt.Errorf("unknown lexicon source: %q", c.Lexicon.Source)
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute < 1 {
		return fmt.Errorf("rate limit requests per minute must be at least 1")
	}
	return nil
}

// loadDotEnv loads a dotenv file without overriding variables already set
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty items
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
