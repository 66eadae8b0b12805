package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendClickHouse = "clickhouse"
	BackendSQLite     = "sqlite"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Storage
	StoreBackend string
	SQLitePath   string

	// Database URLs
	PostgresURL   string
	ClickHouseURL string
	RedisURL      string

	// Worker pool
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration

	// Reports
	HistoryLimit   int
	SequenceGames  int
	PlayerCacheTTL time.Duration

	// Migrations
	MigrationsDir string
}

// Load loads configuration from environment variables, after reading an
// optional .env file in the working directory.
// It returns an error if critical configuration is missing.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendClickHouse)),
		SQLitePath:   getEnv("SQLITE_PATH", "data/baseball.db"),

		WorkerCount:   getEnvInt("WORKER_COUNT", 8),
		QueueSize:     getEnvInt("QUEUE_SIZE", 10000),
		BatchSize:     getEnvInt("BATCH_SIZE", 500),
		FlushInterval: getEnvDuration("FLUSH_INTERVAL", 1*time.Second),

		HistoryLimit:   getEnvInt("HISTORY_LIMIT", 10),
		SequenceGames:  getEnvInt("SEQUENCE_GAMES", 5),
		PlayerCacheTTL: getEnvDuration("PLAYER_CACHE_TTL", 15*time.Minute),

		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),

		RedisURL: os.Getenv("REDIS_URL"),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	switch cfg.StoreBackend {
	case BackendSQLite:
		// Redis stays optional: the SQLite store serves every role on its own.
	case BackendClickHouse:
		// Critical configuration - fail if missing
		var err error
		if cfg.PostgresURL, err = getEnvRequired("POSTGRES_URL"); err != nil {
			return nil, err
		}
		if cfg.ClickHouseURL, err = getEnvRequired("CLICKHOUSE_URL"); err != nil {
			return nil, err
		}
		if cfg.RedisURL, err = getEnvRequired("REDIS_URL"); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q (want %s or %s)", cfg.StoreBackend, BackendClickHouse, BackendSQLite)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvRequired(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("missing required environment variable: %s", key)
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
