// Package app wires the storage backends selected by configuration.
package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fakebaseball/stats-api/internal/config"
	"github.com/fakebaseball/stats-api/internal/handlers"
	"github.com/fakebaseball/stats-api/internal/logic"
	"github.com/fakebaseball/stats-api/internal/store"
)

// Backends is the set of stores selected by STORE_BACKEND, plus the
// optional Redis cache.
type Backends struct {
	Events    store.EventStore
	Writer    store.AppearanceWriter
	Directory store.PlayerDirectory
	Cache     *store.PlayerCache
	Checks    map[string]func(ctx context.Context) error
	Schemas   []handlers.SchemaTarget

	closers []func()
}

// Close releases every connection in reverse order of opening.
func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

// PatternService builds the pattern service over these backends.
func (b *Backends) PatternService(cfg *config.Config, logger *zap.Logger) logic.PatternService {
	return logic.NewPatternService(b.Events, b.Directory, logic.PatternConfig{
		HistoryLimit:  cfg.HistoryLimit,
		SequenceGames: cfg.SequenceGames,
	}, logger)
}

// Open connects to the configured backends. On error everything opened so
// far is closed.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backends, error) {
	b := &Backends{Checks: make(map[string]func(ctx context.Context) error)}
	migration := func(db string) string {
		return filepath.Join(cfg.MigrationsDir, db, "001_initial_schema.sql")
	}

	switch cfg.StoreBackend {
	case config.BackendSQLite:
		db, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() { db.Close() })
		b.Events, b.Writer, b.Directory = db, db, db
		b.Checks["sqlite"] = db.Ping
		b.Schemas = append(b.Schemas, handlers.SchemaTarget{Name: "sqlite", Path: migration("sqlite"), Installer: db})

	case config.BackendClickHouse:
		opts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
		if err != nil {
			return nil, fmt.Errorf("parse clickhouse url: %w", err)
		}
		conn, err := clickhouse.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("open clickhouse: %w", err)
		}
		b.closers = append(b.closers, func() { conn.Close() })

		pg, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		b.closers = append(b.closers, pg.Close)

		ch := store.NewClickHouseStore(conn)
		dir := store.NewPostgresDirectory(pg)
		b.Events, b.Writer, b.Directory = ch, ch, dir
		b.Checks["clickhouse"] = ch.Ping
		b.Checks["postgres"] = pg.Ping
		b.Schemas = append(b.Schemas,
			handlers.SchemaTarget{Name: "postgres", Path: migration("postgres"), Installer: dir},
			handlers.SchemaTarget{Name: "clickhouse", Path: migration("clickhouse"), Installer: ch},
		)

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		b.closers = append(b.closers, func() { client.Close() })

		b.Cache = store.NewPlayerCache(client, cfg.PlayerCacheTTL)
		b.Directory = store.NewCachedDirectory(b.Directory, b.Cache, logger)
		b.Checks["redis"] = b.Cache.Ping
	}

	return b, nil
}
