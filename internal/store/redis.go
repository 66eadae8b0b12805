package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fakebaseball/stats-api/internal/models"
)

const playerNamesKey = "player_names"

// PlayerCache keeps directory lookups and per-player ingest counters in
// Redis.
type PlayerCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPlayerCache(client *redis.Client, ttl time.Duration) *PlayerCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &PlayerCache{client: client, ttl: ttl}
}

func playerKey(id int64) string {
	return "player:" + strconv.FormatInt(id, 10)
}

func appearancesKey(id int64) string {
	return playerKey(id) + ":appearances"
}

// nameKey normalises a display name for the name index.
func nameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// GetPlayer returns nil, nil on a cache miss.
func (c *PlayerCache) GetPlayer(ctx context.Context, id int64) (*models.Player, error) {
	raw, err := c.client.Get(ctx, playerKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get player %d: %w", id, err)
	}
	var p models.Player
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode cached player %d: %w", id, err)
	}
	return &p, nil
}

// SetPlayers caches players and indexes their names.
func (c *PlayerCache) SetPlayers(ctx context.Context, players ...models.Player) error {
	if len(players) == 0 {
		return nil
	}
	pipe := c.client.Pipeline()
	for _, p := range players {
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode player %d: %w", p.PlayerID, err)
		}
		pipe.Set(ctx, playerKey(p.PlayerID), raw, c.ttl)
		if p.PlayerName != "" {
			pipe.HSet(ctx, playerNamesKey, nameKey(p.PlayerName), p.PlayerID)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache players: %w", err)
	}
	return nil
}

// LookupName resolves an exact (case- and spacing-insensitive) name.
func (c *PlayerCache) LookupName(ctx context.Context, name string) (int64, bool, error) {
	raw, err := c.client.HGet(ctx, playerNamesKey, nameKey(name)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup name: %w", err)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse cached id %q: %w", raw, err)
	}
	return id, true, nil
}

// RecordAppearances bumps each participant's per-role counter and indexes
// the names seen in the batch.
func (c *PlayerCache) RecordAppearances(ctx context.Context, pas []models.PlateAppearance) error {
	if len(pas) == 0 {
		return nil
	}
	pipe := c.client.Pipeline()
	for _, pa := range pas {
		if pa.HitterID > 0 {
			pipe.HIncrBy(ctx, appearancesKey(pa.HitterID), string(models.RoleBatting), 1)
			if pa.HitterName != "" {
				pipe.HSet(ctx, playerNamesKey, nameKey(pa.HitterName), pa.HitterID)
			}
		}
		if pa.PitcherID > 0 {
			pipe.HIncrBy(ctx, appearancesKey(pa.PitcherID), string(models.RolePitching), 1)
			if pa.PitcherName != "" {
				pipe.HSet(ctx, playerNamesKey, nameKey(pa.PitcherName), pa.PitcherID)
			}
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record appearances: %w", err)
	}
	return nil
}

// AppearanceCounts returns the ingested appearance count per role.
func (c *PlayerCache) AppearanceCounts(ctx context.Context, id int64) (map[models.Role]int64, error) {
	raw, err := c.client.HGetAll(ctx, appearancesKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("appearance counts %d: %w", id, err)
	}
	out := make(map[models.Role]int64, len(raw))
	for role, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		out[models.Role(role)] = n
	}
	return out, nil
}

func (c *PlayerCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// CachedDirectory puts a PlayerCache in front of a PlayerDirectory. Cache
// errors are logged and never fail a lookup.
type CachedDirectory struct {
	PlayerDirectory
	cache  *PlayerCache
	logger *zap.SugaredLogger
}

func NewCachedDirectory(dir PlayerDirectory, cache *PlayerCache, logger *zap.Logger) *CachedDirectory {
	return &CachedDirectory{PlayerDirectory: dir, cache: cache, logger: logger.Sugar()}
}

func (d *CachedDirectory) GetPlayer(ctx context.Context, playerID int64) (*models.Player, error) {
	if p, err := d.cache.GetPlayer(ctx, playerID); err != nil {
		d.logger.Warnw("Player cache read failed", "player", playerID, "error", err)
	} else if p != nil {
		return p, nil
	}

	p, err := d.PlayerDirectory.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if err := d.cache.SetPlayers(ctx, *p); err != nil {
		d.logger.Warnw("Player cache write failed", "player", playerID, "error", err)
	}
	return p, nil
}

func (d *CachedDirectory) UpsertPlayers(ctx context.Context, players []models.Player) (int, error) {
	n, err := d.PlayerDirectory.UpsertPlayers(ctx, players)
	if n > 0 {
		if cerr := d.cache.SetPlayers(ctx, players[:n]...); cerr != nil {
			d.logger.Warnw("Player cache write failed", "count", n, "error", cerr)
		}
	}
	return n, err
}
