// Package store holds the persistence backends: ClickHouse for plate
// appearances, Postgres for the player directory, Redis for the player
// cache, and a single-file SQLite store that serves all three roles.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fakebaseball/stats-api/internal/models"
)

// ErrPlayerNotFound is returned when a player ID is not in the directory.
var ErrPlayerNotFound = errors.New("player not found")

// EventStore reads plate appearances. Results are ordered by (game, PA).
type EventStore interface {
	AppearancesFor(ctx context.Context, role models.Role, playerID int64) ([]models.PlateAppearance, error)
	AppearancesForPlayers(ctx context.Context, role models.Role, playerIDs []int64) ([]models.PlateAppearance, error)
}

// AppearanceWriter persists plate appearances. Writing an appearance whose
// PA ID already exists replaces it.
type AppearanceWriter interface {
	WriteAppearances(ctx context.Context, pas []models.PlateAppearance) error
}

// PlayerDirectory looks players up and resolves peer groups.
type PlayerDirectory interface {
	SearchPlayers(ctx context.Context, name string, limit int) ([]models.Player, error)
	GetPlayer(ctx context.Context, playerID int64) (*models.Player, error)
	// Teammates returns the other players on playerID's team.
	Teammates(ctx context.Context, playerID int64) ([]int64, error)
	UpsertPlayers(ctx context.Context, players []models.Player) (int, error)
}

// SchemaInstaller applies a SQL schema file to a backend.
type SchemaInstaller interface {
	InstallSchema(ctx context.Context, schema string) error
}

// PgPool is the subset of pgxpool.Pool the directory needs.
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// actorColumn is the column holding role's player ID.
func actorColumn(role models.Role) (string, error) {
	switch role {
	case models.RoleBatting:
		return "hitter_id", nil
	case models.RolePitching:
		return "pitcher_id", nil
	default:
		return "", fmt.Errorf("unknown role %q", role)
	}
}

// DefaultSearchLimit caps name searches.
const DefaultSearchLimit = 5
