package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fakebaseball/stats-api/internal/models"
)

const playerColumns = `player_id, player_name, team, bat_type, pitch_type, pitch_bonus, hand, pri_pos, sec_pos, tert_pos, status`

// PostgresDirectory is the player directory backed by the players table.
type PostgresDirectory struct {
	pg PgPool
}

func NewPostgresDirectory(pg PgPool) *PostgresDirectory {
	return &PostgresDirectory{pg: pg}
}

// SearchPlayers does a case-insensitive substring match on player names.
func (d *PostgresDirectory) SearchPlayers(ctx context.Context, name string, limit int) ([]models.Player, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	rows, err := d.pg.Query(ctx, `
		SELECT `+playerColumns+`
		FROM players
		WHERE player_name ILIKE $1
		ORDER BY player_name
		LIMIT $2
	`, "%"+name+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search players: %w", err)
	}
	defer rows.Close()

	players := []models.Player{}
	for rows.Next() {
		var p models.Player
		if err := scanPlayer(rows, &p); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// GetPlayer returns ErrPlayerNotFound for unknown IDs.
func (d *PostgresDirectory) GetPlayer(ctx context.Context, playerID int64) (*models.Player, error) {
	var p models.Player
	err := scanPlayer(d.pg.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE player_id = $1`, playerID), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player %d: %w", playerID, err)
	}
	return &p, nil
}

func (d *PostgresDirectory) Teammates(ctx context.Context, playerID int64) ([]int64, error) {
	rows, err := d.pg.Query(ctx, `
		SELECT p.player_id
		FROM players p
		JOIN players me ON me.team = p.team
		WHERE me.player_id = $1 AND p.player_id <> $1 AND p.team <> ''
		ORDER BY p.player_id
	`, playerID)
	if err != nil {
		return nil, fmt.Errorf("teammates of %d: %w", playerID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan teammate: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpsertPlayers inserts or updates each player and returns how many rows
// were written.
func (d *PostgresDirectory) UpsertPlayers(ctx context.Context, players []models.Player) (int, error) {
	n := 0
	for _, p := range players {
		_, err := d.pg.Exec(ctx, `
			INSERT INTO players (`+playerColumns+`, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
			ON CONFLICT (player_id) DO UPDATE SET
				player_name = EXCLUDED.player_name,
				team = EXCLUDED.team,
				bat_type = EXCLUDED.bat_type,
				pitch_type = EXCLUDED.pitch_type,
				pitch_bonus = EXCLUDED.pitch_bonus,
				hand = EXCLUDED.hand,
				pri_pos = EXCLUDED.pri_pos,
				sec_pos = EXCLUDED.sec_pos,
				tert_pos = EXCLUDED.tert_pos,
				status = EXCLUDED.status,
				updated_at = NOW()
		`, p.PlayerID, p.PlayerName, p.Team, p.BatType, p.PitchType, p.PitchBonus,
			p.Hand, p.PriPos, p.SecPos, p.TertPos, p.Status)
		if err != nil {
			return n, fmt.Errorf("upsert player %d: %w", p.PlayerID, err)
		}
		n++
	}
	return n, nil
}

// InstallSchema executes schema as one multi-statement script.
func (d *PostgresDirectory) InstallSchema(ctx context.Context, schema string) error {
	if _, err := d.pg.Exec(ctx, schema); err != nil {
		return fmt.Errorf("install postgres schema: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner, p *models.Player) error {
	return row.Scan(&p.PlayerID, &p.PlayerName, &p.Team, &p.BatType, &p.PitchType, &p.PitchBonus,
		&p.Hand, &p.PriPos, &p.SecPos, &p.TertPos, &p.Status)
}
