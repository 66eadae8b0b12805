package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fakebaseball/stats-api/internal/models"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps players and plate appearances in one local database file
// laid out like the league's baseball.db export. It serves as EventStore,
// PlayerDirectory and AppearanceWriter for single-node deployments.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// InstallSchema executes an extra schema script against the database.
func (s *SQLiteStore) InstallSchema(ctx context.Context, schema string) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("install sqlite schema: %w", err)
	}
	return nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS players (
	playerID    INTEGER PRIMARY KEY,
	playerName  TEXT NOT NULL DEFAULT '',
	team        TEXT NOT NULL DEFAULT '',
	batType     TEXT NOT NULL DEFAULT '',
	pitchType   TEXT NOT NULL DEFAULT '',
	pitchBonus  TEXT NOT NULL DEFAULT '',
	hand        TEXT NOT NULL DEFAULT '',
	priPos      TEXT NOT NULL DEFAULT '',
	secPos      TEXT NOT NULL DEFAULT '',
	tertPos     TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_players_team ON players(team);

CREATE TABLE IF NOT EXISTS plate_appearances (
	paID             INTEGER PRIMARY KEY,
	league           TEXT NOT NULL DEFAULT '',
	season           INTEGER NOT NULL DEFAULT 0,
	session          INTEGER NOT NULL DEFAULT 0,
	gameID           INTEGER NOT NULL,
	inning           TEXT NOT NULL DEFAULT '',
	inningID         INTEGER NOT NULL DEFAULT 0,
	playNumber       INTEGER NOT NULL DEFAULT 0,
	outs             INTEGER NOT NULL DEFAULT 0,
	obc              INTEGER NOT NULL DEFAULT 0,
	awayScore        INTEGER NOT NULL DEFAULT 0,
	homeScore        INTEGER NOT NULL DEFAULT 0,
	pitcherTeam      TEXT NOT NULL DEFAULT '',
	pitcherName      TEXT NOT NULL DEFAULT '',
	pitcherID        INTEGER NOT NULL,
	hitterTeam       TEXT NOT NULL DEFAULT '',
	hitterName       TEXT NOT NULL DEFAULT '',
	hitterID         INTEGER NOT NULL,
	pitch            INTEGER,
	swing            INTEGER,
	diff             INTEGER,
	exactResult      TEXT NOT NULL DEFAULT '',
	oldResult        TEXT NOT NULL DEFAULT '',
	resultAtNeutral  TEXT NOT NULL DEFAULT '',
	resultAllNeutral TEXT NOT NULL DEFAULT '',
	rbi              INTEGER NOT NULL DEFAULT 0,
	run              INTEGER NOT NULL DEFAULT 0,
	batterWPA        TEXT NOT NULL DEFAULT '',
	pitcherWPA       TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_pa_hitter ON plate_appearances(hitterID, gameID, paID);
CREATE INDEX IF NOT EXISTS idx_pa_pitcher ON plate_appearances(pitcherID, gameID, paID);
`

const sqliteAppearanceColumns = `paID, league, season, session, gameID, inning, inningID, playNumber,
	outs, obc, awayScore, homeScore,
	pitcherTeam, pitcherName, pitcherID, hitterTeam, hitterName, hitterID,
	pitch, swing, diff,
	exactResult, oldResult, resultAtNeutral, resultAllNeutral,
	rbi, run, batterWPA, pitcherWPA`

const sqlitePlayerColumns = `playerID, playerName, team, batType, pitchType, pitchBonus, hand, priPos, secPos, tertPos, status`

func sqliteActorColumn(role models.Role) (string, error) {
	switch role {
	case models.RoleBatting:
		return "hitterID", nil
	case models.RolePitching:
		return "pitcherID", nil
	default:
		return "", fmt.Errorf("unknown role %q", role)
	}
}

func (s *SQLiteStore) AppearancesFor(ctx context.Context, role models.Role, playerID int64) ([]models.PlateAppearance, error) {
	return s.AppearancesForPlayers(ctx, role, []int64{playerID})
}

func (s *SQLiteStore) AppearancesForPlayers(ctx context.Context, role models.Role, playerIDs []int64) ([]models.PlateAppearance, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}
	col, err := sqliteActorColumn(role)
	if err != nil {
		return nil, err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(playerIDs)), ",")
	args := make([]any, len(playerIDs))
	for i, id := range playerIDs {
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT %s FROM plate_appearances WHERE %s IN (%s) ORDER BY gameID, paID`,
		sqliteAppearanceColumns, col, placeholders)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query plate appearances: %w", err)
	}
	defer rows.Close()

	var out []models.PlateAppearance
	for rows.Next() {
		var pa models.PlateAppearance
		var pitch, swing, diff sql.NullInt64
		err := rows.Scan(&pa.PAID, &pa.League, &pa.Season, &pa.Session, &pa.GameID, &pa.Inning, &pa.InningID, &pa.PlayNumber,
			&pa.Outs, &pa.OBC, &pa.AwayScore, &pa.HomeScore,
			&pa.PitcherTeam, &pa.PitcherName, &pa.PitcherID, &pa.HitterTeam, &pa.HitterName, &pa.HitterID,
			&pitch, &swing, &diff,
			&pa.ExactResult, &pa.OldResult, &pa.ResultAtNeutral, &pa.ResultAllNeutral,
			&pa.RBI, &pa.Run, &pa.BatterWPA, &pa.PitcherWPA)
		if err != nil {
			return nil, fmt.Errorf("scan plate appearance: %w", err)
		}
		pa.Pitch, pa.Swing, pa.Diff = nullableInt(pitch), nullableInt(swing), nullableInt(diff)
		out = append(out, pa)
	}
	return out, rows.Err()
}

// WriteAppearances inserts pas in one transaction, replacing rows with the
// same PA ID.
func (s *SQLiteStore) WriteAppearances(ctx context.Context, pas []models.PlateAppearance) error {
	if len(pas) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO plate_appearances (`+sqliteAppearanceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, pa := range pas {
		_, err := stmt.ExecContext(ctx, pa.PAID, pa.League, pa.Season, pa.Session, pa.GameID, pa.Inning, pa.InningID, pa.PlayNumber,
			pa.Outs, pa.OBC, pa.AwayScore, pa.HomeScore,
			pa.PitcherTeam, pa.PitcherName, pa.PitcherID, pa.HitterTeam, pa.HitterName, pa.HitterID,
			nullInt(pa.Pitch), nullInt(pa.Swing), nullInt(pa.Diff),
			pa.ExactResult, pa.OldResult, pa.ResultAtNeutral, pa.ResultAllNeutral,
			pa.RBI, pa.Run, pa.BatterWPA, pa.PitcherWPA)
		if err != nil {
			return fmt.Errorf("insert pa %d: %w", pa.PAID, err)
		}
	}
	return tx.Commit()
}

// SearchPlayers uses LIKE, which SQLite matches case-insensitively for ASCII.
func (s *SQLiteStore) SearchPlayers(ctx context.Context, name string, limit int) ([]models.Player, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqlitePlayerColumns+` FROM players WHERE playerName LIKE ? ORDER BY playerName LIMIT ?`,
		"%"+name+"%", limit)
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

func (s *SQLiteStore) GetPlayer(ctx context.Context, playerID int64) (*models.Player, error) {
	var p models.Player
	err := scanPlayer(s.db.QueryRowContext(ctx, `SELECT `+sqlitePlayerColumns+` FROM players WHERE playerID = ?`, playerID), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player %d: %w", playerID, err)
	}
	return &p, nil
}

func (s *SQLiteStore) Teammates(ctx context.Context, playerID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.playerID
		FROM players p
		JOIN players me ON me.team = p.team
		WHERE me.playerID = ? AND p.playerID <> me.playerID AND p.team <> ''
		ORDER BY p.playerID`, playerID)
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

func (s *SQLiteStore) UpsertPlayers(ctx context.Context, players []models.Player) (int, error) {
	if len(players) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO players (`+sqlitePlayerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range players {
		if _, err := stmt.ExecContext(ctx, p.PlayerID, p.PlayerName, p.Team, p.BatType, p.PitchType, p.PitchBonus,
			p.Hand, p.PriPos, p.SecPos, p.TertPos, p.Status); err != nil {
			return 0, fmt.Errorf("upsert player %d: %w", p.PlayerID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit players: %w", err)
	}
	return len(players), nil
}

func nullableInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}
