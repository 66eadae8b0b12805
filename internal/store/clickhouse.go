package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/fakebaseball/stats-api/internal/models"
)

const appearanceColumns = `pa_id, league, season, session, game_id, inning, inning_id, play_number,
	outs, obc, away_score, home_score,
	pitcher_team, pitcher_name, pitcher_id, hitter_team, hitter_name, hitter_id,
	pitch, swing, diff,
	exact_result, old_result, result_at_neutral, result_all_neutral,
	rbi, run, batter_wpa, pitcher_wpa`

// ClickHouseStore keeps plate appearances in a ReplacingMergeTree keyed by
// PA ID, so re-ingesting a PA replaces the earlier row.
type ClickHouseStore struct {
	conn driver.Conn
}

func NewClickHouseStore(conn driver.Conn) *ClickHouseStore {
	return &ClickHouseStore{conn: conn}
}

// AppearancesFor returns every appearance where playerID acted in role.
func (s *ClickHouseStore) AppearancesFor(ctx context.Context, role models.Role, playerID int64) ([]models.PlateAppearance, error) {
	col, err := actorColumn(role)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM pa_stats.plate_appearances FINAL
		WHERE %s = ?
		ORDER BY game_id, pa_id
	`, appearanceColumns, col)
	return s.query(ctx, query, playerID)
}

// AppearancesForPlayers returns the appearances of several players at once.
func (s *ClickHouseStore) AppearancesForPlayers(ctx context.Context, role models.Role, playerIDs []int64) ([]models.PlateAppearance, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}
	col, err := actorColumn(role)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM pa_stats.plate_appearances FINAL
		WHERE %s IN (?)
		ORDER BY game_id, pa_id
	`, appearanceColumns, col)
	return s.query(ctx, query, playerIDs)
}

func (s *ClickHouseStore) query(ctx context.Context, query string, args ...interface{}) ([]models.PlateAppearance, error) {
	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query plate appearances: %w", err)
	}
	defer rows.Close()

	var out []models.PlateAppearance
	for rows.Next() {
		var r chRow
		if err := rows.Scan(r.dest()...); err != nil {
			return nil, fmt.Errorf("scan plate appearance: %w", err)
		}
		out = append(out, r.appearance())
	}
	return out, rows.Err()
}

// WriteAppearances batch-inserts pas.
func (s *ClickHouseStore) WriteAppearances(ctx context.Context, pas []models.PlateAppearance) error {
	if len(pas) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO pa_stats.plate_appearances ("+appearanceColumns+")")
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for i := range pas {
		if err := batch.Append(chRowFrom(&pas[i]).values()...); err != nil {
			return fmt.Errorf("append pa %d: %w", pas[i].PAID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// InstallSchema runs each statement of schema in turn; the driver does not
// accept multi-statement DDL.
func (s *ClickHouseStore) InstallSchema(ctx context.Context, schema string) error {
	for _, stmt := range strings.Split(schema, ";") {
		trimmed := strings.TrimSpace(stmt)
		if trimmed == "" {
			continue
		}
		if err := s.conn.Exec(ctx, trimmed); err != nil {
			return fmt.Errorf("exec %q: %w", trimmed[:min(len(trimmed), 50)], err)
		}
	}
	return nil
}

// Ping checks the connection.
func (s *ClickHouseStore) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// chRow mirrors the ClickHouse column types of a plate appearance.
type chRow struct {
	PAID             int64
	League           string
	Season           int32
	Session          int32
	GameID           int64
	Inning           string
	InningID         int64
	PlayNumber       int32
	Outs             int32
	OBC              int32
	AwayScore        int32
	HomeScore        int32
	PitcherTeam      string
	PitcherName      string
	PitcherID        int64
	HitterTeam       string
	HitterName       string
	HitterID         int64
	Pitch            *int32
	Swing            *int32
	Diff             *int32
	ExactResult      string
	OldResult        string
	ResultAtNeutral  string
	ResultAllNeutral string
	RBI              int32
	Run              int32
	BatterWPA        string
	PitcherWPA       string
}

func (r *chRow) dest() []interface{} {
	return []interface{}{
		&r.PAID, &r.League, &r.Season, &r.Session, &r.GameID, &r.Inning, &r.InningID, &r.PlayNumber,
		&r.Outs, &r.OBC, &r.AwayScore, &r.HomeScore,
		&r.PitcherTeam, &r.PitcherName, &r.PitcherID, &r.HitterTeam, &r.HitterName, &r.HitterID,
		&r.Pitch, &r.Swing, &r.Diff,
		&r.ExactResult, &r.OldResult, &r.ResultAtNeutral, &r.ResultAllNeutral,
		&r.RBI, &r.Run, &r.BatterWPA, &r.PitcherWPA,
	}
}

func (r *chRow) values() []interface{} {
	return []interface{}{
		r.PAID, r.League, r.Season, r.Session, r.GameID, r.Inning, r.InningID, r.PlayNumber,
		r.Outs, r.OBC, r.AwayScore, r.HomeScore,
		r.PitcherTeam, r.PitcherName, r.PitcherID, r.HitterTeam, r.HitterName, r.HitterID,
		r.Pitch, r.Swing, r.Diff,
		r.ExactResult, r.OldResult, r.ResultAtNeutral, r.ResultAllNeutral,
		r.RBI, r.Run, r.BatterWPA, r.PitcherWPA,
	}
}

func (r *chRow) appearance() models.PlateAppearance {
	return models.PlateAppearance{
		PAID:             r.PAID,
		League:           r.League,
		Season:           int(r.Season),
		Session:          int(r.Session),
		GameID:           r.GameID,
		Inning:           r.Inning,
		InningID:         r.InningID,
		PlayNumber:       int(r.PlayNumber),
		Outs:             int(r.Outs),
		OBC:              int(r.OBC),
		AwayScore:        int(r.AwayScore),
		HomeScore:        int(r.HomeScore),
		PitcherTeam:      r.PitcherTeam,
		PitcherName:      r.PitcherName,
		PitcherID:        r.PitcherID,
		HitterTeam:       r.HitterTeam,
		HitterName:       r.HitterName,
		HitterID:         r.HitterID,
		Pitch:            fromInt32(r.Pitch),
		Swing:            fromInt32(r.Swing),
		Diff:             fromInt32(r.Diff),
		ExactResult:      r.ExactResult,
		OldResult:        r.OldResult,
		ResultAtNeutral:  r.ResultAtNeutral,
		ResultAllNeutral: r.ResultAllNeutral,
		RBI:              int(r.RBI),
		Run:              int(r.Run),
		BatterWPA:        r.BatterWPA,
		PitcherWPA:       r.PitcherWPA,
	}
}

func chRowFrom(pa *models.PlateAppearance) *chRow {
	return &chRow{
		PAID:             pa.PAID,
		League:           pa.League,
		Season:           int32(pa.Season),
		Session:          int32(pa.Session),
		GameID:           pa.GameID,
		Inning:           pa.Inning,
		InningID:         pa.InningID,
		PlayNumber:       int32(pa.PlayNumber),
		Outs:             int32(pa.Outs),
		OBC:              int32(pa.OBC),
		AwayScore:        int32(pa.AwayScore),
		HomeScore:        int32(pa.HomeScore),
		PitcherTeam:      pa.PitcherTeam,
		PitcherName:      pa.PitcherName,
		PitcherID:        pa.PitcherID,
		HitterTeam:       pa.HitterTeam,
		HitterName:       pa.HitterName,
		HitterID:         pa.HitterID,
		Pitch:            toInt32(pa.Pitch),
		Swing:            toInt32(pa.Swing),
		Diff:             toInt32(pa.Diff),
		ExactResult:      pa.ExactResult,
		OldResult:        pa.OldResult,
		ResultAtNeutral:  pa.ResultAtNeutral,
		ResultAllNeutral: pa.ResultAllNeutral,
		RBI:              int32(pa.RBI),
		Run:              int32(pa.Run),
		BatterWPA:        pa.BatterWPA,
		PitcherWPA:       pa.PitcherWPA,
	}
}

func fromInt32(p *int32) *int {
	if p == nil {
		return nil
	}
	v := int(*p)
	return &v
}

func toInt32(p *int) *int32 {
	if p == nil {
		return nil
	}
	v := int32(*p)
	return &v
}
