package logic

import (
	"context"
	"sync"

	"github.com/fakebaseball/stats-api/internal/models"
	"github.com/fakebaseball/stats-api/internal/store"
)

type stubEvents struct {
	mu       sync.Mutex
	byRole   map[models.Role][]models.PlateAppearance
	err      error
	peerArgs [][]int64
}

func newStubEvents(pas ...models.PlateAppearance) *stubEvents {
	return &stubEvents{byRole: map[models.Role][]models.PlateAppearance{
		models.RoleBatting:  pas,
		models.RolePitching: pas,
	}}
}

func (s *stubEvents) AppearancesFor(ctx context.Context, role models.Role, playerID int64) ([]models.PlateAppearance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter(role, []int64{playerID})
}

func (s *stubEvents) AppearancesForPlayers(ctx context.Context, role models.Role, playerIDs []int64) ([]models.PlateAppearance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.peerArgs = append(s.peerArgs, playerIDs)
	return s.filter(role, playerIDs)
}

func (s *stubEvents) filter(role models.Role, playerIDs []int64) ([]models.PlateAppearance, error) {
	if s.err != nil {
		return nil, s.err
	}
	want := make(map[int64]bool, len(playerIDs))
	for _, id := range playerIDs {
		want[id] = true
	}
	var out []models.PlateAppearance
	for _, pa := range s.byRole[role] {
		if want[pa.ActorID(role)] {
			out = append(out, pa)
		}
	}
	return out, nil
}

type stubDirectory struct {
	mu            sync.Mutex
	players       map[int64]models.Player
	teams         map[int64][]int64
	search        []models.Player
	getErr        error
	teammateCalls int
}

func (d *stubDirectory) SearchPlayers(ctx context.Context, name string, limit int) ([]models.Player, error) {
	return append([]models.Player(nil), d.search...), nil
}

func (d *stubDirectory) GetPlayer(ctx context.Context, playerID int64) (*models.Player, error) {
	if d.getErr != nil {
		return nil, d.getErr
	}
	p, ok := d.players[playerID]
	if !ok {
		return nil, store.ErrPlayerNotFound
	}
	return &p, nil
}

func (d *stubDirectory) Teammates(ctx context.Context, playerID int64) ([]int64, error) {
	d.mu.Lock()
	d.teammateCalls++
	d.mu.Unlock()
	return d.teams[playerID], nil
}

func (d *stubDirectory) UpsertPlayers(ctx context.Context, players []models.Player) (int, error) {
	return len(players), nil
}

func intp(v int) *int { return &v }

// swings builds consecutive batting appearances for hitter in game.
func swings(hitter, game, firstPA int64, values ...int) []models.PlateAppearance {
	out := make([]models.PlateAppearance, len(values))
	for i, v := range values {
		out[i] = models.PlateAppearance{
			PAID:      firstPA + int64(i),
			GameID:    game,
			PitcherID: 900,
			HitterID:  hitter,
			Swing:     intp(v),
			Pitch:     intp(500),
			Diff:      intp(100),
		}
	}
	return out
}
