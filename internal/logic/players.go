package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fakebaseball/stats-api/internal/models"
	"github.com/fakebaseball/stats-api/internal/store"
)

type playerService struct {
	dir    store.PlayerDirectory
	cache  *store.PlayerCache
	logger *zap.SugaredLogger
}

// NewPlayerService returns a PlayerService over dir. cache may be nil; when
// set, an exact name match from the ingest name index is listed first.
func NewPlayerService(dir store.PlayerDirectory, cache *store.PlayerCache, logger *zap.Logger) PlayerService {
	return &playerService{dir: dir, cache: cache, logger: logger.Sugar()}
}

func (s *playerService) Search(ctx context.Context, name string) ([]models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return []models.Player{}, nil
	}

	players, err := s.dir.SearchPlayers(ctx, name, store.DefaultSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", name, err)
	}
	if s.cache == nil {
		return players, nil
	}

	id, ok, err := s.cache.LookupName(ctx, name)
	if err != nil {
		s.logger.Warnw("Name index lookup failed", "name", name, "error", err)
		return players, nil
	}
	if !ok {
		return players, nil
	}

	exact := -1
	for i, p := range players {
		if p.PlayerID == id {
			exact = i
			break
		}
	}
	switch {
	case exact > 0:
		p := players[exact]
		copy(players[1:exact+1], players[:exact])
		players[0] = p
	case exact < 0:
		p, err := s.dir.GetPlayer(ctx, id)
		if err != nil {
			if !errors.Is(err, store.ErrPlayerNotFound) {
				s.logger.Warnw("Indexed player lookup failed", "player", id, "error", err)
			}
			return players, nil
		}
		players = append([]models.Player{*p}, players...)
		if len(players) > store.DefaultSearchLimit {
			players = players[:store.DefaultSearchLimit]
		}
	}
	return players, nil
}

func (s *playerService) Get(ctx context.Context, playerID int64) (*models.Player, error) {
	return s.dir.GetPlayer(ctx, playerID)
}
