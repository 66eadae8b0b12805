package logic

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fakebaseball/stats-api/internal/models"
	"github.com/fakebaseball/stats-api/internal/store"
)

func newCache(t *testing.T) *store.PlayerCache {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return store.NewPlayerCache(client, time.Minute)
}

func TestPlayerService_SearchBlank(t *testing.T) {
	svc := NewPlayerService(&stubDirectory{search: []models.Player{{PlayerID: 1}}}, nil, zap.NewNop())

	got, err := svc.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPlayerService_SearchWithoutCache(t *testing.T) {
	dir := &stubDirectory{search: []models.Player{{PlayerID: 1, PlayerName: "Sam Smithers"}, {PlayerID: 2, PlayerName: "Sam Smith"}}}
	svc := NewPlayerService(dir, nil, zap.NewNop())

	got, err := svc.Search(context.Background(), "Sam Smith")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got[0].PlayerID)
}

func TestPlayerService_ExactMatchFirst(t *testing.T) {
	cache := newCache(t)
	require.NoError(t, cache.SetPlayers(context.Background(), models.Player{PlayerID: 2, PlayerName: "Sam Smith"}))

	dir := &stubDirectory{search: []models.Player{
		{PlayerID: 1, PlayerName: "Sam Smithers"},
		{PlayerID: 3, PlayerName: "Sam Smithson"},
		{PlayerID: 2, PlayerName: "Sam Smith"},
	}}
	svc := NewPlayerService(dir, cache, zap.NewNop())

	got, err := svc.Search(context.Background(), "sam  SMITH")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{2, 1, 3}, []int64{got[0].PlayerID, got[1].PlayerID, got[2].PlayerID})
}

func TestPlayerService_ExactMatchOutsideResults(t *testing.T) {
	cache := newCache(t)
	require.NoError(t, cache.SetPlayers(context.Background(), models.Player{PlayerID: 9, PlayerName: "Sam Smith"}))

	dir := &stubDirectory{
		players: map[int64]models.Player{9: {PlayerID: 9, PlayerName: "Sam Smith"}},
		search: []models.Player{
			{PlayerID: 1}, {PlayerID: 2}, {PlayerID: 3}, {PlayerID: 4}, {PlayerID: 5},
		},
	}
	svc := NewPlayerService(dir, cache, zap.NewNop())

	got, err := svc.Search(context.Background(), "Sam Smith")
	require.NoError(t, err)
	require.Len(t, got, store.DefaultSearchLimit)
	assert.Equal(t, int64(9), got[0].PlayerID)
	assert.Equal(t, int64(4), got[len(got)-1].PlayerID)
}

func TestPlayerService_Get(t *testing.T) {
	dir := &stubDirectory{players: map[int64]models.Player{5: {PlayerID: 5, PlayerName: "Lefty"}}}
	svc := NewPlayerService(dir, nil, zap.NewNop())

	p, err := svc.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Lefty", p.PlayerName)

	_, err = svc.Get(context.Background(), 6)
	assert.ErrorIs(t, err, store.ErrPlayerNotFound)
}
