package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakebaseball/stats-api/internal/models"
)

var playerRowColumns = []string{
	"player_id", "player_name", "team", "bat_type", "pitch_type", "pitch_bonus",
	"hand", "pri_pos", "sec_pos", "tert_pos", "status",
}

func TestPostgresDirectory_SearchPlayers(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectQuery("SELECT (.+) FROM players").
		WithArgs("%ono%", DefaultSearchLimit).
		WillReturnRows(pgxmock.NewRows(playerRowColumns).
			AddRow(int64(977), "Yuta Ono", "BOS", "B", "P", "", "R", "2B", "SS", "", "1").
			AddRow(int64(978), "Kenji Onoda", "NYY", "B", "P", "", "L", "CF", "", "", "1"))

	dir := NewPostgresDirectory(mockPool)
	players, err := dir.SearchPlayers(context.Background(), "ono", 0)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "Yuta Ono", players[0].PlayerName)
	assert.Equal(t, "NYY", players[1].Team)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresDirectory_GetPlayerNotFound(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectQuery("SELECT (.+) FROM players WHERE player_id").
		WithArgs(int64(5)).
		WillReturnError(pgx.ErrNoRows)

	dir := NewPostgresDirectory(mockPool)
	_, err = dir.GetPlayer(context.Background(), 5)
	assert.True(t, errors.Is(err, ErrPlayerNotFound))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresDirectory_Teammates(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectQuery("SELECT p.player_id").
		WithArgs(int64(977)).
		WillReturnRows(pgxmock.NewRows([]string{"player_id"}).AddRow(int64(12)).AddRow(int64(40)))

	dir := NewPostgresDirectory(mockPool)
	ids, err := dir.Teammates(context.Background(), 977)
	require.NoError(t, err)
	assert.Equal(t, []int64{12, 40}, ids)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresDirectory_UpsertPlayers(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	for i := 0; i < 2; i++ {
		mockPool.ExpectExec("INSERT INTO players").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	dir := NewPostgresDirectory(mockPool)
	n, err := dir.UpsertPlayers(context.Background(), []models.Player{
		{PlayerID: 1, PlayerName: "A"},
		{PlayerID: 2, PlayerName: "B"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresDirectory_UpsertStopsOnError(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectExec("INSERT INTO players").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec("INSERT INTO players").WillReturnError(errors.New("boom"))

	dir := NewPostgresDirectory(mockPool)
	n, err := dir.UpsertPlayers(context.Background(), []models.Player{
		{PlayerID: 1, PlayerName: "A"},
		{PlayerID: 2, PlayerName: "B"},
		{PlayerID: 3, PlayerName: "C"},
	})
	assert.Error(t, err)
	assert.Equal(t, 1, n)
}
