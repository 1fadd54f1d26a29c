package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizbattle-lab/backend/internal/domain/gameroom"
	"github.com/quizbattle-lab/backend/internal/repository"
	"github.com/quizbattle-lab/backend/internal/testutil"
)

func Test_lobbyDomain_GetRooms(t *testing.T) {
	h := newGameHarness(t)
	lobby := NewLobbyDomain(h.manager, repository.NewCategoryRepository())
	ctx := context.Background()

	resp, err := lobby.GetRooms(ctx)
	require.NoError(t, err)
	assert.Empty(t, resp.Rooms)

	_, err = h.manager.CreateRoom(
		testutil.SamplePlayer("player1", "Alice"), "Zebra Room", 1, gameroom.TypeTimeAttack)
	require.NoError(t, err)
	_, err = h.manager.CreateRoom(
		testutil.SamplePlayer("player2", "Bob"), "Alpha Room", 2, gameroom.TypeSurvival)
	require.NoError(t, err)

	resp, err = lobby.GetRooms(ctx)
	require.NoError(t, err)
	require.Len(t, resp.Rooms, 2)
	assert.Equal(t, "Alpha Room", resp.Rooms[0].Name)
	assert.Equal(t, "Zebra Room", resp.Rooms[1].Name)
	assert.Equal(t, "Survival", resp.Rooms[0].GameType)
	assert.Equal(t, "Waiting", resp.Rooms[0].RoomState)
	assert.Equal(t, 1, resp.Rooms[0].PlayerCount)
}

func Test_lobbyDomain_GetCategories(t *testing.T) {
	h := newGameHarness(t)
	lobby := NewLobbyDomain(h.manager, repository.NewCategoryRepository())

	resp, err := lobby.GetCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Categories, 5)
	assert.Equal(t, "Country Flags", resp.Categories[0].Name)
}

func Test_lobbyDomain_GetGameTypes(t *testing.T) {
	h := newGameHarness(t)
	lobby := NewLobbyDomain(h.manager, repository.NewCategoryRepository())

	resp, err := lobby.GetGameTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Time Attack", "Survival"}, resp.GameTypes)
}
