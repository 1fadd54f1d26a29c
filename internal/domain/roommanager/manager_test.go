package roommanager

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizbattle-lab/backend/internal/domain/gameroom"
	"github.com/quizbattle-lab/backend/internal/repository"
	"github.com/quizbattle-lab/backend/internal/testutil"
	"github.com/quizbattle-lab/backend/pkg/errorx"
	"github.com/quizbattle-lab/backend/pkg/logger"
)

func newTestManager(t *testing.T) (*Manager, *testutil.RecordingBroadcaster, *testutil.FakeSessions) {
	t.Helper()

	broadcaster := testutil.NewRecordingBroadcaster()
	sessions := &testutil.FakeSessions{}
	log := logger.NewLogger(logger.SILENCE)
	cfg := testutil.FastGameConfigs()

	factory := gameroom.NewFactory(testutil.NewStaticQuestionSource(), broadcaster, log, cfg)
	manager := NewManager(
		log, cfg, factory, repository.NewCategoryRepository(), broadcaster, sessions)
	return manager, broadcaster, sessions
}

func Test_Manager_CreateRoom(t *testing.T) {
	manager, _, _ := newTestManager(t)

	room, err := manager.CreateRoom(
		testutil.SamplePlayer("player1", "Alice"), "Alice's Room", 1, gameroom.TypeTimeAttack)
	require.NoError(t, err)
	assert.Equal(t, 1, room.PlayerCount())

	got, err := manager.GetRoomByID(room.ID)
	require.NoError(t, err)
	assert.Same(t, room, got)

	got, err = manager.GetRoomByPlayerID("player1")
	require.NoError(t, err)
	assert.Same(t, room, got)
}

func Test_Manager_CreateRoomWhileInAnother(t *testing.T) {
	manager, _, _ := newTestManager(t)

	_, err := manager.CreateRoom(
		testutil.SamplePlayer("player1", "Alice"), "Room A", 1, gameroom.TypeTimeAttack)
	require.NoError(t, err)

	_, err = manager.CreateRoom(
		testutil.SamplePlayer("player1", "Alice"), "Room B", 1, gameroom.TypeTimeAttack)
	assert.ErrorIs(t, err, errorx.ErrAlreadyInRoom)
}

func Test_Manager_CreateRoomUnknownCategory(t *testing.T) {
	manager, _, _ := newTestManager(t)

	_, err := manager.CreateRoom(
		testutil.SamplePlayer("player1", "Alice"), "Room", 42, gameroom.TypeTimeAttack)
	assert.Error(t, err)
}

func Test_Manager_CreateRoomUnknownGameType(t *testing.T) {
	manager, _, _ := newTestManager(t)

	_, err := manager.CreateRoom(
		testutil.SamplePlayer("player1", "Alice"), "Room", 1, "Blitz")
	assert.ErrorIs(t, err, errorx.ErrInvalidGameType)
	assert.Empty(t, manager.ActiveRooms())
}

func Test_Manager_ReserveSeat(t *testing.T) {
	manager, _, _ := newTestManager(t)

	room, err := manager.CreateRoom(
		testutil.SamplePlayer("player1", "Alice"), "Room", 1, gameroom.TypeTimeAttack)
	require.NoError(t, err)

	_, err = manager.ReserveSeat("player2", "no-such-room")
	assert.ErrorIs(t, err, errorx.ErrRoomNotFound)

	got, err := manager.ReserveSeat("player2", room.ID)
	require.NoError(t, err)
	assert.Same(t, room, got)

	// The seat is held even before the room applies the join.
	_, err = manager.ReserveSeat("player3", room.ID)
	assert.ErrorIs(t, err, errorx.ErrRoomFull)

	manager.ReleaseSeat("player2", room.ID)
	_, err = manager.ReserveSeat("player3", room.ID)
	assert.NoError(t, err)
}

func Test_Manager_ConcurrentJoins(t *testing.T) {
	manager, _, _ := newTestManager(t)

	room, err := manager.CreateRoom(
		testutil.SamplePlayer("player1", "Alice"), "Room", 1, gameroom.TypeTimeAttack)
	require.NoError(t, err)

	var wg sync.WaitGroup
	granted := make(chan string, 16)
	for _, id := range []string{"p2", "p3", "p4", "p5", "p6"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := manager.ReserveSeat(id, room.ID); err == nil {
				granted <- id
			}
		}(id)
	}
	wg.Wait()
	close(granted)

	count := 0
	for range granted {
		count++
	}
	assert.Equal(t, 1, count, "only one seat is left in a two player room")
}

func Test_Manager_DisconnectAndRejoin(t *testing.T) {
	manager, _, _ := newTestManager(t)

	room, err := manager.CreateRoom(
		testutil.SamplePlayer("player1", "Alice"), "Room", 1, gameroom.TypeTimeAttack)
	require.NoError(t, err)

	_, err = manager.ReserveSeat("player2", room.ID)
	require.NoError(t, err)
	require.NoError(t, room.HandleEvent(gameroom.Joined{
		Player: testutil.SamplePlayer("player2", "Bob"),
	}))

	manager.PlayerDisconnected("player2")

	// The dropped player no longer counts as a member but their seat is
	// still held against newcomers.
	_, err = manager.GetRoomByPlayerID("player2")
	assert.ErrorIs(t, err, errorx.ErrNotYourRoom)
	_, err = manager.ReserveSeat("player3", room.ID)
	assert.ErrorIs(t, err, errorx.ErrRoomFull)

	got, err := manager.RejoinRoom("player2", room.ID)
	require.NoError(t, err)
	assert.Same(t, room, got)

	_, err = manager.GetRoomByPlayerID("player2")
	assert.NoError(t, err)
}

func Test_Manager_RejoinWrongRoom(t *testing.T) {
	manager, _, _ := newTestManager(t)

	room, err := manager.CreateRoom(
		testutil.SamplePlayer("player1", "Alice"), "Room", 1, gameroom.TypeTimeAttack)
	require.NoError(t, err)

	_, err = manager.RejoinRoom("player2", room.ID)
	assert.ErrorIs(t, err, errorx.ErrNotYourRoom, "no grace entry means no rejoin")
}

func Test_Manager_RejoinWindowExpired(t *testing.T) {
	manager, _, _ := newTestManager(t)

	now := time.Now()
	manager.now = func() time.Time { return now }

	room, err := manager.CreateRoom(
		testutil.SamplePlayer("player1", "Alice"), "Room", 1, gameroom.TypeTimeAttack)
	require.NoError(t, err)

	_, err = manager.ReserveSeat("player2", room.ID)
	require.NoError(t, err)
	require.NoError(t, room.HandleEvent(gameroom.Joined{
		Player: testutil.SamplePlayer("player2", "Bob"),
	}))

	manager.PlayerDisconnected("player2")

	// Step past the window.
	now = now.Add(time.Minute)
	_, err = manager.RejoinRoom("player2", room.ID)
	assert.ErrorIs(t, err, errorx.ErrNotYourRoom)
}

func Test_Manager_LastDisconnectDisposesRoom(t *testing.T) {
	manager, broadcaster, sessions := newTestManager(t)

	room, err := manager.CreateRoom(
		testutil.SamplePlayer("player1", "Alice"), "Room", 1, gameroom.TypeTimeAttack)
	require.NoError(t, err)

	manager.PlayerDisconnected("player1")

	// Disposal runs on its own goroutine.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, err := manager.GetRoomByID(room.ID); err != nil {
			break
		}
		time.Sleep(time.Millisecond)
	}

	_, err = manager.GetRoomByID(room.ID)
	assert.ErrorIs(t, err, errorx.ErrRoomNotFound)
	_, err = manager.GetRoomByPlayerID("player1")
	assert.ErrorIs(t, err, errorx.ErrNotYourRoom)

	assert.Empty(t, broadcaster.Messages(room.ID), "topic is deleted on disposal")
	assert.Contains(t, sessions.Removed, "player1")

	// No grace entry lingers for a closed room.
	_, err = manager.RejoinRoom("player1", room.ID)
	assert.ErrorIs(t, err, errorx.ErrNotYourRoom)
}

func Test_Manager_GraceExpiryClosesPausedRoom(t *testing.T) {
	manager, _, _ := newTestManager(t)

	room, err := manager.CreateRoom(
		testutil.SamplePlayer("player1", "Alice"), "Room", 1, gameroom.TypeTimeAttack)
	require.NoError(t, err)

	_, err = manager.ReserveSeat("player2", room.ID)
	require.NoError(t, err)
	require.NoError(t, room.HandleEvent(gameroom.Joined{
		Player: testutil.SamplePlayer("player2", "Bob"),
	}))
	require.NoError(t, room.HandleEvent(gameroom.Ready{PlayerID: "player1"}))
	require.NoError(t, room.HandleEvent(gameroom.Ready{PlayerID: "player2"}))

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && room.State() != gameroom.StatePlaying {
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, gameroom.StatePlaying, room.State())

	manager.PlayerDisconnected("player2")
	require.Equal(t, gameroom.StatePausing, room.State())

	// Nobody rejoins within the window; the deferred cleanup closes the
	// room and disposal removes it from the registry.
	deadline = time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, err := manager.GetRoomByID(room.ID); err != nil {
			break
		}
		time.Sleep(time.Millisecond)
	}

	_, err = manager.GetRoomByID(room.ID)
	assert.ErrorIs(t, err, errorx.ErrRoomNotFound)
	assert.Equal(t, gameroom.StateClosing, room.State())
}
