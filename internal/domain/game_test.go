package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizbattle-lab/backend/internal/domain/gameproxy"
	"github.com/quizbattle-lab/backend/internal/domain/gameroom"
	"github.com/quizbattle-lab/backend/internal/domain/roommanager"
	"github.com/quizbattle-lab/backend/internal/entity"
	"github.com/quizbattle-lab/backend/internal/repository"
	"github.com/quizbattle-lab/backend/internal/testutil"
	"github.com/quizbattle-lab/backend/pkg/logger"
	"github.com/quizbattle-lab/backend/pkg/ws"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type gameHarness struct {
	domain  GameDomain
	manager *roommanager.Manager
}

func newGameHarness(t *testing.T) *gameHarness {
	t.Helper()

	log := logger.NewLogger(logger.SILENCE)
	cfg := testutil.FastGameConfigs()

	sessions := gameproxy.NewSessionManager(log, false)
	broadcaster := gameproxy.NewBroadcaster(log, false)
	factory := gameroom.NewFactory(testutil.NewStaticQuestionSource(), broadcaster, log, cfg)
	manager := roommanager.NewManager(
		log, cfg, factory, repository.NewCategoryRepository(), broadcaster, sessions)

	return &gameHarness{
		domain:  NewGameDomain(log, manager, sessions, broadcaster),
		manager: manager,
	}
}

// connect opens a loopback socket served by the game domain and returns the
// peer side.
func (h *gameHarness) connect(t *testing.T, player entity.Player) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.domain.ServeClient(context.Background(), player, ws.NewClient(conn))
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	peer, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { peer.Close() })
	return peer
}

func send(t *testing.T, peer *websocket.Conn, frame string) {
	t.Helper()
	require.NoError(t, peer.WriteMessage(websocket.TextMessage, []byte(frame)))
}

// awaitMessage reads frames until one of the wanted type shows up.
func awaitMessage(t *testing.T, peer *websocket.Conn, msgType string) map[string]any {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		peer.SetReadDeadline(deadline)
		_, raw, err := peer.ReadMessage()
		require.NoError(t, err, "waiting for %s", msgType)

		var envelope map[string]any
		require.NoError(t, json.Unmarshal(raw, &envelope))
		if envelope["type"] == msgType {
			return envelope
		}
	}

	t.Fatalf("never received a %s message", msgType)
	return nil
}

func Test_gameDomain_FullMatch(t *testing.T) {
	h := newGameHarness(t)

	alice := h.connect(t, testutil.SamplePlayer("player1", "Alice"))
	bob := h.connect(t, testutil.SamplePlayer("player2", "Bob"))

	send(t, alice, `{"type":"CreateRoom","categoryId":1,"gameType":"Time Attack"}`)
	created := awaitMessage(t, alice, "RoomCreated")
	roomID, _ := created["roomId"].(string)
	require.NotEmpty(t, roomID)

	room, err := h.manager.GetRoomByID(roomID)
	require.NoError(t, err)
	assert.Equal(t, "Alice's Room", room.Name)

	send(t, bob, fmt.Sprintf(`{"type":"JoinRoom","roomId":%q}`, roomID))
	joined := awaitMessage(t, bob, "JoinedRoom")
	assert.Equal(t, true, joined["success"])

	send(t, alice, `{"type":"PlayerReady"}`)
	send(t, bob, `{"type":"PlayerReady"}`)

	awaitMessage(t, alice, "CountdownTimeUpdate")
	started := awaitMessage(t, bob, "RoundStarted")
	assert.EqualValues(t, 1, started["roundNumber"])

	// The sample question's correct option is 1.
	send(t, alice, `{"type":"PlayerAnswer","answer":1}`)
	result := awaitMessage(t, bob, "AnswerResult")
	assert.Equal(t, "player1", result["playerId"])
	assert.Equal(t, true, result["correct"])

	ended := awaitMessage(t, alice, "StandardRoundEnded")
	assert.Equal(t, "player1", ended["winnerPlayerId"])

	// Both configured rounds run out, then the fastest answerer wins.
	over := awaitMessage(t, bob, "GameOver")
	assert.Equal(t, "player1", over["winnerPlayerId"])
}

func Test_gameDomain_JoinUnknownRoom(t *testing.T) {
	h := newGameHarness(t)

	alice := h.connect(t, testutil.SamplePlayer("player1", "Alice"))

	send(t, alice, `{"type":"JoinRoom","roomId":"no-such-room"}`)
	joined := awaitMessage(t, alice, "JoinedRoom")
	assert.Equal(t, false, joined["success"])
}

func Test_gameDomain_DisconnectPausesAndRejoinResumes(t *testing.T) {
	h := newGameHarness(t)

	alice := h.connect(t, testutil.SamplePlayer("player1", "Alice"))
	bob := h.connect(t, testutil.SamplePlayer("player2", "Bob"))

	send(t, alice, `{"type":"CreateRoom","categoryId":1,"gameType":"Survival"}`)
	created := awaitMessage(t, alice, "RoomCreated")
	roomID := created["roomId"].(string)

	send(t, bob, fmt.Sprintf(`{"type":"JoinRoom","roomId":%q}`, roomID))
	awaitMessage(t, bob, "JoinedRoom")

	send(t, alice, `{"type":"PlayerReady"}`)
	send(t, bob, `{"type":"PlayerReady"}`)
	awaitMessage(t, alice, "RoundStarted")

	// Bob drops mid-round.
	bob.Close()

	room, err := h.manager.GetRoomByID(roomID)
	require.NoError(t, err)
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && room.State() != gameroom.StatePausing {
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, gameroom.StatePausing, room.State())
	awaitMessage(t, alice, "PlayerDisconnected")

	// Bob comes back on a fresh connection within the grace period.
	bob2 := h.connect(t, testutil.SamplePlayer("player2", "Bob"))
	send(t, bob2, fmt.Sprintf(`{"type":"RejoinRoom","roomId":%q}`, roomID))
	rejoined := awaitMessage(t, bob2, "RejoinedRoom")
	assert.Equal(t, true, rejoined["success"])

	// The rejoin re-arms the countdown and play continues.
	awaitMessage(t, bob2, "CountdownTimeUpdate")
	awaitMessage(t, bob2, "RoundStarted")
}

func Test_gameDomain_RejoinWithoutGraceFails(t *testing.T) {
	h := newGameHarness(t)

	alice := h.connect(t, testutil.SamplePlayer("player1", "Alice"))

	send(t, alice, `{"type":"CreateRoom","categoryId":1,"gameType":"Time Attack"}`)
	created := awaitMessage(t, alice, "RoomCreated")
	roomID := created["roomId"].(string)

	stranger := h.connect(t, testutil.SamplePlayer("player9", "Mallory"))
	send(t, stranger, fmt.Sprintf(`{"type":"RejoinRoom","roomId":%q}`, roomID))
	rejoined := awaitMessage(t, stranger, "RejoinedRoom")
	assert.Equal(t, false, rejoined["success"])
}

func Test_gameDomain_MalformedFrameIgnored(t *testing.T) {
	h := newGameHarness(t)

	alice := h.connect(t, testutil.SamplePlayer("player1", "Alice"))

	send(t, alice, `this is not json`)
	send(t, alice, `{"type":"CreateRoom","categoryId":1,"gameType":"Time Attack"}`)

	// The connection survives the garbage and keeps working.
	awaitMessage(t, alice, "RoomCreated")
}
