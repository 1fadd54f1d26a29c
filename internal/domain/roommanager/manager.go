package roommanager

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/quizbattle-lab/backend/config"
	"github.com/quizbattle-lab/backend/internal/domain/gameroom"
	"github.com/quizbattle-lab/backend/internal/entity"
	"github.com/quizbattle-lab/backend/internal/model"
	"github.com/quizbattle-lab/backend/internal/repository"
	"github.com/quizbattle-lab/backend/pkg/errorx"
	"github.com/quizbattle-lab/backend/pkg/logger"
)

// Topics is the broadcast side of the proxy layer the registry needs for
// room disposal.
type Topics interface {
	Broadcast(roomID string, msg model.ServerMessage)
	DeleteTopic(roomID string)
}

// Sessions is the connection side. Remove reports whether the player still
// had a live connection.
type Sessions interface {
	Remove(playerID string, code int, reason string) bool
}

// gracePeriodEntry remembers where a dropped player belongs and when the
// drop happened.
type gracePeriodEntry struct {
	roomID string
	at     time.Time
}

// Manager owns every live room and the player-to-room index. A player holds
// at most one of the two claims at any moment: an active membership in
// playerToRoom or a pending rejoin in disconnected, never both.
type Manager struct {
	logger   logger.Logger
	cfg      config.GameConfigs
	factory  *gameroom.Factory
	category repository.CategoryRepository
	topics   Topics
	sessions Sessions

	mu           sync.Mutex
	rooms        map[string]*gameroom.Room
	playerToRoom map[string]string
	disconnected map[string]gracePeriodEntry

	// now is swapped out by tests to control the rejoin window.
	now func() time.Time
}

func NewManager(
	logger logger.Logger,
	cfg config.GameConfigs,
	factory *gameroom.Factory,
	category repository.CategoryRepository,
	topics Topics,
	sessions Sessions,
) *Manager {
	return &Manager{
		logger:       logger,
		cfg:          cfg,
		factory:      factory,
		category:     category,
		topics:       topics,
		sessions:     sessions,
		rooms:        make(map[string]*gameroom.Room),
		playerToRoom: make(map[string]string),
		disconnected: make(map[string]gracePeriodEntry),
		now:          time.Now,
	}
}

// CreateRoom builds a room with its game, registers the creator as the
// first member, and fires the Created event. The creator must not already
// belong to a room.
func (m *Manager) CreateRoom(
	player entity.Player, name string, categoryID int, gameType string,
) (*gameroom.Room, error) {
	category, err := m.category.GetByID(categoryID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if _, ok := m.playerToRoom[player.ID]; ok {
		m.mu.Unlock()
		return nil, errorx.ErrAlreadyInRoom
	}
	if _, ok := m.disconnected[player.ID]; ok {
		m.mu.Unlock()
		return nil, errorx.ErrAlreadyInRoom
	}

	roomID := uuid.NewString()
	game, err := m.factory.NewGame(roomID, categoryID, gameType)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}

	room := gameroom.NewRoom(
		roomID, name, game,
		model.CategoryDTO{ID: category.ID, Name: category.Name},
		m.topics, m.logger, m.cfg.CountdownTicks, m.cfg.TickInterval.Duration,
	)
	room.SetCloser(m.disposeRoom)
	gameroom.SetFinishHook(game, room.Close)

	m.rooms[roomID] = room
	m.playerToRoom[player.ID] = roomID
	m.mu.Unlock()

	// The Created event cannot fail on a fresh room; a failure here is a
	// programming error worth surfacing.
	if err := room.HandleEvent(gameroom.Created{Player: player}); err != nil {
		m.logger.Errorf("Created event rejected by fresh room %s: %v", roomID, err)
	}

	return room, nil
}

// ReserveSeat claims a seat in the room for the player under the registry
// lock. The caller fires the Joined event afterwards and must call
// ReleaseSeat if that event fails, so the index never records a membership
// the room refused.
func (m *Manager) ReserveSeat(playerID, roomID string) (*gameroom.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return nil, errorx.ErrRoomNotFound
	}
	if _, ok := m.playerToRoom[playerID]; ok {
		return nil, errorx.ErrAlreadyInRoom
	}
	if _, ok := m.disconnected[playerID]; ok {
		return nil, errorx.ErrAlreadyInRoom
	}

	// Capacity is judged by reservations, not the room roster, so two
	// concurrent joins cannot both pass the check.
	if m.seatCount(roomID) >= room.Game.MaxPlayerCount() {
		return nil, errorx.ErrRoomFull
	}

	m.playerToRoom[playerID] = roomID
	return room, nil
}

func (m *Manager) ReleaseSeat(playerID, roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playerToRoom[playerID] == roomID {
		delete(m.playerToRoom, playerID)
	}
}

// RejoinRoom restores a player who dropped within the grace period. The
// claimed room must match the one recorded at disconnect time.
func (m *Manager) RejoinRoom(playerID, roomID string) (*gameroom.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.disconnected[playerID]
	if !ok || entry.roomID != roomID {
		return nil, errorx.ErrNotYourRoom
	}
	if m.now().Sub(entry.at) > m.cfg.ReconnectWindow.Duration {
		return nil, errorx.ErrNotYourRoom
	}

	room, ok := m.rooms[roomID]
	if !ok {
		delete(m.disconnected, playerID)
		return nil, errorx.ErrRoomNotFound
	}

	delete(m.disconnected, playerID)
	m.playerToRoom[playerID] = roomID
	return room, nil
}

// PlayerDisconnected applies a connection drop. A player with no room is a
// no-op. When the drop leaves players behind, the membership converts into
// a grace-period entry and a deferred cleanup closes the room if nobody
// came back.
func (m *Manager) PlayerDisconnected(playerID string) {
	m.mu.Lock()
	roomID, ok := m.playerToRoom[playerID]
	if !ok {
		m.mu.Unlock()
		return
	}
	room := m.rooms[roomID]
	if room == nil {
		delete(m.playerToRoom, playerID)
		m.mu.Unlock()
		return
	}

	err := room.HandleEvent(gameroom.Disconnected{PlayerID: playerID})
	if errors.Is(err, errorx.ErrRoomEmpty) {
		// The room is closing itself; disposal strips the index entry.
		m.mu.Unlock()
		return
	}
	if err != nil {
		m.logger.Errorf("Disconnect event rejected by room %s: %v", roomID, err)
	}

	delete(m.playerToRoom, playerID)
	m.disconnected[playerID] = gracePeriodEntry{roomID: roomID, at: m.now()}
	m.mu.Unlock()

	window := m.cfg.ReconnectWindow.Duration
	time.AfterFunc(window, func() { m.expireGracePeriod(playerID, roomID) })
}

// expireGracePeriod runs once the rejoin window elapses. If the player never
// came back, the entry is dropped and a room still paused on their account
// is closed.
func (m *Manager) expireGracePeriod(playerID, roomID string) {
	m.mu.Lock()
	entry, ok := m.disconnected[playerID]
	if !ok || entry.roomID != roomID {
		m.mu.Unlock()
		return
	}
	delete(m.disconnected, playerID)
	room := m.rooms[roomID]
	m.mu.Unlock()

	if room != nil && room.State() == gameroom.StatePausing {
		room.Close()
	}
}

// disposeRoom is the closer hook every room gets. It strips the room and
// all of its claims from the registry, then tears down the transport side.
func (m *Manager) disposeRoom(room *gameroom.Room) {
	m.mu.Lock()
	delete(m.rooms, room.ID)

	var members []string
	for playerID, roomID := range m.playerToRoom {
		if roomID == room.ID {
			members = append(members, playerID)
			delete(m.playerToRoom, playerID)
		}
	}
	for playerID, entry := range m.disconnected {
		if entry.roomID == room.ID {
			delete(m.disconnected, playerID)
		}
	}
	m.mu.Unlock()

	m.topics.Broadcast(room.ID, model.RoomClosed{Reason: "Room closed"})
	for _, playerID := range members {
		m.sessions.Remove(playerID, websocket.CloseNormalClosure, "room closed")
	}
	m.topics.DeleteTopic(room.ID)

	m.logger.Infof("Room %s disposed", room.ID)
}

func (m *Manager) GetRoomByID(roomID string) (*gameroom.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[roomID]
	if !ok {
		return nil, errorx.ErrRoomNotFound
	}
	return room, nil
}

// GetRoomByPlayerID resolves the room a connected player belongs to.
func (m *Manager) GetRoomByPlayerID(playerID string) (*gameroom.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	roomID, ok := m.playerToRoom[playerID]
	if !ok {
		return nil, errorx.ErrNotYourRoom
	}
	room, ok := m.rooms[roomID]
	if !ok {
		return nil, errorx.ErrRoomNotFound
	}
	return room, nil
}

// ActiveRooms snapshots every live room for the lobby listing.
func (m *Manager) ActiveRooms() []*gameroom.Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	rooms := make([]*gameroom.Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

func (m *Manager) seatCount(roomID string) int {
	count := 0
	for _, id := range m.playerToRoom {
		if id == roomID {
			count++
		}
	}
	for _, entry := range m.disconnected {
		if entry.roomID == roomID {
			count++
		}
	}
	return count
}
