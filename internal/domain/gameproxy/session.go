package gameproxy

import (
	"github.com/puzpuzpuz/xsync/v2"
	"github.com/quizbattle-lab/backend/internal/model"
	"github.com/quizbattle-lab/backend/pkg/logger"
	"github.com/quizbattle-lab/backend/pkg/ws"
)

// SessionManager is the registry of live connections keyed by player id.
type SessionManager struct {
	logger      logger.Logger
	compression bool

	sessions *xsync.MapOf[string, *ws.Client]
}

func NewSessionManager(logger logger.Logger, compression bool) *SessionManager {
	return &SessionManager{
		logger:      logger,
		compression: compression,
		sessions:    xsync.NewMapOf[*ws.Client](),
	}
}

// Add registers the connection for a player, replacing any previous one.
func (m *SessionManager) Add(playerID string, client *ws.Client) {
	m.sessions.Store(playerID, client)
	m.logger.Infof("Session added for player %s", playerID)
}

func (m *SessionManager) Get(playerID string) (*ws.Client, bool) {
	return m.sessions.Load(playerID)
}

// Remove drops the player's session and closes the underlying connection
// with the given close code and reason. Removing an absent session is a
// no-op and reports false.
func (m *SessionManager) Remove(playerID string, code int, reason string) bool {
	client, ok := m.sessions.LoadAndDelete(playerID)
	if !ok {
		return false
	}

	if err := client.Close(code, reason); err != nil {
		m.logger.Debugf("Cannot close session of player %s: %v", playerID, err)
	}
	return true
}

// RemoveClient drops the session only if the given connection is still the
// registered one. A pump whose connection was replaced by a reconnect must
// not strip the replacement.
func (m *SessionManager) RemoveClient(playerID string, client *ws.Client, code int, reason string) bool {
	current, ok := m.sessions.Load(playerID)
	if !ok || current != client {
		return false
	}
	return m.Remove(playerID, code, reason)
}

// SendToPlayers unicasts a message to each listed player. Players without a
// live session are skipped.
func (m *SessionManager) SendToPlayers(playerIDs []string, msg model.ServerMessage) {
	raw, err := model.MarshalServerMessage(msg)
	if err != nil {
		m.logger.Errorf("Cannot marshal %s message: %v", msg.MessageType(), err)
		return
	}

	for _, playerID := range playerIDs {
		client, ok := m.sessions.Load(playerID)
		if !ok {
			m.logger.Debugf("No session found for player %s", playerID)
			continue
		}

		if err := client.Write(raw, m.compression); err != nil {
			m.logger.Debugf("Cannot send to player %s: %v", playerID, err)
		}
	}
}
