package main

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/quizbattle-lab/backend/pkg/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleGameWs upgrades the connection and hands it to the game domain.
// Identity problems are reported as a policy-violation close so the client
// sees a websocket-level reason instead of a failed upgrade.
func (s *srv) handleGameWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnf("Cannot upgrade connection: %v", err)
		return
	}

	client := ws.NewClient(conn)

	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		_ = client.Close(websocket.ClosePolicyViolation, "playerId is required")
		return
	}

	player, err := s.playerRepo.GetByID(r.Context(), playerID)
	if err != nil {
		_ = client.Close(websocket.ClosePolicyViolation, "unknown player")
		return
	}

	s.gameDomain.ServeClient(r.Context(), *player, client)
}
