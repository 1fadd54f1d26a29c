package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/quizbattle-lab/backend/internal/domain/gameproxy"
	"github.com/quizbattle-lab/backend/internal/domain/gameroom"
	"github.com/quizbattle-lab/backend/internal/domain/roommanager"
	"github.com/quizbattle-lab/backend/internal/entity"
	"github.com/quizbattle-lab/backend/internal/model"
	"github.com/quizbattle-lab/backend/pkg/errorx"
	"github.com/quizbattle-lab/backend/pkg/logger"
	"github.com/quizbattle-lab/backend/pkg/ws"
)

// GameDomain owns one websocket connection for its whole lifetime: it
// registers the session, pumps inbound frames through the message switch,
// and converts the connection drop into a room event when the pump ends.
type GameDomain interface {
	ServeClient(ctx context.Context, player entity.Player, client *ws.Client)
}

type gameDomain struct {
	logger      logger.Logger
	manager     *roommanager.Manager
	sessions    *gameproxy.SessionManager
	broadcaster *gameproxy.Broadcaster
}

func NewGameDomain(
	logger logger.Logger,
	manager *roommanager.Manager,
	sessions *gameproxy.SessionManager,
	broadcaster *gameproxy.Broadcaster,
) GameDomain {
	return &gameDomain{
		logger:      logger,
		manager:     manager,
		sessions:    sessions,
		broadcaster: broadcaster,
	}
}

func (d *gameDomain) ServeClient(ctx context.Context, player entity.Player, client *ws.Client) {
	d.sessions.Add(player.ID, client)
	defer d.handleDisconnect(player.ID, client)

	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-client.R:
			if !ok {
				return
			}
			d.handleMessage(player, raw)
		}
	}
}

// handleDisconnect runs exactly once per connection. The session removal
// reports whether this connection was still the registered one; a stale
// pump replaced by a reconnect must not strip the new membership.
func (d *gameDomain) handleDisconnect(playerID string, client *ws.Client) {
	if !d.sessions.RemoveClient(playerID, client, websocket.CloseNormalClosure, "") {
		return
	}
	d.manager.PlayerDisconnected(playerID)
}

func (d *gameDomain) handleMessage(player entity.Player, raw []byte) {
	req, err := model.ParseClientMessage(raw)
	if err != nil {
		d.logger.Warnf("Dropping malformed frame from player %s: %v", player.ID, err)
		return
	}

	switch req := req.(type) {
	case model.CreateRoom:
		err = d.createRoom(player, req)
	case model.JoinRoom:
		err = d.joinRoom(player, req.RoomID)
	case model.RejoinRoom:
		err = d.rejoinRoom(player, req.RoomID)
	case model.PlayerReady:
		err = d.playerReady(player.ID)
	case model.PlayerAnswer:
		err = d.playerAnswer(player.ID, req.Answer)
	default:
		d.logger.Warnf("Unhandled message %T from player %s", req, player.ID)
		return
	}

	// Domain errors are recoverable: the offending message is dropped and
	// the connection stays up.
	var domainErr errorx.Error
	if errors.As(err, &domainErr) {
		d.logger.Infof("Rejected %T from player %s: %v", req, player.ID, err)
	} else if err != nil {
		d.logger.Errorf("Cannot handle %T from player %s: %v", req, player.ID, err)
	}
}

func (d *gameDomain) createRoom(player entity.Player, req model.CreateRoom) error {
	name := req.RoomName
	if name == "" {
		name = fmt.Sprintf("%s's Room", player.Name)
	}

	room, err := d.manager.CreateRoom(player, name, req.CategoryID, req.GameType)
	if err != nil {
		return err
	}

	client, ok := d.sessions.Get(player.ID)
	if ok {
		d.broadcaster.Subscribe(room.ID, player.ID, client)
	}

	d.sessions.SendToPlayers([]string{player.ID}, model.RoomCreated{RoomID: room.ID})
	return room.HandleEvent(gameroom.Status{})
}

func (d *gameDomain) joinRoom(player entity.Player, roomID string) error {
	room, err := d.manager.ReserveSeat(player.ID, roomID)
	if err != nil {
		d.sessions.SendToPlayers([]string{player.ID}, model.JoinedRoom{RoomID: roomID, Success: false})
		return err
	}

	client, ok := d.sessions.Get(player.ID)
	if ok {
		d.broadcaster.Subscribe(room.ID, player.ID, client)
	}

	if err := room.HandleEvent(gameroom.Joined{Player: player}); err != nil {
		d.broadcaster.Unsubscribe(room.ID, player.ID)
		d.manager.ReleaseSeat(player.ID, roomID)
		d.sessions.SendToPlayers([]string{player.ID}, model.JoinedRoom{RoomID: roomID, Success: false})
		return err
	}

	d.sessions.SendToPlayers([]string{player.ID}, model.JoinedRoom{RoomID: roomID, Success: true})
	return nil
}

// rejoinRoom restores a membership dropped within the grace period. A
// successful rejoin re-subscribes the topic, puts the player back on the
// roster, and marks them ready so a paused game can resume.
func (d *gameDomain) rejoinRoom(player entity.Player, roomID string) error {
	room, err := d.manager.RejoinRoom(player.ID, roomID)
	if err != nil {
		d.sessions.SendToPlayers([]string{player.ID}, model.RejoinedRoom{
			RoomID: roomID, PlayerID: player.ID, Success: false,
		})
		return err
	}

	client, ok := d.sessions.Get(player.ID)
	if ok {
		d.broadcaster.Subscribe(room.ID, player.ID, client)
	}

	d.sessions.SendToPlayers([]string{player.ID}, model.RejoinedRoom{
		RoomID: roomID, PlayerID: player.ID, Success: true,
	})

	if err := room.HandleEvent(gameroom.Joined{Player: player}); err != nil {
		return err
	}
	return room.HandleEvent(gameroom.Ready{PlayerID: player.ID})
}

func (d *gameDomain) playerReady(playerID string) error {
	room, err := d.manager.GetRoomByPlayerID(playerID)
	if err != nil {
		return err
	}
	return room.HandleEvent(gameroom.Ready{PlayerID: playerID})
}

func (d *gameDomain) playerAnswer(playerID string, answer int) error {
	room, err := d.manager.GetRoomByPlayerID(playerID)
	if err != nil {
		return err
	}
	return room.Game.HandleAnswer(playerID, answer)
}
