package gameroom

import "github.com/quizbattle-lab/backend/internal/entity"

// Event is the closed set of room events.
type Event interface {
	isRoomEvent()
}

// Created is fired once by the registry right after constructing the room,
// seating the creator.
type Created struct {
	Player entity.Player
}

// Joined seats a player who joined or rejoined the room.
type Joined struct {
	Player entity.Player
}

// Ready marks a player's readiness flag.
type Ready struct {
	PlayerID string
}

// Disconnected removes a player from the roster.
type Disconnected struct {
	PlayerID string
}

// Status requests a snapshot broadcast without touching state.
type Status struct{}

func (Created) isRoomEvent()      {}
func (Joined) isRoomEvent()       {}
func (Ready) isRoomEvent()        {}
func (Disconnected) isRoomEvent() {}
func (Status) isRoomEvent()       {}
