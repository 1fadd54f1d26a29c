package gameroom

// RoomState is the closed set of room phases. Closing is terminal.
type RoomState int

const (
	StateWaiting RoomState = iota
	StateCountdown
	StatePlaying
	StatePausing
	StateClosing
)

func (s RoomState) String() string {
	switch s {
	case StateWaiting:
		return "Waiting"
	case StateCountdown:
		return "Countdown"
	case StatePlaying:
		return "Playing"
	case StatePausing:
		return "Pausing"
	case StateClosing:
		return "Closing"
	}
	return "Unknown"
}

// canTransition encodes the room transition table. A self transition is
// handled earlier as a no-op and never reaches this check.
func (s RoomState) canTransition(target RoomState) bool {
	switch s {
	case StateWaiting:
		return target == StateCountdown || target == StateClosing
	case StateCountdown:
		return target == StatePlaying || target == StatePausing || target == StateClosing
	case StatePausing:
		return target == StateCountdown || target == StateClosing
	case StatePlaying:
		return target == StatePausing || target == StateClosing
	case StateClosing:
		return false
	}
	return false
}

// GameState is the embedded game's own phase set.
type GameState int

const (
	GameIdle GameState = iota
	GamePlaying
	GamePause
	GameOver
)

func (s GameState) String() string {
	switch s {
	case GameIdle:
		return "Idle"
	case GamePlaying:
		return "Playing"
	case GamePause:
		return "Pause"
	case GameOver:
		return "Over"
	}
	return "Unknown"
}

// PlayerState is the readiness flag of a player inside a room.
type PlayerState int

const (
	PlayerWait PlayerState = iota
	PlayerReady
)

func (s PlayerState) String() string {
	if s == PlayerReady {
		return "READY"
	}
	return "WAIT"
}
