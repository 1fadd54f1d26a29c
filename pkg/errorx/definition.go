package errorx

const (
	// Common codes
	BadRequest Code = 100001
	NotFound   Code = 100002
	Internal   Code = 100003

	// Room codes
	RoomNotFound    Code = 200001
	RoomFull        Code = 200002
	AlreadyInRoom   Code = 200003
	NotYourRoom     Code = 200004
	WrongRoomPhase  Code = 200005
	RoomEmpty       Code = 200006
	InvalidGameType Code = 200007

	// Player codes
	PlayerNotFound Code = 300001
)

var (
	Unknown = Error{Code: 100000, Message: "request failed"}

	// Domain errors of the room lifecycle. They are recoverable: the
	// dispatcher logs them and drops the triggering message.
	ErrRoomNotFound   = Error{RoomNotFound, "room not found"}
	ErrRoomFull       = Error{RoomFull, "room is full"}
	ErrAlreadyInRoom  = Error{AlreadyInRoom, "already in another room"}
	ErrNotYourRoom    = Error{NotYourRoom, "not your room"}
	ErrWrongRoomPhase = Error{WrongRoomPhase, "wrong command for current phase"}

	// ErrRoomEmpty signals that a disconnect removed the last player. It is
	// an outcome marker rather than a failure: the registry uses it to skip
	// grace-period bookkeeping because the room is already closing.
	ErrRoomEmpty = Error{RoomEmpty, "room is empty"}

	ErrInvalidGameType = Error{InvalidGameType, "unknown game type"}
	ErrPlayerNotFound  = Error{PlayerNotFound, "player not found"}
)
