package model

// Outbound socket messages. MessageType returns the value of the "type"
// discriminator field the codec injects on marshaling.

type ServerMessage interface {
	MessageType() string
}

type PlayerDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Index int    `json:"index"`
	State string `json:"state"`
}

type CategoryDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type QuestionDTO struct {
	ImageCode string   `json:"imageCode,omitempty"`
	Content   string   `json:"content"`
	Options   []Option `json:"options"`
}

type Option struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

type GameRoomDTO struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	PlayerCount int         `json:"playerCount"`
	GameType    string      `json:"gameType"`
	Category    CategoryDTO `json:"category"`
	Players     []string    `json:"players"`
	RoomState   string      `json:"roomState"`
}

type RoomCreated struct {
	RoomID string `json:"roomId"`
}

func (RoomCreated) MessageType() string { return "RoomCreated" }

type JoinedRoom struct {
	RoomID  string `json:"roomId"`
	Success bool   `json:"success"`
}

func (JoinedRoom) MessageType() string { return "JoinedRoom" }

type RejoinedRoom struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
	Success  bool   `json:"success"`
}

func (RejoinedRoom) MessageType() string { return "RejoinedRoom" }

type CountdownTimeUpdate struct {
	Remaining int `json:"remaining"`
}

func (CountdownTimeUpdate) MessageType() string { return "CountdownTimeUpdate" }

type RoomUpdate struct {
	Players  []PlayerDTO `json:"players"`
	State    string      `json:"state"`
	GameRoom GameRoomDTO `json:"gameRoom"`
}

func (RoomUpdate) MessageType() string { return "RoomUpdate" }

type TimeUpdate struct {
	Remaining int `json:"remaining"`
}

func (TimeUpdate) MessageType() string { return "TimeUpdate" }

type TimeUp struct {
	CorrectAnswer int `json:"correctAnswer"`
}

func (TimeUp) MessageType() string { return "TimeUp" }

type GameOver struct {
	WinnerPlayerID string `json:"winnerPlayerId,omitempty"`
}

func (GameOver) MessageType() string { return "GameOver" }

type AnswerResult struct {
	PlayerID string `json:"playerId"`
	Answer   int    `json:"answer"`
	Correct  bool   `json:"correct"`
}

func (AnswerResult) MessageType() string { return "AnswerResult" }

type RoundStarted struct {
	RoundNumber     int         `json:"roundNumber"`
	TimeRemaining   int         `json:"timeRemaining"`
	CurrentQuestion QuestionDTO `json:"currentQuestion"`
}

func (RoundStarted) MessageType() string { return "RoundStarted" }

type StandardRoundEnded struct {
	CorrectAnswer  int    `json:"correctAnswer"`
	WinnerPlayerID string `json:"winnerPlayerId,omitempty"`
}

func (StandardRoundEnded) MessageType() string { return "StandardRoundEnded" }

type CursorRoundEnded struct {
	CursorPosition float64 `json:"cursorPosition"`
	CorrectAnswer  int     `json:"correctAnswer"`
	WinnerPlayerID string  `json:"winnerPlayerId,omitempty"`
}

func (CursorRoundEnded) MessageType() string { return "CursorRoundEnded" }

type PlayerDisconnected struct {
	PlayerID string `json:"playerId"`
}

func (PlayerDisconnected) MessageType() string { return "PlayerDisconnected" }

type RoomClosed struct {
	Reason string `json:"reason"`
}

func (RoomClosed) MessageType() string { return "RoomClosed" }
