package model

// Inbound socket messages. Every frame carries a "type" discriminator field
// selecting one of the structs below.

type CreateRoom struct {
	RoomName   string `json:"roomName"`
	CategoryID int    `json:"categoryId"`
	GameType   string `json:"gameType"`
}

type JoinRoom struct {
	RoomID string `json:"roomId"`
}

type RejoinRoom struct {
	RoomID string `json:"roomId"`
}

type PlayerReady struct{}

type PlayerAnswer struct {
	Answer int `json:"answer"`
}
