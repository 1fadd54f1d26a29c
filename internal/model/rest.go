package model

// Request and response bodies of the REST surface.

type CreatePlayerRequest struct {
	Name string `json:"name"`
}

type CreatePlayerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type GetPlayerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type GetRoomsResponse struct {
	Rooms []GameRoomDTO `json:"rooms"`
}

type GetCategoriesResponse struct {
	Categories []CategoryDTO `json:"categories"`
}

type GetGameTypesResponse struct {
	GameTypes []string `json:"gameTypes"`
}
