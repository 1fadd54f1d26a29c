package domain

import (
	"context"

	"golang.org/x/exp/slices"

	"github.com/quizbattle-lab/backend/internal/domain/gameroom"
	"github.com/quizbattle-lab/backend/internal/domain/roommanager"
	"github.com/quizbattle-lab/backend/internal/model"
	"github.com/quizbattle-lab/backend/internal/repository"
)

// LobbyDomain serves the read-only listings a client browses before it
// opens a socket.
type LobbyDomain interface {
	GetRooms(ctx context.Context) (*model.GetRoomsResponse, error)
	GetCategories(ctx context.Context) (*model.GetCategoriesResponse, error)
	GetGameTypes(ctx context.Context) (*model.GetGameTypesResponse, error)
}

type lobbyDomain struct {
	manager  *roommanager.Manager
	category repository.CategoryRepository
}

func NewLobbyDomain(
	manager *roommanager.Manager,
	category repository.CategoryRepository,
) LobbyDomain {
	return &lobbyDomain{manager: manager, category: category}
}

func (d *lobbyDomain) GetRooms(ctx context.Context) (*model.GetRoomsResponse, error) {
	rooms := d.manager.ActiveRooms()
	resp := &model.GetRoomsResponse{Rooms: make([]model.GameRoomDTO, 0, len(rooms))}
	for _, room := range rooms {
		resp.Rooms = append(resp.Rooms, room.Snapshot())
	}

	// The registry map has no order; keep the listing stable.
	slices.SortFunc(resp.Rooms, func(a, b model.GameRoomDTO) bool {
		return a.Name < b.Name || (a.Name == b.Name && a.ID < b.ID)
	})
	return resp, nil
}

func (d *lobbyDomain) GetCategories(ctx context.Context) (*model.GetCategoriesResponse, error) {
	categories := d.category.GetList()
	resp := &model.GetCategoriesResponse{
		Categories: make([]model.CategoryDTO, 0, len(categories)),
	}
	for _, c := range categories {
		resp.Categories = append(resp.Categories, model.CategoryDTO{ID: c.ID, Name: c.Name})
	}
	return resp, nil
}

func (d *lobbyDomain) GetGameTypes(ctx context.Context) (*model.GetGameTypesResponse, error) {
	return &model.GetGameTypesResponse{GameTypes: gameroom.GameTypes()}, nil
}
