package domain

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/quizbattle-lab/backend/internal/entity"
	"github.com/quizbattle-lab/backend/internal/model"
	"github.com/quizbattle-lab/backend/internal/repository"
	"github.com/quizbattle-lab/backend/pkg/errorx"
)

// PlayerDomain registers and resolves players. A player id issued here is
// the identity every socket connection presents.
type PlayerDomain interface {
	Create(ctx context.Context, req *model.CreatePlayerRequest) (*model.CreatePlayerResponse, error)
	Get(ctx context.Context, id string) (*model.GetPlayerResponse, error)
}

type playerDomain struct {
	playerRepo repository.PlayerRepository
}

func NewPlayerDomain(playerRepo repository.PlayerRepository) PlayerDomain {
	return &playerDomain{playerRepo: playerRepo}
}

func (d *playerDomain) Create(
	ctx context.Context, req *model.CreatePlayerRequest,
) (*model.CreatePlayerResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errorx.New(errorx.BadRequest, "player name is required")
	}

	player := &entity.Player{
		Base: entity.Base{ID: uuid.NewString()},
		Name: name,
	}
	if err := d.playerRepo.Create(ctx, player); err != nil {
		return nil, err
	}

	return &model.CreatePlayerResponse{ID: player.ID, Name: player.Name}, nil
}

func (d *playerDomain) Get(ctx context.Context, id string) (*model.GetPlayerResponse, error) {
	player, err := d.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.GetPlayerResponse{ID: player.ID, Name: player.Name}, nil
}
