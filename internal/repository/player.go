package repository

import (
	"context"
	"errors"

	"github.com/quizbattle-lab/backend/internal/entity"
	"github.com/quizbattle-lab/backend/pkg/errorx"
	"gorm.io/gorm"
)

type PlayerRepository interface {
	Create(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type playerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) Create(ctx context.Context, player *entity.Player) error {
	return r.db.WithContext(ctx).Create(player).Error
}

func (r *playerRepository) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	var result entity.Player
	err := r.db.WithContext(ctx).Take(&result, "id=?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.ErrPlayerNotFound
		}
		return nil, err
	}

	return &result, nil
}
