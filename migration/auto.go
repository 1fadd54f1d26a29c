package migration

import (
	"github.com/quizbattle-lab/backend/internal/entity"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Player{},
		&entity.Question{},
	)
}
