package testutil

import (
	"context"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/quizbattle-lab/backend/internal/entity"
	"github.com/quizbattle-lab/backend/internal/repository"
	"github.com/quizbattle-lab/backend/migration"
)

func CreateFixtureDb() *gorm.DB {
	// 1. Create in memory db
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	if err := migration.AutoMigrate(db); err != nil {
		panic(err)
	}

	// 2. Insert data
	InsertPlayers(db)
	InsertQuestions(db)

	return db
}

func InsertPlayers(db *gorm.DB) {
	playerRepo := repository.NewPlayerRepository(db)

	err := playerRepo.Create(context.Background(), &entity.Player{
		Base: entity.Base{ID: "player1"},
		Name: "Alice",
	})
	if err != nil {
		panic(err)
	}

	err = playerRepo.Create(context.Background(), &entity.Player{
		Base: entity.Base{ID: "player2"},
		Name: "Bob",
	})
	if err != nil {
		panic(err)
	}
}

func InsertQuestions(db *gorm.DB) {
	questionRepo := repository.NewQuestionRepository(db)

	err := questionRepo.CreateList(context.Background(), []entity.Question{
		{
			ID:         101,
			CategoryID: 1,
			Content:    "Which country does this flag belong to?",
			ImageCode:  "fr",
			Options: entity.Array[entity.Option]{
				{ID: 0, Text: "Italy"},
				{ID: 1, Text: "France"},
				{ID: 2, Text: "Spain"},
				{ID: 3, Text: "Poland"},
			},
			Answer: 1,
		},
		{
			ID:         102,
			CategoryID: 1,
			Content:    "Which country does this flag belong to?",
			ImageCode:  "jp",
			Options: entity.Array[entity.Option]{
				{ID: 0, Text: "China"},
				{ID: 1, Text: "South Korea"},
				{ID: 2, Text: "Japan"},
				{ID: 3, Text: "Vietnam"},
			},
			Answer: 2,
		},
		{
			ID:         201,
			CategoryID: 2,
			Content:    "What is the capital of Canada?",
			Options: entity.Array[entity.Option]{
				{ID: 0, Text: "Toronto"},
				{ID: 1, Text: "Vancouver"},
				{ID: 2, Text: "Ottawa"},
				{ID: 3, Text: "Montreal"},
			},
			Answer: 2,
		},
	})
	if err != nil {
		panic(err)
	}
}
