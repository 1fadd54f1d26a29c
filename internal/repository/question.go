package repository

import (
	"context"
	"errors"
	"math/rand"

	"github.com/quizbattle-lab/backend/internal/entity"
	"github.com/quizbattle-lab/backend/pkg/errorx"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	CreateList(ctx context.Context, questions []entity.Question) error
	Count(ctx context.Context) (int64, error)

	// RandomByCategory picks a random question of the category with its
	// options shuffled per call.
	RandomByCategory(ctx context.Context, categoryID int) (*entity.Question, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) CreateList(ctx context.Context, questions []entity.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(questions).Error
}

func (r *questionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Question{}).Count(&count).Error
	return count, err
}

func (r *questionRepository) RandomByCategory(ctx context.Context, categoryID int) (*entity.Question, error) {
	var result entity.Question
	err := r.db.WithContext(ctx).
		Where("category_id=?", categoryID).
		Order("RANDOM()").
		Take(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "no question for category %d", categoryID)
		}
		return nil, err
	}

	shuffled := make(entity.Array[entity.Option], len(result.Options))
	copy(shuffled, result.Options)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	result.Options = shuffled

	return &result, nil
}
