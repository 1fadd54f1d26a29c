package repository

import (
	"github.com/quizbattle-lab/backend/internal/entity"
	"github.com/quizbattle-lab/backend/pkg/errorx"
)

// The category list is a fixed product constant, so no table backs it.
var categories = []entity.Category{
	{ID: 1, Name: "Country Flags"},
	{ID: 2, Name: "Country Capitals"},
	{ID: 3, Name: "Hollywood Stars"},
	{ID: 4, Name: "Movie Posters"},
	{ID: 5, Name: "Football Club Logos"},
}

type CategoryRepository interface {
	GetList() []entity.Category
	GetByID(id int) (*entity.Category, error)
}

type categoryRepository struct{}

func NewCategoryRepository() CategoryRepository {
	return &categoryRepository{}
}

func (r *categoryRepository) GetList() []entity.Category {
	result := make([]entity.Category, len(categories))
	copy(result, categories)
	return result
}

func (r *categoryRepository) GetByID(id int) (*entity.Category, error) {
	for _, c := range categories {
		if c.ID == id {
			return &c, nil
		}
	}

	return nil, errorx.New(errorx.NotFound, "category %d not found", id)
}
