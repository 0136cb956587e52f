package database

import (
	"errors"

	"gorm.io/gorm"

	"github.com/launchit-app/launchit-backend/models"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db}
}

// FindAll returns the full taxonomy ordered by group then label.
func (r *CategoryRepo) FindAll() ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.Order("category_group ASC, label ASC").Find(&categories).Error
	return categories, err
}

// FindByValue returns a taxonomy entry by its canonical value, or (nil, nil)
// when none exists.
func (r *CategoryRepo) FindByValue(value string) (*models.Category, error) {
	var category models.Category
	err := r.db.Where("value = ?", value).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Add inserts a new taxonomy entry.
func (r *CategoryRepo) Add(category *models.Category) error {
	return r.db.Create(category).Error
}
