package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/launchit-app/launchit-backend/models"
)

type LikeRepo struct {
	db *gorm.DB
}

func NewLikeRepo(db *gorm.DB) *LikeRepo {
	return &LikeRepo{db}
}

// Add records a like. Liking a project twice is a no-op rather than an
// error.
func (r *LikeRepo) Add(like *models.Like) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error
}

// Remove deletes the (project, user) like pair if present.
func (r *LikeRepo) Remove(projectID uuid.UUID, userID string) error {
	return r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.Like{}).Error
}

// CountByProject returns the number of likes on a project.
func (r *LikeRepo) CountByProject(projectID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}
