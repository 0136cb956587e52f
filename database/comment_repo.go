package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/launchit-app/launchit-backend/models"
)

type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db}
}

// Add inserts a new comment into the database
func (r *CommentRepo) Add(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// FindByProject returns a project's comments, newest first. Hidden comments
// are included only when includeHidden is set (moderation views).
func (r *CommentRepo) FindByProject(projectID uuid.UUID, includeHidden bool) ([]*models.Comment, error) {
	query := r.db.Where("project_id = ?", projectID)
	if !includeHidden {
		query = query.Where("hidden = ?", false)
	}

	var comments []*models.Comment
	err := query.Order("created_at DESC").Find(&comments).Error
	return comments, err
}

// Hide marks a comment as hidden without deleting it.
func (r *CommentRepo) Hide(id uuid.UUID) error {
	return r.db.Model(&models.Comment{}).Where("id = ?", id).Update("hidden", true).Error
}

// Delete removes a comment from the database by id
func (r *CommentRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Comment{}, id).Error
}
