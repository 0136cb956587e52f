package models

import (
	"time"

	"github.com/google/uuid"
)

// Like records one user liking one project. The (project, user) pair is
// unique; liking twice is a no-op.
type Like struct {
	ProjectID uuid.UUID `json:"project_id" gorm:"type:uuid;primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:text;primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}
