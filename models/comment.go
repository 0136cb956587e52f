package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a user comment on a launched project. Hidden comments stay in
// the database for moderation review but are filtered from public listings.
type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID uuid.UUID `json:"project_id" gorm:"type:uuid;not null;index:idx_comment_project"`
	UserID    string    `json:"user_id" gorm:"type:text;not null"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	Hidden    bool      `json:"hidden" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}
