package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Project lifecycle status. The transition is monotonic: a draft becomes
// launched exactly once and never goes back. Editing a launched project
// keeps it launched.
const (
	StatusDraft    = "draft"
	StatusLaunched = "launched"
)

// Content field limits enforced at publish time.
const (
	MaxNameLength        = 30
	MaxTaglineLength     = 60
	MaxDescriptionWords  = 260
	MinCoverImages       = 2
)

// Project represents a startup profile, from first autosaved draft through
// launch. The slug is assigned at first publish and stable thereafter.
type Project struct {
	ID           uuid.UUID                     `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Slug         string                        `json:"slug,omitempty" gorm:"type:text;uniqueIndex:idx_project_slug,where:slug <> ''"`
	UserID       string                        `json:"user_id" gorm:"type:text;not null;index:idx_project_user"`
	Status       string                        `json:"status" gorm:"type:text;not null;default:draft;index:idx_project_status"`
	Name         string                        `json:"name" gorm:"type:text;not null;default:''"`
	Tagline      string                        `json:"tagline" gorm:"type:text;not null;default:''"`
	Description  string                        `json:"description" gorm:"type:text;not null;default:''"`
	WebsiteURL   string                        `json:"website_url" gorm:"type:text;not null;default:''"`
	CategoryID   *uuid.UUID                    `json:"category_id,omitempty" gorm:"type:uuid"`
	BuiltWith    datatypes.JSONSlice[string]   `json:"built_with,omitempty"`
	Tags         datatypes.JSONSlice[string]   `json:"tags,omitempty"`
	LogoURL      string                        `json:"logo_url,omitempty" gorm:"type:text;not null;default:''"`
	ThumbnailURL string                        `json:"thumbnail_url,omitempty" gorm:"type:text;not null;default:''"`
	CoverURLs    datatypes.JSONSlice[string]   `json:"cover_urls,omitempty"`
	CreatedAt    time.Time                     `json:"created_at"`
	UpdatedAt    time.Time                     `json:"updated_at"`

	Category *Category     `json:"category,omitempty" gorm:"foreignKey:CategoryID;references:ID"`
	Links    []ProjectLink `json:"links,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

// Meaningful reports whether the draft is worth surfacing for resumption:
// at least one primary content field is non-blank. Empty drafts are never
// shown and are logically equivalent to no draft at all.
func (p Project) Meaningful() bool {
	return strings.TrimSpace(p.Name) != "" ||
		strings.TrimSpace(p.WebsiteURL) != "" ||
		strings.TrimSpace(p.Tagline) != "" ||
		strings.TrimSpace(p.Description) != "" ||
		p.CategoryID != nil
}

// Launched reports whether the project has left the draft stage.
func (p Project) Launched() bool {
	return p.Status == StatusLaunched
}
