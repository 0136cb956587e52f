package models

import (
	"strings"

	"github.com/google/uuid"
)

// Link kinds derived from the URL's host. Anything unrecognized is a plain
// website link.
const (
	LinkKindYouTube  = "youtube"
	LinkKindLinkedIn = "linkedin"
	LinkKindTwitter  = "twitter"
	LinkKindGitHub   = "github"
	LinkKindWebsite  = "website"
)

// ProjectLink is an ordered external link attached to a project.
type ProjectLink struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID uuid.UUID `json:"project_id" gorm:"type:uuid;not null;index:idx_project_link_project"`
	URL       string    `json:"url" gorm:"type:text;not null"`
	Kind      string    `json:"kind" gorm:"type:text;not null;default:website"`
	Position  int       `json:"position" gorm:"not null;default:0"`
}

// ClassifyLink derives the semantic kind of a link from its URL by domain
// pattern matching.
func ClassifyLink(url string) string {
	lowered := strings.ToLower(url)
	switch {
	case strings.Contains(lowered, "youtube.com"), strings.Contains(lowered, "youtu.be"):
		return LinkKindYouTube
	case strings.Contains(lowered, "linkedin.com"):
		return LinkKindLinkedIn
	case strings.Contains(lowered, "twitter.com"), strings.Contains(lowered, "x.com"):
		return LinkKindTwitter
	case strings.Contains(lowered, "github.com"):
		return LinkKindGitHub
	default:
		return LinkKindWebsite
	}
}
