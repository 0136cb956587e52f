package models

import "github.com/google/uuid"

// GroupEmerging is the taxonomy group that receives categories synthesized
// from AI-detected values with no existing match.
const GroupEmerging = "emerging-technologies"

// Category is a taxonomy entry a project can be filed under. The taxonomy is
// extensible: accepting an AI-detected category with no existing match
// appends a new entry to the emerging group.
type Category struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Value string    `json:"value" gorm:"type:text;not null;uniqueIndex:idx_category_value"`
	Label string    `json:"label" gorm:"type:text;not null"`
	Group string    `json:"group" gorm:"column:category_group;type:text;not null;default:general"`
}
