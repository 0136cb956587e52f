package draft

import (
	"github.com/google/uuid"

	"github.com/launchit-app/launchit-backend/models"
)

// ProjectStore is the slice of the persistence gateway the state machine
// needs. *database.ProjectRepo satisfies it; tests use an in-memory fake.
type ProjectStore interface {
	Add(project *models.Project) error
	Update(project *models.Project) error
	FindByIDAndOwner(id uuid.UUID, userID string) (*models.Project, error)
	// FindDraftsByOwner may return drafts in any order; the session sorts
	// them before offering a selection.
	FindDraftsByOwner(userID string) ([]*models.Project, error)
	ReplaceLinks(projectID uuid.UUID, links []models.ProjectLink) error
}

// CategoryStore is the taxonomy surface: lookup for resolution and Add for
// AI-synthesized entries.
type CategoryStore interface {
	FindAll() ([]*models.Category, error)
	FindByValue(value string) (*models.Category, error)
	Add(category *models.Category) error
}
