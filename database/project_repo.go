package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/launchit-app/launchit-backend/models"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(project *models.Project) error {
	return r.db.Create(project).Error
}

// Update updates an existing project in the database
func (r *ProjectRepo) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// FindByIDAndOwner returns a project only when it exists and belongs to the
// given user. Ownership is enforced by the query predicate itself: a miss
// never reveals whether the id exists at all. Returns (nil, nil) on a miss.
func (r *ProjectRepo) FindByIDAndOwner(id uuid.UUID, userID string) (*models.Project, error) {
	var project models.Project
	err := r.db.Preload("Links", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).
		First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindDraftsByOwner returns the user's draft rows sorted most-recently
// updated first. Meaningfulness filtering is the caller's concern.
func (r *ProjectRepo) FindDraftsByOwner(userID string) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.Preload("Category").
		Where("user_id = ? AND status = ?", userID, models.StatusDraft).
		Order("updated_at DESC").
		Find(&projects).Error
	return projects, err
}

// FindBySlug returns a launched project by its public slug. Returns
// (nil, nil) when no launched project carries the slug.
func (r *ProjectRepo) FindBySlug(slug string) (*models.Project, error) {
	var project models.Project
	err := r.db.Preload("Links", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Preload("Category").
		Where("slug = ? AND status = ?", slug, models.StatusLaunched).
		First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindLaunched returns launched projects for public browsing. search matches
// name and tagline, categoryValue filters by taxonomy entry; either may be
// empty.
func (r *ProjectRepo) FindLaunched(search, categoryValue string, limit int) ([]*models.Project, error) {
	query := r.db.Preload("Category").
		Where("projects.status = ?", models.StatusLaunched)

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("projects.name ILIKE ? OR projects.tagline ILIKE ?", pattern, pattern)
	}
	if categoryValue != "" {
		query = query.Joins("JOIN categories ON categories.id = projects.category_id").
			Where("categories.value = ?", categoryValue)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var projects []*models.Project
	err := query.Order("projects.updated_at DESC").Find(&projects).Error
	return projects, err
}

// SuggestNames returns launched project names matching the prefix, for the
// search-suggestion aggregator.
func (r *ProjectRepo) SuggestNames(prefix string, limit int) ([]string, error) {
	var names []string
	err := r.db.Model(&models.Project{}).
		Where("status = ? AND name ILIKE ?", models.StatusLaunched, prefix+"%").
		Order("name ASC").
		Limit(limit).
		Pluck("name", &names).Error
	return names, err
}

// SuggestTaglines returns launched project names whose tagline contains the
// term.
func (r *ProjectRepo) SuggestTaglines(term string, limit int) ([]string, error) {
	var names []string
	err := r.db.Model(&models.Project{}).
		Where("status = ? AND tagline ILIKE ?", models.StatusLaunched, "%"+term+"%").
		Order("name ASC").
		Limit(limit).
		Pluck("name", &names).Error
	return names, err
}

// SuggestTags returns launched project names carrying a tag matching the
// term. Tags are stored as a JSON array, so the match goes through the JSONB
// containment text form.
func (r *ProjectRepo) SuggestTags(term string, limit int) ([]string, error) {
	var names []string
	err := r.db.Model(&models.Project{}).
		Where("status = ? AND tags::text ILIKE ?", models.StatusLaunched, "%"+term+"%").
		Order("name ASC").
		Limit(limit).
		Pluck("name", &names).Error
	return names, err
}

// ReplaceLinks swaps a project's link rows for a new ordered set in one
// transaction.
func (r *ProjectRepo) ReplaceLinks(projectID uuid.UUID, links []models.ProjectLink) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectLink{}).Error; err != nil {
			return err
		}
		for i := range links {
			links[i].ProjectID = projectID
			links[i].Position = i
			if links[i].ID == uuid.Nil {
				links[i].ID = uuid.New()
			}
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Project{}, id).Error
}
