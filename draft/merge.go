package draft

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/launchit-app/launchit-backend/errs"
	"github.com/launchit-app/launchit-backend/imaging"
	"github.com/launchit-app/launchit-backend/models"
	"github.com/launchit-app/launchit-backend/services"
)

// FillMode is the user's choice when an AI result would overwrite
// substantial existing input.
type FillMode string

const (
	// FillAll overwrites every field the AI returned.
	FillAll FillMode = "fill_all"
	// FillEmptyOnly applies AI values only to fields that are currently
	// blank. A field the user populated is never silently overwritten.
	FillEmptyOnly FillMode = "fill_empty_only"
)

// applyEnrichmentLocked decides what to do with a fresh AI result: below
// the threshold of filled fields there is nothing meaningful to lose, so it
// applies wholesale; at or above it the user chooses.
func (s *Session) applyEnrichmentLocked(result *services.EnrichResult) {
	if s.fields.FilledCount(s.selectedCategory != nil) < s.cfg.SmartFillThreshold {
		s.mergeResultLocked(result, FillAll)
		s.aiState = AIApplied
		return
	}
	s.aiPayload = result
	s.aiState = AISmartFillPending
}

// AcceptSmartFill resolves a pending smart-fill prompt with the chosen
// mode.
func (s *Session) AcceptSmartFill(mode FillMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.aiState != AISmartFillPending || s.aiPayload == nil {
		return errs.NewConflictError("no smart-fill decision is pending")
	}
	if mode != FillAll && mode != FillEmptyOnly {
		return errs.NewBadRequestError("unknown fill mode")
	}

	s.mergeResultLocked(s.aiPayload, mode)
	s.aiPayload = nil
	s.aiState = AIApplied
	return nil
}

// DismissSmartFill drops a pending AI result without applying anything.
func (s *Session) DismissSmartFill() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.aiState == AISmartFillPending {
		s.aiPayload = nil
		s.aiState = AIIdle
	}
}

func (s *Session) mergeResultLocked(result *services.EnrichResult, mode FillMode) {
	overwrite := mode == FillAll

	if result.Name != "" && (overwrite || strings.TrimSpace(s.fields.Name) == "") {
		s.fields.Name = result.Name
	}
	if result.Tagline != "" && (overwrite || strings.TrimSpace(s.fields.Tagline) == "") {
		s.fields.Tagline = result.Tagline
	}
	if result.Description != "" && (overwrite || strings.TrimSpace(s.fields.Description) == "") {
		s.fields.Description = result.Description
	}
	if len(result.Links) > 0 && (overwrite || len(s.fields.Links) == 0) {
		s.fields.Links = append([]string(nil), result.Links...)
	}
	if len(result.Features) > 0 && (overwrite || len(s.fields.Tags) == 0) {
		s.fields.Tags = append([]string(nil), result.Features...)
	}
	if result.LogoURL != "" && (overwrite || s.fields.Logo.IsZero()) {
		s.fields.Logo = imaging.RemoteImage(result.LogoURL)
	}
	if result.ThumbnailURL != "" && (overwrite || s.fields.Thumbnail.IsZero()) {
		s.fields.Thumbnail = imaging.RemoteImage(result.ThumbnailURL)
	}
	if result.Category != "" && (overwrite || s.selectedCategory == nil) {
		s.selectCategoryFromAILocked(result.Category)
	}

	s.markDirtyLocked()
}

// selectCategoryFromAILocked resolves an AI-detected category against the
// taxonomy: exact value match first, then case-insensitive label substring.
// No match synthesizes a new entry in the emerging group, so accepting the
// result mutates the taxonomy, not just the form.
func (s *Session) selectCategoryFromAILocked(detected string) {
	needle := strings.ToLower(strings.TrimSpace(detected))
	if needle == "" {
		return
	}

	for _, cat := range s.taxonomy {
		if cat.Value == detected {
			s.selectedCategory = cat
			return
		}
	}
	for _, cat := range s.taxonomy {
		label := strings.ToLower(cat.Label)
		if strings.Contains(label, needle) || strings.Contains(needle, label) {
			s.selectedCategory = cat
			return
		}
	}

	synthesized := &models.Category{
		ID:    uuid.New(),
		Value: slug.Make(detected),
		Label: strings.TrimSpace(detected),
		Group: models.GroupEmerging,
	}
	if err := s.categories.Add(synthesized); err != nil {
		s.logger.Error().Err(err).Str("category", detected).Msg("persisting synthesized category failed")
		return
	}
	s.taxonomy = append(s.taxonomy, synthesized)
	s.selectedCategory = synthesized
}
