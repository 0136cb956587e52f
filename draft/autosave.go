package draft

import (
	"context"

	"github.com/google/uuid"

	"github.com/launchit-app/launchit-backend/errs"
	"github.com/launchit-app/launchit-backend/models"
)

// markDirtyLocked records a mutation and re-arms the trailing-edge debounce
// timer. Callers hold s.mu.
func (s *Session) markDirtyLocked() {
	s.dirty = true
	s.mutationSeq++

	if !s.autosaveEligibleLocked() {
		return
	}

	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.debounce = s.clock.AfterFunc(s.cfg.DebounceQuiet, s.autosaveFire)
}

// autosaveEligibleLocked checks the autosave preconditions: authenticated,
// not already launched, form non-empty, name non-blank.
func (s *Session) autosaveEligibleLocked() bool {
	if s.UserID == "" || s.alreadyLaunched {
		return false
	}
	if s.fields.Empty(s.selectedCategory != nil) {
		return false
	}
	return s.fields.Name != ""
}

// autosaveFire runs when the quiet period elapses with no further mutation.
// If a save is already in flight it simply re-arms; the next fire picks up
// whatever state exists then.
func (s *Session) autosaveFire() {
	s.mu.Lock()
	if !s.autosaveEligibleLocked() {
		s.mu.Unlock()
		return
	}
	if s.saving {
		s.debounce = s.clock.AfterFunc(s.cfg.DebounceQuiet, s.autosaveFire)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if err := s.saveDraft(context.Background()); err != nil {
		s.logger.Warn().Err(err).Msg("autosave failed")
	}
}

// SaveDraft is the manual "Save as Draft" action. Same write path as
// autosave, serialized with it, synchronous for the caller. The caller
// navigates away afterwards regardless of the outcome; a failure is
// reported so it can still surface a toast.
func (s *Session) SaveDraft(ctx context.Context) error {
	s.mu.Lock()
	if s.alreadyLaunched {
		s.mu.Unlock()
		return errs.NewConflictError("project is already launched")
	}
	if s.fields.Empty(s.selectedCategory != nil) {
		s.mu.Unlock()
		return errs.NewBadRequestError("nothing to save")
	}
	if s.debounce != nil {
		s.debounce.Stop()
		s.debounce = nil
	}
	s.mu.Unlock()

	return s.saveDraft(ctx)
}

// saveDraft is the single draft write path. saveMu guarantees at most one
// outstanding write per session; target resolution is idempotent: the
// first insert binds the row id, every later save updates that same row.
func (s *Session) saveDraft(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	s.saving = true
	s.state = StateSavingDraft
	seqAtSnapshot := s.mutationSeq
	row, links := s.buildDraftRowLocked()
	isInsert := s.targetID == nil
	s.mu.Unlock()

	err := s.writeDraft(ctx, row, links, isInsert)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if s.state == StateSavingDraft {
		s.state = StateEditing
	}

	if err != nil {
		// Non-fatal: keep the dirty flag, surface the error, editing
		// continues. Retry is manual.
		s.saveErr = "Saving failed. Your changes are not stored yet."
		s.notice = s.saveErr
		return errs.NewDatabaseError("save", "draft", err)
	}

	if isInsert {
		boundID := row.ID
		s.targetID = &boundID
		s.createdAt = row.CreatedAt
	}
	s.lastSavedAt = s.clock.Now()
	s.saveErr = ""
	// A mutation that landed mid-save keeps the session dirty; its own
	// debounce timer is already armed.
	if s.mutationSeq == seqAtSnapshot {
		s.dirty = false
	}
	return nil
}

// buildDraftRowLocked snapshots the form into a draft row. Images are only
// carried when they already have a hosted URL; locally-held bytes upload at
// publish, not on every autosave.
func (s *Session) buildDraftRowLocked() (models.Project, []models.ProjectLink) {
	row := models.Project{
		UserID:      s.UserID,
		Status:      models.StatusDraft,
		Name:        s.fields.Name,
		Tagline:     s.fields.Tagline,
		Description: s.fields.Description,
		WebsiteURL:  s.fields.WebsiteURL,
		BuiltWith:   append([]string(nil), s.fields.BuiltWith...),
		Tags:        append([]string(nil), s.fields.Tags...),
		Slug:        s.slug,
	}
	if s.targetID != nil {
		row.ID = *s.targetID
		row.CreatedAt = s.createdAt
	} else {
		row.ID = uuid.New()
	}
	if s.selectedCategory != nil {
		catID := s.selectedCategory.ID
		row.CategoryID = &catID
	}
	if s.fields.Logo.IsRemote() {
		row.LogoURL = s.fields.Logo.URL
	}
	if s.fields.Thumbnail.IsRemote() {
		row.ThumbnailURL = s.fields.Thumbnail.URL
	}
	for _, cover := range s.fields.Covers {
		if cover.IsRemote() {
			row.CoverURLs = append(row.CoverURLs, cover.URL)
		}
	}

	var links []models.ProjectLink
	for i, url := range s.fields.Links {
		links = append(links, models.ProjectLink{
			URL:      url,
			Kind:     models.ClassifyLink(url),
			Position: i,
		})
	}
	return row, links
}

func (s *Session) writeDraft(ctx context.Context, row models.Project, links []models.ProjectLink, isInsert bool) error {
	_ = ctx // the gorm gateway manages its own deadlines

	var err error
	if isInsert {
		err = s.projects.Add(&row)
	} else {
		err = s.projects.Update(&row)
	}
	if err != nil {
		return err
	}
	return s.projects.ReplaceLinks(row.ID, links)
}

// RetrySave re-invokes the draft write after a surfaced failure.
func (s *Session) RetrySave(ctx context.Context) error {
	return s.saveDraft(ctx)
}
