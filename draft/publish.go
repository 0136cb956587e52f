package draft

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/launchit-app/launchit-backend/errs"
	"github.com/launchit-app/launchit-backend/imaging"
	"github.com/launchit-app/launchit-backend/models"
)

// Publish runs the full publish gate, uploads images, and writes the row
// with status launched. Image failures for locally-held files abort before
// the row write; remote re-hosting failures fall back to linking the
// original URL. The slug is assigned once, at first publish.
func (s *Session) Publish(ctx context.Context) error {
	s.mu.Lock()

	if s.state == StatePublished {
		s.mu.Unlock()
		return errs.NewConflictError("session is already published")
	}
	if err := ValidateForm(s.fields, s.selectedCategory != nil, len(s.fields.Covers)); err != nil {
		s.notice = err.Error()
		s.mu.Unlock()
		return err
	}

	s.state = StatePublishing
	if s.debounce != nil {
		s.debounce.Stop()
		s.debounce = nil
	}
	fields := s.fields
	rowID := uuid.New()
	if s.targetID != nil {
		rowID = *s.targetID
	}
	s.mu.Unlock()

	// All image work happens before the row write so a failure aborts with
	// nothing persisted.
	logoURL, err := s.resolveImage(ctx, fields.Logo, rowID, "logo")
	if err != nil {
		return s.abortPublish(err)
	}
	thumbURL, err := s.resolveImage(ctx, fields.Thumbnail, rowID, "thumbnail")
	if err != nil {
		return s.abortPublish(err)
	}
	coverURLs := make([]string, 0, len(fields.Covers))
	for i, cover := range fields.Covers {
		coverURL, err := s.resolveImage(ctx, cover, rowID, fmt.Sprintf("cover-%d", i))
		if err != nil {
			return s.abortPublish(err)
		}
		coverURLs = append(coverURLs, coverURL)
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	row, links := s.buildDraftRowLocked()
	row.ID = rowID
	row.Status = models.StatusLaunched
	row.LogoURL = logoURL
	row.ThumbnailURL = thumbURL
	row.CoverURLs = coverURLs
	if row.Slug == "" {
		row.Slug = NewSlug(fields.Name)
	}
	isInsert := s.targetID == nil
	s.mu.Unlock()

	if err := s.writeDraft(ctx, row, links, isInsert); err != nil {
		return s.abortPublish(errs.NewDatabaseError("publish", "project", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.slug = row.Slug
	s.state = StatePublished
	s.fields = Fields{}
	s.selectedCategory = nil
	s.localDraft = nil
	s.dirty = false
	s.saveErr = ""
	s.aiState = AIIdle
	s.aiPayload = nil
	return nil
}

func (s *Session) abortPublish(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateEditing
	if errs.IsUploadError(err) {
		s.notice = "Publishing failed. An image could not be uploaded. Nothing was changed."
	} else {
		s.notice = "Publishing failed. Nothing was changed."
	}
	return err
}

// resolveImage turns an ImageRef into a hosted public URL. Local bytes are
// normalized and uploaded; a failure is fatal to the publish. Remote URLs
// are fetched and re-hosted through the normalizer; any failure there
// degrades to linking the original URL.
func (s *Session) resolveImage(ctx context.Context, ref imaging.ImageRef, projectID uuid.UUID, name string) (string, error) {
	switch {
	case ref.IsZero():
		return "", nil

	case ref.IsLocal():
		url, err := s.normalizeAndUpload(ctx, ref.Data, ref.Mime, projectID, name)
		if err != nil {
			return "", err
		}
		return url, nil

	default: // remote
		data, mime, err := s.fetchImage(ctx, ref.URL)
		if err != nil {
			s.logger.Warn().Err(err).Str("url", ref.URL).Msg("fetching remote image failed, linking original")
			return ref.URL, nil
		}
		url, err := s.normalizeAndUpload(ctx, data, mime, projectID, name)
		if err != nil {
			s.logger.Warn().Err(err).Str("url", ref.URL).Msg("re-hosting remote image failed, linking original")
			return ref.URL, nil
		}
		return url, nil
	}
}

func (s *Session) normalizeAndUpload(ctx context.Context, data []byte, mime string, projectID uuid.UUID, name string) (string, error) {
	normalized := imaging.Normalize(data, mime)
	uploadData := normalized.Data
	contentType := normalized.ContentType
	if !imaging.UseNormalized(data, normalized.Data) {
		uploadData = data
		contentType = mime
	}

	path := fmt.Sprintf("projects/%s/%s%s", projectID, name, extensionFor(contentType))
	return s.uploader.Upload(ctx, path, uploadData, contentType)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}

var imageFetchClient = &http.Client{Timeout: 30 * time.Second}

func defaultFetchImage(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := imageFetchClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	const maxImageBytes = 20 * 1024 * 1024
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}
