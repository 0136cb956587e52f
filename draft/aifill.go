package draft

import (
	"context"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/launchit-app/launchit-backend/errs"
	"github.com/launchit-app/launchit-backend/services"
)

// TriggerAIFill starts AI-assisted field population from the website URL.
// The generation loop runs in the background; the UI polls the AI status
// through Snapshot. Returns an error only when preconditions fail.
func (s *Session) TriggerAIFill(ctx context.Context) error {
	s.mu.Lock()

	url := strings.TrimSpace(s.fields.WebsiteURL)
	if url == "" {
		s.mu.Unlock()
		return errs.NewMissingRequiredFieldError("website_url")
	}
	if !IsValidURL(url) {
		s.mu.Unlock()
		return errs.NewInvalidFieldError("website_url", "must be an absolute http(s) URL")
	}
	if s.aiState == AIGenerating {
		s.mu.Unlock()
		return errs.NewConflictError("generation is already in progress")
	}

	s.aiState = AIGenerating
	s.aiRetryCount = 0
	s.aiPayload = nil
	s.mu.Unlock()

	// The generation loop outlives the triggering request: an HTTP caller's
	// context is canceled as soon as its response is written, which would
	// kill the enricher call and every backoff sleep. Only the context's
	// values carry over.
	go s.generate(context.WithoutCancel(ctx), url)
	return nil
}

// generate runs the retry loop: transient failures reschedule with
// exponential backoff (2 to 30 time units), anything else stops. Retries
// are sequential: a retry is a future invocation, never an overlapping
// call.
func (s *Session) generate(ctx context.Context, url string) {
	backoff := retry.WithCappedDuration(s.cfg.AIBackoffCap, retry.NewExponential(s.cfg.AIBackoffBase))

	for attempt := 1; ; attempt++ {
		result, err := s.enricher.Generate(ctx, url, s.UserID)
		if err == nil {
			s.mu.Lock()
			s.applyEnrichmentLocked(result)
			s.mu.Unlock()
			return
		}

		switch {
		case errs.IsPartialServiceError(err):
			// Text succeeded upstream but image derivation failed. Not
			// retryable; the user uploads images manually.
			s.finishGenerationWithFailure(ctx, url,
				"AI text generation finished, but image generation failed. You can upload images manually.")
			return
		case errs.IsServiceValidationError(err):
			s.finishGenerationWithFailure(ctx, url,
				"The AI service rejected this URL. Check the address and try again.")
			return
		case errs.IsTransientServiceError(err):
			if attempt >= s.cfg.AIMaxAttempts {
				s.finishGenerationWithFailure(ctx, url,
					"AI generation is unavailable right now. Please try again later.")
				return
			}
			delay, _ := backoff.Next()
			s.mu.Lock()
			s.aiRetryCount++
			s.mu.Unlock()
			if sleepErr := s.sleep(ctx, delay); sleepErr != nil {
				s.finishGenerationWithFailure(context.Background(), url,
					"AI generation was interrupted.")
				return
			}
		default:
			s.finishGenerationWithFailure(ctx, url, "AI generation failed.")
			return
		}
	}
}

// finishGenerationWithFailure surfaces the failure and opportunistically
// attempts the basic-preview fallback if one has not been generated yet.
func (s *Session) finishGenerationWithFailure(ctx context.Context, url, message string) {
	s.mu.Lock()
	s.aiState = AIIdle
	s.notice = message
	havePreview := s.preview != nil
	s.mu.Unlock()

	if havePreview {
		return
	}

	preview, err := services.FetchPreview(ctx, url)
	if err != nil {
		s.logger.Debug().Err(err).Str("url", url).Msg("preview fallback failed")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.preview = preview
	// Seed only blank fields; a fallback never clobbers user input.
	if strings.TrimSpace(s.fields.Name) == "" && preview.Title != "" {
		s.fields.Name = preview.Title
	}
	if strings.TrimSpace(s.fields.Description) == "" && preview.Description != "" {
		s.fields.Description = preview.Description
	}
	s.markDirtyLocked()
}

// sleep waits through the session clock so tests can drive a virtual one.
func (s *Session) sleep(ctx context.Context, d time.Duration) error {
	done := make(chan struct{})
	timer := s.clock.AfterFunc(d, func() { close(done) })
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	}
}
