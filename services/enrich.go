package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/launchit-app/launchit-backend/config"
	"github.com/launchit-app/launchit-backend/errs"
)

// EnrichResult is the marketing copy the enrichment service generates from a
// website URL. It is transient: fields are merged into the project under
// user control and the result itself is never persisted.
type EnrichResult struct {
	Name         string   `json:"name"`
	Tagline      string   `json:"tagline"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Features     []string `json:"features"`
	LogoURL      string   `json:"logo_url"`
	ThumbnailURL string   `json:"thumbnail_url"`
	Links        []string `json:"links"`
}

// Enricher generates marketing copy for a URL.
type Enricher interface {
	Generate(ctx context.Context, url, userID string) (*EnrichResult, error)
}

// EnrichClient calls the external AI enrichment service. The service is a
// black box: one POST in, generated copy or a structured error out. The
// client applies its own timeout, separate from any retry backoff the caller
// runs.
type EnrichClient struct {
	serviceURL string
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
}

func NewEnrichClient(c map[string]string) *EnrichClient {
	timeout := config.GetSeconds(c, "AI_TIMEOUT_SECONDS", 45*time.Second)

	return &EnrichClient{
		serviceURL: strings.TrimSuffix(config.GetString(c, "AI_SERVICE_URL", "http://localhost:8090"), "/"),
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
		logger:     log.With().Str("handlerName", "enrichClient").Logger(),
	}
}

type enrichRequest struct {
	URL    string `json:"url"`
	UserID string `json:"user_id"`
}

type enrichError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Generate requests enrichment for the URL. Failures are classified for the
// caller: transient (network, timeout, 5xx) is retryable; partial (the
// service generated text but image derivation failed) is not; validation
// errors are surfaced as-is.
func (c *EnrichClient) Generate(ctx context.Context, url, userID string) (*EnrichResult, error) {
	body, err := json.Marshal(enrichRequest{URL: url, UserID: userID})
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("encoding enrichment request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serviceURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("building enrichment request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			c.logger.Warn().Str("url", url).Msg("enrichment call timed out")
			return nil, errs.NewServiceTimeoutError("enrichment service", c.timeout)
		}
		c.logger.Warn().Err(err).Str("url", url).Msg("enrichment call failed")
		return nil, errs.NewTransientServiceError("enrichment service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, errs.NewTransientServiceError("enrichment service",
			fmt.Errorf("status %d", resp.StatusCode))
	}

	if resp.StatusCode != http.StatusOK {
		var svcErr enrichError
		if err := json.NewDecoder(resp.Body).Decode(&svcErr); err != nil {
			return nil, errs.NewTransientServiceError("enrichment service",
				fmt.Errorf("status %d with unreadable body", resp.StatusCode))
		}
		return nil, classifyServiceError(svcErr)
	}

	var result EnrichResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errs.NewTransientServiceError("enrichment service", err)
	}
	return &result, nil
}

// classifyServiceError maps a service-reported error payload onto the error
// taxonomy by substring matching, the service's contract being informal.
// Image-derivation failures are partial (text succeeded, never retried);
// everything else the service regards as the caller's fault is a validation
// error.
func classifyServiceError(svcErr enrichError) error {
	combined := strings.ToLower(svcErr.Error + " " + svcErr.Message)
	if strings.Contains(combined, "image") || strings.Contains(combined, "thumbnail") {
		return errs.NewPartialServiceError("enrichment service", "image generation")
	}
	return errs.NewServiceValidationError("enrichment service", svcErr.Message)
}

func isTimeout(err error) bool {
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}
