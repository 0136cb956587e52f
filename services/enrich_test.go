package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchit-app/launchit-backend/errs"
)

func enrichClientFor(serverURL string) *EnrichClient {
	return NewEnrichClient(map[string]string{
		"AI_SERVICE_URL":     serverURL,
		"AI_TIMEOUT_SECONDS": "2",
	})
}

func TestGenerateDecodesSuccessfulResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "Orbit",
			"tagline": "Mission control for side projects",
			"category": "developer-tools",
			"features": ["dashboards"],
			"logo_url": "https://orbit.test/logo.png"
		}`))
	}))
	defer server.Close()

	result, err := enrichClientFor(server.URL).Generate(context.Background(), "https://orbit.test", "user-1")

	require.NoError(t, err)
	assert.Equal(t, "Orbit", result.Name)
	assert.Equal(t, "developer-tools", result.Category)
	assert.Equal(t, []string{"dashboards"}, result.Features)
}

func TestGenerateClassifiesServerErrorAsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := enrichClientFor(server.URL).Generate(context.Background(), "https://orbit.test", "user-1")

	require.Error(t, err)
	assert.True(t, errs.IsTransientServiceError(err))
}

func TestGenerateClassifiesConnectionFailureAsTransient(t *testing.T) {
	_, err := enrichClientFor("http://127.0.0.1:9").Generate(context.Background(), "https://orbit.test", "user-1")

	require.Error(t, err)
	assert.True(t, errs.IsTransientServiceError(err))
}

func TestGenerateClassifiesImageFailureAsPartial(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error": "generation_failed", "message": "thumbnail rendering failed"}`))
	}))
	defer server.Close()

	_, err := enrichClientFor(server.URL).Generate(context.Background(), "https://orbit.test", "user-1")

	require.Error(t, err)
	assert.True(t, errs.IsPartialServiceError(err))
	assert.False(t, errs.IsTransientServiceError(err))
}

func TestGenerateClassifiesRejectionAsValidation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "invalid_url", "message": "not a reachable product page"}`))
	}))
	defer server.Close()

	_, err := enrichClientFor(server.URL).Generate(context.Background(), "https://orbit.test", "user-1")

	require.Error(t, err)
	assert.True(t, errs.IsServiceValidationError(err))
}

func TestGenerateUnreadableErrorBodyIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := enrichClientFor(server.URL).Generate(context.Background(), "https://orbit.test", "user-1")

	require.Error(t, err)
	assert.True(t, errs.IsTransientServiceError(err))
}
