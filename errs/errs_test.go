package errs

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApiErrUnwrapsToSentinel(t *testing.T) {
	err := NewMissingRequiredFieldError("name")

	assert.True(t, errors.Is(err, ErrMissingRequiredField))
	assert.True(t, IsMissingRequiredFieldError(err))
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "name", err.Field)
}

func TestErrorIncludesDetails(t *testing.T) {
	err := NewInvalidFieldError("tagline", "too long")

	assert.Contains(t, err.Error(), "invalid field")
	assert.Contains(t, err.Error(), "tagline")
	assert.Contains(t, err.Error(), "too long")
}

func TestGetFullErrorChainsCauses(t *testing.T) {
	root := errors.New("connection reset")
	mid := NewTransientServiceError("enrichment service", root)
	top := NewDatabaseError("save", "draft", mid)

	full := top.GetFullError()

	assert.Contains(t, full, "database error")
	assert.Contains(t, full, "enrichment service is unavailable")
	assert.Contains(t, full, "connection reset")
}

func TestTransientCoversTimeout(t *testing.T) {
	timeout := NewServiceTimeoutError("enrichment service", 0)
	transient := NewTransientServiceError("enrichment service", errors.New("boom"))
	partial := NewPartialServiceError("enrichment service", "image generation")

	assert.True(t, IsTransientServiceError(timeout))
	assert.True(t, IsTransientServiceError(transient))
	assert.False(t, IsTransientServiceError(partial))
	assert.True(t, IsPartialServiceError(partial))
}

func TestOwnershipErrorHidesExistence(t *testing.T) {
	missing := NewOwnershipError("project")
	foreign := NewOwnershipError("project")

	require.Equal(t, missing.Error(), foreign.Error())
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
	assert.True(t, IsOwnershipError(missing))
}
