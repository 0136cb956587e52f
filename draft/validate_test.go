package draft

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchit-app/launchit-backend/errs"
	"github.com/launchit-app/launchit-backend/models"
)

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://orbit.test"))
	assert.True(t, IsValidURL("http://orbit.test/path?q=1"))
	assert.True(t, IsValidURL("  https://orbit.test  "))

	assert.False(t, IsValidURL(""))
	assert.False(t, IsValidURL("orbit.test"))
	assert.False(t, IsValidURL("ftp://orbit.test"))
	assert.False(t, IsValidURL("https://"))
	assert.False(t, IsValidURL("not a url"))
}

func validFields() Fields {
	return Fields{
		Name:        "Orbit",
		Tagline:     "Mission control for side projects",
		Description: "Orbit keeps every side project on course.",
		WebsiteURL:  "https://orbit.test",
	}
}

func TestValidateFormAcceptsCompleteForm(t *testing.T) {
	require.NoError(t, ValidateForm(validFields(), true, 2))
}

func TestValidateFormStopsAtFirstViolation(t *testing.T) {
	f := validFields()
	f.Name = ""
	f.Tagline = ""

	err := ValidateForm(f, true, 2)

	require.Error(t, err)
	assert.True(t, errs.IsMissingRequiredFieldError(err))
	assert.Contains(t, err.Error(), "name")
	assert.NotContains(t, err.Error(), "tagline")
}

func TestValidateFormLengthLimits(t *testing.T) {
	f := validFields()
	f.Name = strings.Repeat("x", models.MaxNameLength+1)
	assert.Error(t, ValidateForm(f, true, 2))

	f = validFields()
	f.Name = strings.Repeat("x", models.MaxNameLength)
	assert.NoError(t, ValidateForm(f, true, 2))

	f = validFields()
	f.Tagline = strings.Repeat("x", models.MaxTaglineLength+1)
	assert.Error(t, ValidateForm(f, true, 2))

	f = validFields()
	f.Description = strings.Repeat("word ", models.MaxDescriptionWords+1)
	assert.Error(t, ValidateForm(f, true, 2))

	f = validFields()
	f.Description = strings.TrimSpace(strings.Repeat("word ", models.MaxDescriptionWords))
	assert.NoError(t, ValidateForm(f, true, 2))
}

func TestValidateFormNameLimitCountsRunes(t *testing.T) {
	f := validFields()
	f.Name = strings.Repeat("ü", models.MaxNameLength)

	assert.NoError(t, ValidateForm(f, true, 2))
}

func TestValidateFormRequiresCategoryAndCovers(t *testing.T) {
	err := ValidateForm(validFields(), false, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category")

	err = ValidateForm(validFields(), true, models.MinCoverImages-1)
	require.Error(t, err)
	assert.True(t, errs.IsInvalidFieldError(err))
}

func TestValidateFormRejectsMalformedWebsite(t *testing.T) {
	f := validFields()
	f.WebsiteURL = "orbit.test"

	err := ValidateForm(f, true, 2)

	require.Error(t, err)
	assert.True(t, errs.IsInvalidFieldError(err))
}

func TestFieldsEmptyAndFilledCount(t *testing.T) {
	var f Fields
	assert.True(t, f.Empty(false))
	assert.False(t, f.Empty(true))
	assert.Equal(t, 0, f.FilledCount(false))

	f.Name = "Orbit"
	assert.False(t, f.Empty(false))
	assert.Equal(t, 1, f.FilledCount(false))

	f.WebsiteURL = "https://orbit.test"
	f.Tags = []string{"golang"}
	assert.Equal(t, 3, f.FilledCount(false))
	assert.Equal(t, 4, f.FilledCount(true))

	// Whitespace-only text does not count as content.
	f.Tagline = "   "
	assert.Equal(t, 4, f.FilledCount(true))
}
