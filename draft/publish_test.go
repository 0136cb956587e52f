package draft

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchit-app/launchit-backend/errs"
	"github.com/launchit-app/launchit-backend/imaging"
	"github.com/launchit-app/launchit-backend/models"
)

func fillValidForm(t *testing.T, f *fixture) {
	t.Helper()
	require.NoError(t, f.session.MutateField("name", "Orbit"))
	require.NoError(t, f.session.MutateField("website_url", "https://orbit.test"))
	require.NoError(t, f.session.MutateField("tagline", "Mission control for side projects"))
	require.NoError(t, f.session.MutateField("description", "Orbit keeps every side project on course."))
	require.NoError(t, f.session.SetCategory("developer-tools"))
	f.session.AddCover(imaging.LocalImage([]byte("cover-one"), "one.png", "image/png"))
	f.session.AddCover(imaging.LocalImage([]byte("cover-two"), "two.png", "image/png"))
}

func TestPublishRejectsIncompleteForm(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.session.Begin("user-1", nil, nil))
	require.NoError(t, f.session.MutateField("name", "Orbit"))

	err := f.session.Publish(context.Background())

	require.Error(t, err)
	assert.True(t, errs.IsMissingRequiredFieldError(err))
	assert.Equal(t, 0, f.store.rowCount())
	snap := f.session.Snapshot()
	assert.Equal(t, "editing", snap.State)
	assert.NotEmpty(t, snap.Notice)
}

func TestPublishSurfacesFirstViolationOnly(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.session.Begin("user-1", nil, nil))
	require.NoError(t, f.session.MutateField("name", strings.Repeat("x", models.MaxNameLength+1)))

	err := f.session.Publish(context.Background())

	require.Error(t, err)
	assert.True(t, errs.IsInvalidFieldError(err))
	assert.Contains(t, err.Error(), "name")
}

func TestPublishWritesLaunchedRowWithSlug(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.session.Begin("user-1", nil, nil))
	fillValidForm(t, f)

	require.NoError(t, f.session.Publish(context.Background()))

	require.Equal(t, 1, f.store.rowCount())
	row := f.store.onlyRow()
	assert.Equal(t, models.StatusLaunched, row.Status)
	assert.True(t, strings.HasPrefix(row.Slug, "orbit-"))
	assert.Len(t, row.Slug, len("orbit-")+6)
	require.Len(t, row.CoverURLs, 2)
	assert.True(t, strings.HasPrefix(row.CoverURLs[0], "https://cdn.test/projects/"))
	assert.Equal(t, 2, f.uploader.uploadCount())

	snap := f.session.Snapshot()
	assert.Equal(t, "published", snap.State)
	assert.Equal(t, row.Slug, snap.Slug)
	assert.False(t, snap.HasUnsaved)
}

func TestPublishReusesAutosavedRow(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.session.Begin("user-1", nil, nil))
	fillValidForm(t, f)
	require.NoError(t, f.session.SaveDraft(context.Background()))
	draftID := f.store.onlyRow().ID

	require.NoError(t, f.session.Publish(context.Background()))

	require.Equal(t, 1, f.store.rowCount())
	row := f.store.onlyRow()
	assert.Equal(t, draftID, row.ID)
	assert.Equal(t, models.StatusLaunched, row.Status)
}

func TestPublishAbortsWhenLocalImageUploadFails(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.session.Begin("user-1", nil, nil))
	fillValidForm(t, f)
	f.uploader.failAll = true

	err := f.session.Publish(context.Background())

	require.Error(t, err)
	assert.True(t, errs.IsUploadError(err))
	assert.Equal(t, 0, f.store.rowCount())
	snap := f.session.Snapshot()
	assert.Equal(t, "editing", snap.State)
	assert.Contains(t, snap.Notice, "image could not be uploaded")
	assert.Contains(t, snap.Notice, "Nothing was changed")
	assert.Equal(t, "Orbit", snap.Fields.Name)
}

func TestPublishDegradesRemoteImageFailureToOriginalURL(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.session.Begin("user-1", nil, nil))
	require.NoError(t, f.session.MutateField("name", "Orbit"))
	require.NoError(t, f.session.MutateField("website_url", "https://orbit.test"))
	require.NoError(t, f.session.MutateField("tagline", "Mission control for side projects"))
	require.NoError(t, f.session.MutateField("description", "Orbit keeps every side project on course."))
	require.NoError(t, f.session.SetCategory("developer-tools"))
	f.session.AddCover(imaging.RemoteImage("https://elsewhere.test/one.png"))
	f.session.AddCover(imaging.RemoteImage("https://elsewhere.test/two.png"))
	f.session.fetchImage = func(context.Context, string) ([]byte, string, error) {
		return nil, "", errors.New("host unreachable")
	}

	require.NoError(t, f.session.Publish(context.Background()))

	row := f.store.onlyRow()
	assert.Equal(t, models.StatusLaunched, row.Status)
	assert.Equal(t, []string{"https://elsewhere.test/one.png", "https://elsewhere.test/two.png"},
		[]string(row.CoverURLs))
	assert.Equal(t, 0, f.uploader.uploadCount())
}

func TestPublishKeepsSlugOfAlreadyLaunchedProject(t *testing.T) {
	f := newFixture()
	cats, err := f.cats.FindAll()
	require.NoError(t, err)
	catID := cats[0].ID
	launched := models.Project{
		ID:          uuid.New(),
		UserID:      "user-1",
		Status:      models.StatusLaunched,
		Slug:        "orbit-abc123",
		Name:        "Orbit",
		Tagline:     "Mission control for side projects",
		Description: "Orbit keeps every side project on course.",
		WebsiteURL:  "https://orbit.test",
		CategoryID:  &catID,
		CoverURLs:   []string{"https://cdn.test/one.png", "https://cdn.test/two.png"},
	}
	require.NoError(t, f.store.Add(&launched))
	require.NoError(t, f.session.Begin("user-1", &launched.ID, nil))
	require.NoError(t, f.session.MutateField("tagline", "Sharper tagline"))
	f.session.fetchImage = func(context.Context, string) ([]byte, string, error) {
		return nil, "", errors.New("host unreachable")
	}

	require.NoError(t, f.session.Publish(context.Background()))

	row := f.store.onlyRow()
	assert.Equal(t, "orbit-abc123", row.Slug)
	assert.Equal(t, "Sharper tagline", row.Tagline)
	assert.Equal(t, launched.ID, row.ID)
}

func TestPublishTwiceConflicts(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.session.Begin("user-1", nil, nil))
	fillValidForm(t, f)
	require.NoError(t, f.session.Publish(context.Background()))

	err := f.session.Publish(context.Background())

	require.Error(t, err)
	assert.Equal(t, 1, f.store.rowCount())
}

func TestNewSlugDerivesFromNameWithRandomSuffix(t *testing.T) {
	first := NewSlug("Orbit Mission Control")
	second := NewSlug("Orbit Mission Control")

	assert.True(t, strings.HasPrefix(first, "orbit-mission-control-"))
	assert.Len(t, first, len("orbit-mission-control-")+6)
	assert.NotEqual(t, first, second)
}
