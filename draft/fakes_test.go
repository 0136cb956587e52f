package draft

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/launchit-app/launchit-backend/errs"
	"github.com/launchit-app/launchit-backend/models"
	"github.com/launchit-app/launchit-backend/services"
)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	return apiErr.StatusCode
}

// memProjectStore is an in-memory ProjectStore. Writes copy the row so the
// store never aliases session state.
type memProjectStore struct {
	mu          sync.Mutex
	rows        map[uuid.UUID]models.Project
	links       map[uuid.UUID][]models.ProjectLink
	addCalls    int
	updateCalls int
	failWrites  bool
}

func newMemProjectStore() *memProjectStore {
	return &memProjectStore{
		rows:  make(map[uuid.UUID]models.Project),
		links: make(map[uuid.UUID][]models.ProjectLink),
	}
}

func (s *memProjectStore) Add(project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addCalls++
	if s.failWrites {
		return errors.New("store unavailable")
	}
	s.rows[project.ID] = *project
	return nil
}

func (s *memProjectStore) Update(project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	if s.failWrites {
		return errors.New("store unavailable")
	}
	s.rows[project.ID] = *project
	return nil
}

func (s *memProjectStore) FindByIDAndOwner(id uuid.UUID, userID string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok || row.UserID != userID {
		return nil, nil
	}
	row.Links = append([]models.ProjectLink(nil), s.links[id]...)
	return &row, nil
}

func (s *memProjectStore) FindDraftsByOwner(userID string) ([]*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var drafts []*models.Project
	for _, row := range s.rows {
		if row.UserID == userID && row.Status == models.StatusDraft {
			copied := row
			drafts = append(drafts, &copied)
		}
	}
	return drafts, nil
}

func (s *memProjectStore) ReplaceLinks(projectID uuid.UUID, links []models.ProjectLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites {
		return errors.New("store unavailable")
	}
	s.links[projectID] = append([]models.ProjectLink(nil), links...)
	return nil
}

func (s *memProjectStore) rowCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func (s *memProjectStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addCalls + s.updateCalls
}

func (s *memProjectStore) setFailWrites(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = fail
}

func (s *memProjectStore) linksFor(id uuid.UUID) []models.ProjectLink {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ProjectLink(nil), s.links[id]...)
}

func (s *memProjectStore) onlyRow() models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		return row
	}
	return models.Project{}
}

type memCategoryStore struct {
	mu   sync.Mutex
	cats []*models.Category
}

func newMemCategoryStore(cats ...*models.Category) *memCategoryStore {
	return &memCategoryStore{cats: cats}
}

func (s *memCategoryStore) FindAll() ([]*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Category(nil), s.cats...), nil
}

func (s *memCategoryStore) FindByValue(value string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cat := range s.cats {
		if cat.Value == value {
			return cat, nil
		}
	}
	return nil, nil
}

func (s *memCategoryStore) Add(category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cats = append(s.cats, category)
	return nil
}

type fakeUploader struct {
	mu      sync.Mutex
	uploads map[string][]byte
	failAll bool
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{uploads: make(map[string][]byte)}
}

func (u *fakeUploader) Upload(_ context.Context, path string, data []byte, _ string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.failAll {
		return "", errs.NewUploadError(path, errors.New("bucket unreachable"))
	}
	u.uploads[path] = data
	return "https://cdn.test/" + path, nil
}

func (u *fakeUploader) uploadCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.uploads)
}

// fakeEnricher replays a scripted sequence of outcomes; the last step
// repeats once the script runs out.
type fakeEnricher struct {
	mu    sync.Mutex
	steps []enrichStep
	calls int
}

type enrichStep struct {
	result *services.EnrichResult
	err    error
}

func (e *fakeEnricher) Generate(_ context.Context, _, _ string) (*services.EnrichResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.calls
	if idx >= len(e.steps) {
		idx = len(e.steps) - 1
	}
	e.calls++
	step := e.steps[idx]
	return step.result, step.err
}

func (e *fakeEnricher) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// Polling bounds for waiting on the background generation goroutine.
const (
	waitTimeout = 2 * time.Second
	waitTick    = 2 * time.Millisecond
)

func testConfig() Config {
	return Config{
		DebounceQuiet:      3 * time.Second,
		SmartFillThreshold: 4,
		AIBackoffBase:      2 * time.Second,
		AIBackoffCap:       30 * time.Second,
		AIMaxAttempts:      5,
	}
}

type fixture struct {
	clock    *VirtualClock
	store    *memProjectStore
	cats     *memCategoryStore
	enricher *fakeEnricher
	uploader *fakeUploader
	session  *Session
}

func newFixture() *fixture {
	return newFixtureWithConfig(testConfig())
}

func newFixtureWithConfig(cfg Config) *fixture {
	f := &fixture{
		clock: NewVirtualClock(),
		store: newMemProjectStore(),
		cats: newMemCategoryStore(
			&models.Category{ID: uuid.New(), Value: "developer-tools", Label: "Developer Tools", Group: "software"},
			&models.Category{ID: uuid.New(), Value: "productivity", Label: "Productivity", Group: "software"},
		),
		enricher: &fakeEnricher{},
		uploader: newFakeUploader(),
	}
	f.session = NewSession(cfg, f.clock, f.store, f.cats, f.enricher, f.uploader)
	return f
}
