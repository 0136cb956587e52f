package draft

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchit-app/launchit-backend/errs"
)

func newTestManager(f *fixture) *Manager {
	return NewManager(testConfig(), f.clock, f.store, f.cats, f.enricher, f.uploader)
}

func TestManagerBeginAndGet(t *testing.T) {
	f := newFixture()
	m := newTestManager(f)

	session, err := m.Begin("user-1", nil, nil)
	require.NoError(t, err)

	got, err := m.Get(session.ID, "user-1")
	require.NoError(t, err)
	assert.Same(t, session, got)
}

func TestManagerGetScopesSessionsToOwner(t *testing.T) {
	f := newFixture()
	m := newTestManager(f)
	session, err := m.Begin("user-1", nil, nil)
	require.NoError(t, err)

	_, err = m.Get(session.ID, "user-2")
	require.Error(t, err)
	assert.True(t, errs.IsOwnershipError(err))

	_, err = m.Get(uuid.New(), "user-1")
	require.Error(t, err)
	assert.True(t, errs.IsOwnershipError(err))
}

func TestManagerRelease(t *testing.T) {
	f := newFixture()
	m := newTestManager(f)
	session, err := m.Begin("user-1", nil, nil)
	require.NoError(t, err)

	m.Release(session.ID)

	_, err = m.Get(session.ID, "user-1")
	assert.Error(t, err)
}

func TestManagerEvictsIdleSessions(t *testing.T) {
	f := newFixture()
	cfg := testConfig()
	cfg.SessionIdleTTL = time.Hour
	m := NewManager(cfg, f.clock, f.store, f.cats, f.enricher, f.uploader)

	stale, err := m.Begin("user-1", nil, nil)
	require.NoError(t, err)

	f.clock.Advance(2 * time.Hour)

	// The sweep runs when the next flow opens.
	fresh, err := m.Begin("user-2", nil, nil)
	require.NoError(t, err)

	_, err = m.Get(stale.ID, "user-1")
	require.Error(t, err)
	assert.True(t, errs.IsOwnershipError(err))

	_, err = m.Get(fresh.ID, "user-2")
	assert.NoError(t, err)
}

func TestManagerTouchingASessionDefersEviction(t *testing.T) {
	f := newFixture()
	cfg := testConfig()
	cfg.SessionIdleTTL = time.Hour
	m := NewManager(cfg, f.clock, f.store, f.cats, f.enricher, f.uploader)

	session, err := m.Begin("user-1", nil, nil)
	require.NoError(t, err)

	f.clock.Advance(45 * time.Minute)
	_, err = m.Get(session.ID, "user-1")
	require.NoError(t, err)

	f.clock.Advance(45 * time.Minute)
	_, err = m.Begin("user-2", nil, nil)
	require.NoError(t, err)

	_, err = m.Get(session.ID, "user-1")
	assert.NoError(t, err)
}
