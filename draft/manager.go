package draft

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/launchit-app/launchit-backend/errs"
	"github.com/launchit-app/launchit-backend/services"
	"github.com/launchit-app/launchit-backend/storage"
)

// Manager owns the live editing sessions. One session per open submission
// flow; sessions are in-memory and die with the process, which matches
// their role; durable state lives in the draft rows.
type Manager struct {
	cfg        Config
	clock      Clock
	projects   ProjectStore
	categories CategoryStore
	enricher   services.Enricher
	uploader   storage.Uploader

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	touched  map[uuid.UUID]time.Time
}

func NewManager(cfg Config, clock Clock, projects ProjectStore, categories CategoryStore,
	enricher services.Enricher, uploader storage.Uploader) *Manager {
	return &Manager{
		cfg:        cfg,
		clock:      clock,
		projects:   projects,
		categories: categories,
		enricher:   enricher,
		uploader:   uploader,
		sessions:   make(map[uuid.UUID]*Session),
		touched:    make(map[uuid.UUID]time.Time),
	}
}

// Begin opens a session for the user and resolves its entry point.
func (m *Manager) Begin(userID string, targetID *uuid.UUID, local *LocalDraft) (*Session, error) {
	session := NewSession(m.cfg, m.clock, m.projects, m.categories, m.enricher, m.uploader)
	if err := session.Begin(userID, targetID, local); err != nil {
		// Ownership misses still leave a usable blank session; anything
		// else does not get registered.
		if !errs.IsOwnershipError(err) {
			return nil, err
		}
	}

	m.mu.Lock()
	m.evictIdleLocked()
	m.sessions[session.ID] = session
	m.touched[session.ID] = m.clock.Now()
	m.mu.Unlock()
	return session, nil
}

// Get returns the session if it exists and belongs to the user.
func (m *Manager) Get(id uuid.UUID, userID string) (*Session, error) {
	m.mu.Lock()
	session, ok := m.sessions[id]
	if ok {
		m.touched[id] = m.clock.Now()
	}
	m.mu.Unlock()

	if !ok || session.UserID != userID {
		return nil, errs.NewOwnershipError("session")
	}
	return session, nil
}

// Release drops a finished session.
func (m *Manager) Release(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	delete(m.touched, id)
}

// evictIdleLocked drops sessions nobody has touched within the idle TTL.
// Abandoned flows would otherwise accumulate for the life of the process.
func (m *Manager) evictIdleLocked() {
	if m.cfg.SessionIdleTTL <= 0 {
		return
	}
	now := m.clock.Now()
	for id, ts := range m.touched {
		if now.Sub(ts) >= m.cfg.SessionIdleTTL {
			delete(m.sessions, id)
			delete(m.touched, id)
		}
	}
}
