package draft

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/launchit-app/launchit-backend/config"
	"github.com/launchit-app/launchit-backend/errs"
	"github.com/launchit-app/launchit-backend/imaging"
	"github.com/launchit-app/launchit-backend/models"
	"github.com/launchit-app/launchit-backend/services"
	"github.com/launchit-app/launchit-backend/storage"
)

// State is the session's position in the submission lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateResolvingEntry
	StateDraftSelection
	StateLoadingExisting
	StateEditing
	StateSavingDraft
	StatePublishing
	StatePublished
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateResolvingEntry:
		return "resolving_entry_point"
	case StateDraftSelection:
		return "draft_selection"
	case StateLoadingExisting:
		return "loading_existing"
	case StateEditing:
		return "editing"
	case StateSavingDraft:
		return "saving_draft"
	case StatePublishing:
		return "publishing"
	case StatePublished:
		return "published"
	default:
		return "unknown"
	}
}

// AIState is the parallel AI-assist sub-state.
type AIState int

const (
	AIIdle AIState = iota
	AIGenerating
	AIApplied
	AISmartFillPending
)

func (s AIState) String() string {
	switch s {
	case AIIdle:
		return "idle"
	case AIGenerating:
		return "generating"
	case AIApplied:
		return "applied"
	case AISmartFillPending:
		return "smart_fill_pending"
	default:
		return "unknown"
	}
}

// Config holds the session's tunable knobs.
type Config struct {
	// DebounceQuiet is the trailing-edge autosave window: autosave fires
	// once mutations have settled for this long.
	DebounceQuiet time.Duration
	// SmartFillThreshold is how many filled primary fields it takes before
	// an AI result requires explicit user confirmation instead of applying
	// unconditionally.
	SmartFillThreshold int
	// AIBackoffBase and AIBackoffCap bound the exponential retry schedule
	// for transient enrichment failures.
	AIBackoffBase time.Duration
	AIBackoffCap  time.Duration
	// AIMaxAttempts bounds the total number of enrichment calls per
	// trigger.
	AIMaxAttempts int
	// SessionIdleTTL is how long an untouched session survives before the
	// manager evicts it. Zero disables eviction.
	SessionIdleTTL time.Duration
}

// ConfigFromEnv reads the knobs from the environment with the reference
// defaults.
func ConfigFromEnv(c map[string]string) Config {
	return Config{
		DebounceQuiet:      config.GetSeconds(c, "AUTOSAVE_DEBOUNCE_SECONDS", 3*time.Second),
		SmartFillThreshold: config.GetInt(c, "SMART_FILL_THRESHOLD", 4),
		AIBackoffBase:      config.GetSeconds(c, "AI_BACKOFF_BASE_SECONDS", 2*time.Second),
		AIBackoffCap:       config.GetSeconds(c, "AI_BACKOFF_CAP_SECONDS", 30*time.Second),
		AIMaxAttempts:      config.GetInt(c, "AI_MAX_ATTEMPTS", 5),
		SessionIdleTTL:     config.GetSeconds(c, "SESSION_IDLE_TTL_SECONDS", 2*time.Hour),
	}
}

// DraftSummary is one resumable draft offered on the selection screen.
type DraftSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Tagline   string    `json:"tagline"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session is the aggregate governing one editing session for one project
// row. All mutable state lives here; the HTTP layer reads it through
// Snapshot and drives it through commands.
type Session struct {
	ID     uuid.UUID
	UserID string

	cfg        Config
	clock      Clock
	projects   ProjectStore
	categories CategoryStore
	enricher   services.Enricher
	uploader   storage.Uploader
	fetchImage func(ctx context.Context, url string) ([]byte, string, error)
	logger     zerolog.Logger

	mu sync.Mutex
	// saveMu serializes draft writes: the debounced autosave and the manual
	// "Save as Draft" action share one write path and must never overlap.
	saveMu sync.Mutex

	state   State
	aiState AIState

	fields           Fields
	selectedCategory *models.Category
	taxonomy         []*models.Category
	candidates       []*models.Project

	// targetID is the autosave target: the one row this session writes.
	// Bound at first draft insert or at load-for-edit, never re-bound.
	targetID        *uuid.UUID
	slug            string
	createdAt       time.Time
	alreadyLaunched bool

	dirty       bool
	saving      bool
	mutationSeq uint64
	debounce    Timer
	lastSavedAt time.Time
	saveErr     string

	aiRetryCount int
	aiPayload    *services.EnrichResult
	preview      *services.Preview

	localDraft *LocalDraft
	notice     string
	step       int
}

// NewSession wires a session's collaborators. The persistence gateway,
// enricher and uploader are injected so the core is testable without a live
// backend.
func NewSession(cfg Config, clock Clock, projects ProjectStore, categories CategoryStore,
	enricher services.Enricher, uploader storage.Uploader) *Session {
	s := &Session{
		ID:         uuid.New(),
		cfg:        cfg,
		clock:      clock,
		projects:   projects,
		categories: categories,
		enricher:   enricher,
		uploader:   uploader,
		state:      StateUninitialized,
		aiState:    AIIdle,
	}
	s.fetchImage = defaultFetchImage
	s.logger = log.With().Str("handlerName", "draftSession").Str("sessionID", s.ID.String()).Logger()
	return s
}

// Begin resolves the entry point for an authenticated user. An explicit
// target id goes straight to load-for-edit; otherwise meaningful drafts are
// offered for resumption, or the session lands on a blank form. local, if
// present, seeds a blank form only; a loaded server draft supersedes it.
func (s *Session) Begin(userID string, targetID *uuid.UUID, local *LocalDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if userID == "" {
		return errs.NewUnauthorizedError("authentication required")
	}
	s.UserID = userID
	s.state = StateResolvingEntry
	s.localDraft = local

	if cats, err := s.categories.FindAll(); err == nil {
		s.taxonomy = cats
	} else {
		s.logger.Error().Err(err).Msg("loading category taxonomy failed")
	}

	if targetID != nil {
		return s.loadExistingLocked(*targetID)
	}

	drafts, err := s.projects.FindDraftsByOwner(userID)
	if err != nil {
		return errs.NewDatabaseError("list drafts for", "user", err)
	}

	var meaningful []*models.Project
	for _, d := range drafts {
		if d.Meaningful() {
			meaningful = append(meaningful, d)
		}
	}

	if len(meaningful) > 0 {
		// Selection screen lists the freshest draft first.
		sort.Slice(meaningful, func(i, j int) bool {
			return meaningful[i].UpdatedAt.After(meaningful[j].UpdatedAt)
		})
		s.candidates = meaningful
		s.state = StateDraftSelection
		return nil
	}

	s.enterBlankEditingLocked()
	return nil
}

// ContinueDraft resumes a draft chosen on the selection screen.
func (s *Session) ContinueDraft(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadExistingLocked(id)
}

// StartNew discards the local ephemeral draft and all in-memory fields and
// opens a blank form.
func (s *Session) StartNew() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.localDraft = nil
	s.fields = Fields{}
	s.selectedCategory = nil
	s.targetID = nil
	s.slug = ""
	s.alreadyLaunched = false
	s.dirty = false
	s.candidates = nil
	s.state = StateEditing
}

// loadExistingLocked fetches the row scoped to (id, user). Ownership is the
// query's predicate; a miss surfaces access-denied and returns the session
// to a neutral blank form.
func (s *Session) loadExistingLocked(id uuid.UUID) error {
	s.state = StateLoadingExisting

	project, err := s.projects.FindByIDAndOwner(id, s.UserID)
	if err != nil {
		s.notice = "Could not load the project. Please try again."
		s.enterBlankEditingLocked()
		return errs.NewDatabaseError("load", "project", err)
	}
	if project == nil {
		s.notice = "You don't have access to this project."
		s.enterBlankEditingLocked()
		return errs.NewOwnershipError("project")
	}

	s.fields = Fields{
		Name:        project.Name,
		Tagline:     project.Tagline,
		Description: project.Description,
		WebsiteURL:  project.WebsiteURL,
		BuiltWith:   append([]string(nil), project.BuiltWith...),
		Tags:        append([]string(nil), project.Tags...),
	}
	for _, link := range project.Links {
		s.fields.Links = append(s.fields.Links, link.URL)
	}
	if project.LogoURL != "" {
		s.fields.Logo = imaging.RemoteImage(project.LogoURL)
	}
	if project.ThumbnailURL != "" {
		s.fields.Thumbnail = imaging.RemoteImage(project.ThumbnailURL)
	}
	for _, cover := range project.CoverURLs {
		s.fields.Covers = append(s.fields.Covers, imaging.RemoteImage(cover))
	}

	// A category whose taxonomy entry no longer exists stays unselected;
	// loading never creates taxonomy entries.
	s.selectedCategory = nil
	if project.CategoryID != nil {
		for _, cat := range s.taxonomy {
			if cat.ID == *project.CategoryID {
				s.selectedCategory = cat
				break
			}
		}
	}

	s.slug = project.Slug
	s.createdAt = project.CreatedAt
	s.alreadyLaunched = project.Launched()
	// Bind the write target so future saves update this row instead of
	// forking a second one. For a launched row autosave never fires, but
	// publish-after-edit still needs the binding.
	boundID := project.ID
	s.targetID = &boundID

	// Server draft wins over any local ephemeral snapshot.
	s.localDraft = nil
	s.dirty = false
	s.candidates = nil
	s.state = StateEditing
	return nil
}

func (s *Session) enterBlankEditingLocked() {
	s.fields = Fields{}
	s.selectedCategory = nil
	s.targetID = nil
	s.slug = ""
	s.alreadyLaunched = false
	s.candidates = nil
	s.state = StateEditing

	if local := s.localDraft; local != nil {
		s.fields.Name = local.Name
		s.fields.Tagline = local.Tagline
		s.fields.Description = local.Description
		s.fields.WebsiteURL = local.WebsiteURL
		s.fields.Links = append([]string(nil), local.Links...)
		if local.CategoryValue != "" {
			for _, cat := range s.taxonomy {
				if cat.Value == local.CategoryValue {
					s.selectedCategory = cat
					break
				}
			}
		}
	}
}

// MutateField applies one field mutation and arms the autosave debounce.
func (s *Session) MutateField(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch field {
	case "name":
		s.fields.Name = value
	case "tagline":
		s.fields.Tagline = value
	case "description":
		s.fields.Description = value
	case "website_url":
		s.fields.WebsiteURL = value
	default:
		return errs.NewInvalidFieldError(field, "unknown field")
	}

	s.markDirtyLocked()
	return nil
}

// SetCategory selects a taxonomy entry by value, or clears the selection.
func (s *Session) SetCategory(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value == "" {
		s.selectedCategory = nil
		s.markDirtyLocked()
		return nil
	}
	for _, cat := range s.taxonomy {
		if cat.Value == value {
			s.selectedCategory = cat
			s.markDirtyLocked()
			return nil
		}
	}
	return errs.NewInvalidFieldError("category", "unknown category value")
}

// SetTags replaces the free-form tag list.
func (s *Session) SetTags(tags []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields.Tags = append([]string(nil), tags...)
	s.markDirtyLocked()
}

// SetBuiltWith replaces the technology list.
func (s *Session) SetBuiltWith(techs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields.BuiltWith = append([]string(nil), techs...)
	s.markDirtyLocked()
}

// AddLink appends a link URL.
func (s *Session) AddLink(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !IsValidURL(url) {
		return errs.NewInvalidFieldError("link", "must be an absolute http(s) URL")
	}
	s.fields.Links = append(s.fields.Links, url)
	s.markDirtyLocked()
	return nil
}

// UpdateLink replaces the link at idx.
func (s *Session) UpdateLink(idx int, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx < 0 || idx >= len(s.fields.Links) {
		return errs.NewBadRequestError("link index out of range")
	}
	if !IsValidURL(url) {
		return errs.NewInvalidFieldError("link", "must be an absolute http(s) URL")
	}
	s.fields.Links[idx] = url
	s.markDirtyLocked()
	return nil
}

// RemoveLink deletes the link at idx.
func (s *Session) RemoveLink(idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx < 0 || idx >= len(s.fields.Links) {
		return errs.NewBadRequestError("link index out of range")
	}
	s.fields.Links = append(s.fields.Links[:idx], s.fields.Links[idx+1:]...)
	s.markDirtyLocked()
	return nil
}

// SetLogo, SetThumbnail and AddCover attach images.
func (s *Session) SetLogo(ref imaging.ImageRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields.Logo = ref
	s.markDirtyLocked()
}

func (s *Session) SetThumbnail(ref imaging.ImageRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields.Thumbnail = ref
	s.markDirtyLocked()
}

func (s *Session) AddCover(ref imaging.ImageRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields.Covers = append(s.fields.Covers, ref)
	s.markDirtyLocked()
}

// SetStep records the active wizard tab. Purely presentational state, but
// the session keeps it so a reload restores the user's place.
func (s *Session) SetStep(step int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = step
}

// Snapshot is the read surface the presentation layer subscribes to.
type Snapshot struct {
	State            string                 `json:"state"`
	AIState          string                 `json:"ai_state"`
	AIRetryCount     int                    `json:"ai_retry_count,omitempty"`
	AIPayload        *services.EnrichResult `json:"ai_payload,omitempty"`
	Fields           FieldsView             `json:"fields"`
	Category         string                 `json:"category,omitempty"`
	Drafts           []DraftSummary         `json:"drafts,omitempty"`
	AlreadyLaunched  bool                   `json:"already_launched"`
	HasUnsaved       bool                   `json:"has_unsaved_changes"`
	Saving           bool                   `json:"saving"`
	SaveError        string                 `json:"save_error,omitempty"`
	LastSavedAgo     string                 `json:"last_saved_ago,omitempty"`
	WarnBeforeUnload bool                   `json:"warn_before_unload"`
	Notice           string                 `json:"notice,omitempty"`
	Preview          *services.Preview      `json:"preview,omitempty"`
	Step             int                    `json:"step"`
	Slug             string                 `json:"slug,omitempty"`
}

// FieldsView is the JSON shape of the form fields. Images are reported as
// URLs where known; locally-held bytes show as their filename.
type FieldsView struct {
	Name        string   `json:"name"`
	Tagline     string   `json:"tagline"`
	Description string   `json:"description"`
	WebsiteURL  string   `json:"website_url"`
	Links       []string `json:"links,omitempty"`
	BuiltWith   []string `json:"built_with,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Logo        string   `json:"logo,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Covers      []string `json:"covers,omitempty"`
}

// Snapshot returns the current session state for the UI. The transient
// notice is cleared on read: one message, surfaced once.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:            s.state.String(),
		AIState:          s.aiState.String(),
		AIRetryCount:     s.aiRetryCount,
		Fields:           s.fieldsViewLocked(),
		AlreadyLaunched:  s.alreadyLaunched,
		HasUnsaved:       s.dirty,
		Saving:           s.saving,
		SaveError:        s.saveErr,
		WarnBeforeUnload: s.dirty && !s.fields.Empty(s.selectedCategory != nil),
		Notice:           s.notice,
		Preview:          s.preview,
		Step:             s.step,
		Slug:             s.slug,
	}
	if s.selectedCategory != nil {
		snap.Category = s.selectedCategory.Value
	}
	if s.aiState == AISmartFillPending {
		snap.AIPayload = s.aiPayload
	}
	if !s.lastSavedAt.IsZero() {
		snap.LastSavedAgo = FormatSince(s.lastSavedAt, s.clock.Now())
	}
	for _, d := range s.candidates {
		snap.Drafts = append(snap.Drafts, DraftSummary{
			ID: d.ID, Name: d.Name, Tagline: d.Tagline, UpdatedAt: d.UpdatedAt,
		})
	}
	s.notice = ""
	return snap
}

func (s *Session) fieldsViewLocked() FieldsView {
	view := FieldsView{
		Name:        s.fields.Name,
		Tagline:     s.fields.Tagline,
		Description: s.fields.Description,
		WebsiteURL:  s.fields.WebsiteURL,
		Links:       append([]string(nil), s.fields.Links...),
		BuiltWith:   append([]string(nil), s.fields.BuiltWith...),
		Tags:        append([]string(nil), s.fields.Tags...),
		Logo:        imageLabel(s.fields.Logo),
		Thumbnail:   imageLabel(s.fields.Thumbnail),
	}
	for _, cover := range s.fields.Covers {
		view.Covers = append(view.Covers, imageLabel(cover))
	}
	return view
}

func imageLabel(ref imaging.ImageRef) string {
	switch {
	case ref.IsRemote():
		return ref.URL
	case ref.IsLocal():
		return ref.Filename
	default:
		return ""
	}
}

// FormatSince renders elapsed time since a save the way the autosave
// indicator shows it.
func FormatSince(saved, now time.Time) string {
	elapsed := now.Sub(saved)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return plural(int(elapsed.Minutes()), "m")
	case elapsed < 24*time.Hour:
		return plural(int(elapsed.Hours()), "h")
	default:
		return plural(int(elapsed.Hours()/24), "d")
	}
}

func plural(n int, unit string) string {
	return strconv.Itoa(n) + unit + " ago"
}
