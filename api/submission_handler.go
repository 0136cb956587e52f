package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/launchit-app/launchit-backend/draft"
	"github.com/launchit-app/launchit-backend/errs"
	"github.com/launchit-app/launchit-backend/imaging"
)

type submissionHandler struct {
	responder Responder
	logger    zerolog.Logger
	sessions  *draft.Manager
}

func newSubmissionHandler(sessions *draft.Manager) submissionHandler {
	logger := log.With().Str("handlerName", "submissionHandler").Logger()

	return submissionHandler{
		responder: NewResponder(logger),
		logger:    logger,
		sessions:  sessions,
	}
}

// begin opens a submission session and resolves its entry point: an
// explicit target project id loads directly; otherwise existing meaningful
// drafts are offered, or the session opens on a blank form. An optional
// local draft snapshot seeds a blank form only.
func (h submissionHandler) begin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("authentication required"))
			return
		}

		var payload struct {
			ProjectID  *uuid.UUID        `json:"project_id,omitempty"`
			LocalDraft *draft.LocalDraft `json:"local_draft,omitempty"`
		}
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				h.responder.WriteError(w, errs.NewMalformedPayloadError("submission", err))
				return
			}
		}

		session, err := h.sessions.Begin(userID, payload.ProjectID, payload.LocalDraft)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"session_id": session.ID,
			"snapshot":   session.Snapshot(),
		})
	}
}

// session resolves the session in the URL, scoped to the caller.
func (h submissionHandler) session(w http.ResponseWriter, r *http.Request) *draft.Session {
	userID, err := ctxGetUserID(r.Context())
	if err != nil {
		h.responder.WriteError(w, errs.NewUnauthorizedError("authentication required"))
		return nil
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.responder.WriteError(w, errs.NewBadRequestError("invalid sessionID"))
		return nil
	}

	session, err := h.sessions.Get(sessionID, userID)
	if err != nil {
		h.responder.WriteError(w, err)
		return nil
	}
	return session
}

// snapshot returns the session state the presentation layer renders from
func (h submissionHandler) snapshot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := h.session(w, r)
		if session == nil {
			return
		}
		h.responder.WriteJSON(w, session.Snapshot())
	}
}

// mutateField applies one field edit and arms the autosave debounce
func (h submissionHandler) mutateField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := h.session(w, r)
		if session == nil {
			return
		}

		var payload struct {
			Field string `json:"field"`
			Value string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("field mutation", err))
			return
		}

		if err := session.MutateField(payload.Field, payload.Value); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, session.Snapshot())
	}
}

func (h submissionHandler) setCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := h.session(w, r)
		if session == nil {
			return
		}

		var payload struct {
			Value string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("category", err))
			return
		}

		if err := session.SetCategory(payload.Value); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, session.Snapshot())
	}
}

func (h submissionHandler) setTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := h.session(w, r)
		if session == nil {
			return
		}

		var payload struct {
			Tags      []string `json:"tags"`
			BuiltWith []string `json:"built_with"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("tags", err))
			return
		}

		if payload.Tags != nil {
			session.SetTags(payload.Tags)
		}
		if payload.BuiltWith != nil {
			session.SetBuiltWith(payload.BuiltWith)
		}
		h.responder.WriteJSON(w, session.Snapshot())
	}
}

func (h submissionHandler) addLink() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := h.session(w, r)
		if session == nil {
			return
		}

		var payload struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("link", err))
			return
		}

		if err := session.AddLink(payload.URL); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, session.Snapshot())
	}
}

func (h submissionHandler) updateLink() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := h.session(w, r)
		if session == nil {
			return
		}

		idx, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid link index"))
			return
		}

		var payload struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("link", err))
			return
		}

		if err := session.UpdateLink(idx, payload.URL); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, session.Snapshot())
	}
}

func (h submissionHandler) removeLink() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := h.session(w, r)
		if session == nil {
			return
		}

		idx, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid link index"))
			return
		}

		if err := session.RemoveLink(idx); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, session.Snapshot())
	}
}

const maxImageUploadBytes = 20 << 20

// attachImage accepts a multipart upload and stages it on the draft. The
// bytes stay in session memory until publish normalizes and uploads them.
func (h submissionHandler) attachImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := h.session(w, r)
		if session == nil {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
		if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("image upload", err))
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("image"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("could not read uploaded image"))
			return
		}

		ref := imaging.LocalImage(data, header.Filename, header.Header.Get("Content-Type"))
		switch kind := r.FormValue("kind"); kind {
		case "logo":
			session.SetLogo(ref)
		case "thumbnail":
			session.SetThumbnail(ref)
		case "cover":
			session.AddCover(ref)
		default:
			h.responder.WriteError(w, errs.NewInvalidFieldError("kind", "must be logo, thumbnail or cover"))
			return
		}
		h.responder.WriteJSON(w, session.Snapshot())
	}
}

func (h submissionHandler) changeStep() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := h.session(w, r)
		if session == nil {
			return
		}

		var payload struct {
			Step int `json:"step"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("step", err))
			return
		}

		session.SetStep(payload.Step)
		h.responder.WriteJSON(w, session.Snapshot())
	}
}

// continueDraft resumes a draft chosen on the selection screen
func (h submissionHandler) continueDraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := h.session(w, r)
		if session == nil {
			return
		}

		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
			return
		}

		if err := session.ContinueDraft(projectID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, session.Snapshot())
	}
}

// startNew discards the local ephemeral draft and opens a blank form
func (h submissionHandler) startNew() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := h.session(w, r)
		if session == nil {
			return
		}

		session.StartNew()
		h.responder.WriteJSON(w, session.Snapshot())
	}
}

// saveDraft is the manual "Save as Draft" action. A completed save exits
// the flow with a navigate-home directive and releases the session; a
// failed write still exits, with a toast, keeping the session around for
// the idle sweep. Precondition failures stay in the flow.
func (h submissionHandler) saveDraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := h.session(w, r)
		if session == nil {
			return
		}

		response := map[string]any{"navigate": "home"}
		if err := session.SaveDraft(r.Context()); err != nil {
			if !errs.IsDatabaseError(err) {
				h.responder.WriteError(w, err)
				return
			}
			h.logger.Warn().Err(err).Msg("manual draft save failed")
			response["status"] = "error"
			response["toast"] = "Saving failed. Your changes are not stored yet."
		} else {
			response["status"] = "success"
			h.sessions.Release(session.ID)
		}
		h.responder.WriteJSON(w, response)
	}
}

// retrySave re-runs the draft write after a surfaced autosave failure
func (h submissionHandler) retrySave() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := h.session(w, r)
		if session == nil {
			return
		}

		if err := session.RetrySave(r.Context()); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, session.Snapshot())
	}
}

// triggerAIFill starts AI-assisted field population; progress is polled
// through the snapshot
func (h submissionHandler) triggerAIFill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := h.session(w, r)
		if session == nil {
			return
		}

		if err := session.TriggerAIFill(r.Context()); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, session.Snapshot())
	}
}

// acceptSmartFill resolves a pending smart-fill prompt
func (h submissionHandler) acceptSmartFill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := h.session(w, r)
		if session == nil {
			return
		}

		var payload struct {
			Mode string `json:"mode"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("smart fill", err))
			return
		}

		if payload.Mode == "dismiss" {
			session.DismissSmartFill()
			h.responder.WriteJSON(w, session.Snapshot())
			return
		}

		if err := session.AcceptSmartFill(draft.FillMode(payload.Mode)); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, session.Snapshot())
	}
}

// publish runs the publish gate and transitions the project to launched
func (h submissionHandler) publish() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := h.session(w, r)
		if session == nil {
			return
		}

		if err := session.Publish(r.Context()); err != nil {
			var apiErr *errs.ApiErr
			if errors.As(err, &apiErr) && apiErr.Field != "" {
				// Publish-gate rejections point at the offending field.
				h.responder.WriteValidationError(w, apiErr.Field, apiErr.Details)
				return
			}
			h.responder.WriteError(w, err)
			return
		}

		snapshot := session.Snapshot()
		h.sessions.Release(session.ID)
		h.responder.WriteJSON(w, map[string]any{
			"status": "success",
			"slug":   snapshot.Slug,
		})
	}
}
