package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/launchit-app/launchit-backend/database"
	"github.com/launchit-app/launchit-backend/errs"
	"github.com/launchit-app/launchit-backend/models"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
	commentRepo *database.CommentRepo
	likeRepo    *database.LikeRepo
}

func newProjectHandler(projectRepo *database.ProjectRepo, commentRepo *database.CommentRepo, likeRepo *database.LikeRepo) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
	}
}

// ProjectCollection represents a page of launched projects
type ProjectCollection struct {
	Projects []*models.Project `json:"projects"`
	Total    int               `json:"total"`
}

// listProjects retrieves launched projects with optional search and
// category filters
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		search := r.URL.Query().Get("q")
		category := r.URL.Query().Get("category")

		projects, err := h.projectRepo.FindLaunched(search, category, 100)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		h.responder.WriteJSON(w, ProjectCollection{
			Projects: projects,
			Total:    len(projects),
		})
	}
}

// getProject retrieves a launched project by its public slug
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.findBySlug(w, r)
		if project == nil || err != nil {
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

func (h projectHandler) findBySlug(w http.ResponseWriter, r *http.Request) (*models.Project, error) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
		return nil, errs.ErrBadRequest
	}

	project, err := h.projectRepo.FindBySlug(slug)
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
		return nil, err
	}
	if project == nil {
		h.responder.WriteError(w, errs.NewNotFound("project"))
		return nil, errs.ErrNotFound
	}
	return project, nil
}

// listComments returns a project's visible comments
func (h projectHandler) listComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.findBySlug(w, r)
		if project == nil || err != nil {
			return
		}

		comments, err := h.commentRepo.FindByProject(project.ID, ctxIsAdmin(r.Context()))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "comments", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"comments": comments,
			"total":    len(comments),
		})
	}
}

// createComment posts a comment on a launched project
func (h projectHandler) createComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("authentication required"))
			return
		}

		project, err := h.findBySlug(w, r)
		if project == nil || err != nil {
			return
		}

		var payload struct {
			Body string `json:"body"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("comment", err))
			return
		}
		if strings.TrimSpace(payload.Body) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("body"))
			return
		}

		comment := models.Comment{
			ID:        uuid.New(),
			ProjectID: project.ID,
			UserID:    userID,
			Body:      payload.Body,
		}
		if err := h.commentRepo.Add(&comment); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "comment", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, comment)
	}
}

// countLikes returns a project's like count
func (h projectHandler) countLikes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.findBySlug(w, r)
		if project == nil || err != nil {
			return
		}

		count, err := h.likeRepo.CountByProject(project.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count", "likes", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{"likes": count})
	}
}

// like records the caller's like; liking twice is a no-op
func (h projectHandler) like() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("authentication required"))
			return
		}

		project, err := h.findBySlug(w, r)
		if project == nil || err != nil {
			return
		}

		if err := h.likeRepo.Add(&models.Like{ProjectID: project.ID, UserID: userID}); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "like", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}

// unlike removes the caller's like if present
func (h projectHandler) unlike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("authentication required"))
			return
		}

		project, err := h.findBySlug(w, r)
		if project == nil || err != nil {
			return
		}

		if err := h.likeRepo.Remove(project.ID, userID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "like", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}

// deleteProject removes a project; admin moderation only
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
			return
		}

		if err := h.projectRepo.Delete(projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}

// hideComment hides a comment from public listings without deleting it
func (h projectHandler) hideComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, err := uuid.Parse(chi.URLParam(r, "commentID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid commentID"))
			return
		}

		if err := h.commentRepo.Hide(commentID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "comment", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}

// deleteComment removes a comment entirely
func (h projectHandler) deleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, err := uuid.Parse(chi.URLParam(r, "commentID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid commentID"))
			return
		}

		if err := h.commentRepo.Delete(commentID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "comment", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}
