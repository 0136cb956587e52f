package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public browse surface, the authenticated submission
// flow, and the admin moderation endpoints.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Public browse endpoints
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/projects", handlers.projectHandler.listProjects())
		r.Get("/project/{slug}", handlers.projectHandler.getProject())
		r.Get("/project/{slug}/comments", handlers.projectHandler.listComments())
		r.Get("/project/{slug}/likes", handlers.projectHandler.countLikes())
		r.Get("/categories", handlers.categoryHandler.listCategories())
		r.Get("/search/suggest", handlers.searchHandler.suggest())
	})

	// Authenticated endpoints
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Post("/project/{slug}/comments", handlers.projectHandler.createComment())
		r.Put("/project/{slug}/like", handlers.projectHandler.like())
		r.Delete("/project/{slug}/like", handlers.projectHandler.unlike())

		// Submission session commands
		r.Post("/submission/begin", handlers.submissionHandler.begin())
		r.Get("/submission/{sessionID}", handlers.submissionHandler.snapshot())
		r.Post("/submission/{sessionID}/field", handlers.submissionHandler.mutateField())
		r.Post("/submission/{sessionID}/category", handlers.submissionHandler.setCategory())
		r.Post("/submission/{sessionID}/tags", handlers.submissionHandler.setTags())
		r.Post("/submission/{sessionID}/links", handlers.submissionHandler.addLink())
		r.Put("/submission/{sessionID}/links/{index}", handlers.submissionHandler.updateLink())
		r.Delete("/submission/{sessionID}/links/{index}", handlers.submissionHandler.removeLink())
		r.Post("/submission/{sessionID}/image", handlers.submissionHandler.attachImage())
		r.Post("/submission/{sessionID}/step", handlers.submissionHandler.changeStep())
		r.Post("/submission/{sessionID}/continue/{projectID}", handlers.submissionHandler.continueDraft())
		r.Post("/submission/{sessionID}/new", handlers.submissionHandler.startNew())
		r.Post("/submission/{sessionID}/save-draft", handlers.submissionHandler.saveDraft())
		r.Post("/submission/{sessionID}/retry-save", handlers.submissionHandler.retrySave())
		r.Post("/submission/{sessionID}/ai-fill", handlers.submissionHandler.triggerAIFill())
		r.Post("/submission/{sessionID}/smart-fill", handlers.submissionHandler.acceptSmartFill())
		r.Post("/submission/{sessionID}/publish", handlers.submissionHandler.publish())
	})

	// Admin moderation endpoints
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(authMiddleware.adminOnly)
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Delete("/admin/project/{projectID}", handlers.projectHandler.deleteProject())
		// Moderators see hidden comments; the handler keys on the admin
		// mark this group's middleware sets.
		r.Get("/admin/project/{slug}/comments", handlers.projectHandler.listComments())
		r.Post("/admin/comment/{commentID}/hide", handlers.projectHandler.hideComment())
		r.Delete("/admin/comment/{commentID}", handlers.projectHandler.deleteComment())
	})
}
