package api

import (
	"github.com/launchit-app/launchit-backend/database"
	"github.com/launchit-app/launchit-backend/draft"
)

type routeHandlers struct {
	projectHandler    projectHandler
	submissionHandler submissionHandler
	categoryHandler   categoryHandler
	searchHandler     searchHandler
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, sessions *draft.Manager) *routeHandlers {
	return &routeHandlers{
		projectHandler:    newProjectHandler(database.ProjectRepo(), database.CommentRepo(), database.LikeRepo()),
		submissionHandler: newSubmissionHandler(sessions),
		categoryHandler:   newCategoryHandler(database.CategoryRepo()),
		searchHandler:     newSearchHandler(database.ProjectRepo(), database.CategoryRepo()),
	}
}
