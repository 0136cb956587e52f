package api

import (
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/launchit-app/launchit-backend/database"
	"github.com/launchit-app/launchit-backend/errs"
)

const suggestionLimit = 8

type searchHandler struct {
	responder    Responder
	logger       zerolog.Logger
	projectRepo  *database.ProjectRepo
	categoryRepo *database.CategoryRepo
}

func newSearchHandler(projectRepo *database.ProjectRepo, categoryRepo *database.CategoryRepo) searchHandler {
	logger := log.With().Str("handlerName", "searchHandler").Logger()

	return searchHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		projectRepo:  projectRepo,
		categoryRepo: categoryRepo,
	}
}

// Suggestions aggregates matches from several sources for a search term
type Suggestions struct {
	Projects   []string `json:"projects"`
	Categories []string `json:"categories"`
}

// suggest fans out the term to name, tagline, tag and category queries in
// parallel and merges the results, deduplicated and sorted.
func (h searchHandler) suggest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := strings.TrimSpace(r.URL.Query().Get("q"))
		if term == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("q"))
			return
		}

		var (
			mu       sync.Mutex
			projects = map[string]struct{}{}
		)
		var categories []string

		var g errgroup.Group

		collect := func(fetch func() ([]string, error)) func() error {
			return func() error {
				names, err := fetch()
				if err != nil {
					return err
				}
				mu.Lock()
				for _, name := range names {
					projects[name] = struct{}{}
				}
				mu.Unlock()
				return nil
			}
		}

		g.Go(collect(func() ([]string, error) { return h.projectRepo.SuggestNames(term, suggestionLimit) }))
		g.Go(collect(func() ([]string, error) { return h.projectRepo.SuggestTaglines(term, suggestionLimit) }))
		g.Go(collect(func() ([]string, error) { return h.projectRepo.SuggestTags(term, suggestionLimit) }))
		g.Go(func() error {
			all, err := h.categoryRepo.FindAll()
			if err != nil {
				return err
			}
			lowered := strings.ToLower(term)
			for _, cat := range all {
				if strings.Contains(strings.ToLower(cat.Label), lowered) {
					categories = append(categories, cat.Value)
				}
			}
			return nil
		})

		if err := g.Wait(); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("aggregate", "suggestions", err))
			return
		}

		merged := make([]string, 0, len(projects))
		for name := range projects {
			merged = append(merged, name)
		}
		sort.Strings(merged)
		if len(merged) > suggestionLimit {
			merged = merged[:suggestionLimit]
		}
		sort.Strings(categories)

		h.responder.WriteJSON(w, Suggestions{Projects: merged, Categories: categories})
	}
}
