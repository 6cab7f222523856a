package api

import (
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type portfolioHandler struct {
	responder   Responder
	logger      zerolog.Logger
	database    database.Database
	startupTime time.Time
}

func newPortfolioHandler(db database.Database, startupTime time.Time) portfolioHandler {
	logger := log.With().Str("handlerName", "portfolioHandler").Logger()

	return portfolioHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		database:    db,
		startupTime: startupTime,
	}
}

// Portfolio is everything the landing page renders.
type Portfolio struct {
	Projects   []projectView   `json:"projects"`
	Skills     []skillView     `json:"skills"`
	Educations []educationView `json:"educations"`
}

// getPortfolio loads the three collections concurrently.
// @Summary Get the whole portfolio
// @Tags Portfolio
// @Success 200 {object} Portfolio
// @Router /portfolio [get]
func (h portfolioHandler) getPortfolio() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var portfolio Portfolio
		g, ctx := errgroup.WithContext(r.Context())

		g.Go(func() error {
			projects, err := h.database.ProjectRepo().FindAll(ctx)
			if err != nil {
				return wrapDatabaseError("find", "projects", err)
			}
			portfolio.Projects = newProjectViews(projects)
			return nil
		})
		g.Go(func() error {
			skills, err := h.database.SkillRepo().FindAll(ctx)
			if err != nil {
				return wrapDatabaseError("find", "skills", err)
			}
			portfolio.Skills = newSkillViews(skills)
			return nil
		})
		g.Go(func() error {
			entries, err := h.database.EducationRepo().SortedList(ctx)
			if err != nil {
				return wrapDatabaseError("find", "educations", err)
			}
			portfolio.Educations = newEducationViews(entries)
			return nil
		})

		if err := g.Wait(); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, portfolio)
	}
}

// healthz reports liveness and uptime.
func (h portfolioHandler) healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]any{
			"status":    "ok",
			"startedAt": h.startupTime.UTC().Format(time.RFC3339),
			"uptime":    time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}
