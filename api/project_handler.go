package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
	now         func() time.Time
}

func newProjectHandler(projectRepo *database.ProjectRepo) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		now:         time.Now,
	}
}

// ProjectCollection is the list response for projects.
type ProjectCollection struct {
	Projects []projectView `json:"projects"`
	Total    int           `json:"total"`
}

type videoRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

var projectStatuses = []any{models.StatusCompleted, models.StatusInactive, models.StatusOngoing}

func validateProjectFields(f models.ProjectFields) error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.URL, is.URL),
		validation.Field(&f.Status, validation.In(projectStatuses...)),
	)
}

func validateProjectPatch(p models.ProjectPatch) error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&p.URL, is.URL),
		validation.Field(&p.Status, validation.In(projectStatuses...)),
	)
}

func badRequest(err error) error {
	return errs.NewBadRequestErrorWithField("validation error", "payload", err.Error())
}

// getAllProjects lists every project.
// @Summary Get all projects
// @Tags Projects
// @Produce json
// @Success 200 {object} ProjectCollection
// @Failure 500 {object} ErrorResponse
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		views := newProjectViews(projects)
		h.responder.WriteJSON(w, ProjectCollection{Projects: views, Total: len(views)})
	}
}

// getProject retrieves a specific project by ID.
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} projectView
// @Failure 404 {object} ErrorResponse
// @Router /project/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")

		project, err := h.projectRepo.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		h.responder.WriteJSON(w, newProjectView(project))
	}
}

// createProject creates a new project
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body models.ProjectFields true "Project data"
// @Success 201 {object} projectView
// @Failure 400 {object} ErrorResponse
// @Router /project [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields models.ProjectFields
		if err := decodeJSON(w, r, "project", &fields); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validateProjectFields(fields); err != nil {
			h.responder.WriteError(w, badRequest(err))
			return
		}

		project, err := h.projectRepo.Add(r.Context(), fields)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}

		h.logger.Info().Str("projectId", project.ID).Msg("project created")
		h.responder.WriteCreated(w, newProjectView(project))
	}
}

// updateProject merges the given fields into a project.
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param project body models.ProjectPatch true "Fields to change"
// @Success 200 {object} projectView
// @Failure 400 {object} ErrorResponse
// @Router /project/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")

		var patch models.ProjectPatch
		if err := decodeJSON(w, r, "project", &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validateProjectPatch(patch); err != nil {
			h.responder.WriteError(w, badRequest(err))
			return
		}

		if err := h.projectRepo.Update(r.Context(), projectID, patch); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}

		updated, err := h.projectRepo.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated", "project", err))
			return
		}

		h.responder.WriteJSON(w, newProjectView(updated))
	}
}

// deleteProject deletes a project by ID. Its remote assets are left in place.
// @Summary Delete project
// @Tags Projects
// @Param projectID path string true "Project ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /project/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")

		// Verify project exists
		if _, err := h.projectRepo.FindByID(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		if err := h.projectRepo.Delete(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}

// addVideo links an external video to a project. The stored URL keeps only
// its origin and path.
// @Summary Add project video
// @Tags Videos
// @Router /project/{projectID}/videos [post]
func (h projectHandler) addVideo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")

		var req videoRequest
		if err := decodeJSON(w, r, "video", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		err := validation.ValidateStruct(&req,
			validation.Field(&req.Title, validation.Required),
			validation.Field(&req.URL, validation.Required),
		)
		if err != nil {
			h.responder.WriteError(w, badRequest(err))
			return
		}

		sanitized, err := models.SanitizeVideoURL(req.URL)
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestErrorWithField("invalid video url", "url", err.Error()))
			return
		}

		if _, err := h.projectRepo.FindByID(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		video := models.Video{
			ID:    strconv.FormatInt(h.now().UnixMilli(), 10),
			Title: req.Title,
			URL:   sanitized,
		}
		if err := h.projectRepo.AttachVideo(r.Context(), projectID, video); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("attach", "video", err))
			return
		}

		h.responder.WriteCreated(w, newVideoView(video))
	}
}

// updateVideo replaces a video's URL.
// @Summary Update project video
// @Tags Videos
// @Router /project/{projectID}/videos/{videoID} [put]
func (h projectHandler) updateVideo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")
		videoID := chi.URLParam(r, "videoID")

		var req videoRequest
		if err := decodeJSON(w, r, "video", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.URL == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("url"))
			return
		}

		sanitized, err := models.SanitizeVideoURL(req.URL)
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestErrorWithField("invalid video url", "url", err.Error()))
			return
		}

		if err := h.projectRepo.UpdateVideoURL(r.Context(), projectID, videoID, sanitized); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "video", err))
			return
		}

		videos, err := h.projectRepo.FindVideos(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "videos", err))
			return
		}
		h.responder.WriteJSON(w, newVideoViews(videos))
	}
}

// deleteVideo unlinks a video from a project.
// @Summary Delete project video
// @Tags Videos
// @Router /project/{projectID}/videos/{videoID} [delete]
func (h projectHandler) deleteVideo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")
		videoID := chi.URLParam(r, "videoID")

		if err := h.projectRepo.DetachVideo(r.Context(), projectID, videoID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "video", err))
			return
		}
		h.responder.WriteJSON(w, okResponse{OK: true})
	}
}
