package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type educationHandler struct {
	responder     Responder
	logger        zerolog.Logger
	educationRepo *database.EducationRepo
}

func newEducationHandler(educationRepo *database.EducationRepo) educationHandler {
	logger := log.With().Str("handlerName", "educationHandler").Logger()

	return educationHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		educationRepo: educationRepo,
	}
}

// educationRequest mirrors models.Education with a nullable order so a
// missing order can be told apart from zero.
type educationRequest struct {
	Institution    string          `json:"institution"`
	Degree         string          `json:"degree"`
	Description    string          `json:"description"`
	Graduation     string          `json:"graduation"`
	Order          *models.FlexInt `json:"order"`
	Icon           string          `json:"icon"`
	DegreeColor    string          `json:"degreeColor"`
	InstituteColor string          `json:"instituteColor"`
}

func (req educationRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Institution, validation.Required),
		validation.Field(&req.Degree, validation.Required),
		validation.Field(&req.Order, validation.NotNil),
	)
}

func (req educationRequest) education() models.Education {
	return models.Education{
		Institution:    req.Institution,
		Degree:         req.Degree,
		Description:    req.Description,
		Graduation:     req.Graduation,
		Order:          *req.Order,
		Icon:           req.Icon,
		DegreeColor:    req.DegreeColor,
		InstituteColor: req.InstituteColor,
	}
}

type orderEntry struct {
	ID    string         `json:"id"`
	Order models.FlexInt `json:"order"`
}

// @Summary List education entries sorted by order
// @Tags Education
// @Router /educations [get]
func (h educationHandler) getEducations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := h.educationRepo.SortedList(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "educations", err))
			return
		}
		h.responder.WriteJSON(w, newEducationViews(entries))
	}
}

// @Summary Create education entry
// @Tags Education
// @Router /education [post]
func (h educationHandler) createEducation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req educationRequest
		if err := decodeJSON(w, r, "education", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := req.Validate(); err != nil {
			h.responder.WriteError(w, badRequest(err))
			return
		}

		created, err := h.educationRepo.Add(r.Context(), req.education())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "education", err))
			return
		}
		h.responder.WriteCreated(w, newEducationView(created))
	}
}

// @Summary Update education entry
// @Tags Education
// @Router /education/{educationID} [put]
func (h educationHandler) updateEducation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		educationID := chi.URLParam(r, "educationID")

		var patch models.EducationPatch
		if err := decodeJSON(w, r, "education", &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		err := validation.ValidateStruct(&patch,
			validation.Field(&patch.Institution, validation.NilOrNotEmpty),
			validation.Field(&patch.Degree, validation.NilOrNotEmpty),
		)
		if err != nil {
			h.responder.WriteError(w, badRequest(err))
			return
		}

		if _, err := h.educationRepo.FindByID(r.Context(), educationID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "education", err))
			return
		}
		if err := h.educationRepo.Update(r.Context(), educationID, patch); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "education", err))
			return
		}

		updated, err := h.educationRepo.FindByID(r.Context(), educationID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated", "education", err))
			return
		}
		h.responder.WriteJSON(w, newEducationView(updated))
	}
}

// updateOrder applies a batch of display orders: [{id, order}, ...].
// @Summary Reorder education entries
// @Tags Education
// @Router /educations/order [put]
func (h educationHandler) updateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var entries []orderEntry
		if err := decodeJSON(w, r, "education order", &entries); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		orders := make(map[string]int, len(entries))
		for _, entry := range entries {
			if entry.ID == "" {
				h.responder.WriteError(w, errs.NewMissingRequiredFieldError("id"))
				return
			}
			orders[entry.ID] = int(entry.Order)
		}

		if err := h.educationRepo.UpdateOrder(r.Context(), orders); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("reorder", "educations", err))
			return
		}

		sorted, err := h.educationRepo.SortedList(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "educations", err))
			return
		}
		h.responder.WriteJSON(w, newEducationViews(sorted))
	}
}

// @Summary Delete education entry
// @Tags Education
// @Router /education/{educationID} [delete]
func (h educationHandler) deleteEducation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		educationID := chi.URLParam(r, "educationID")

		if err := h.educationRepo.Delete(r.Context(), educationID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "education", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "education deleted successfully",
		})
	}
}
