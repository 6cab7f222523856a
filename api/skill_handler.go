package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type skillHandler struct {
	responder Responder
	logger    zerolog.Logger
	skillRepo *database.SkillRepo
}

func newSkillHandler(skillRepo *database.SkillRepo) skillHandler {
	logger := log.With().Str("handlerName", "skillHandler").Logger()

	return skillHandler{
		responder: NewResponder(logger),
		logger:    logger,
		skillRepo: skillRepo,
	}
}

func validateSkill(s models.Skill) error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&s.Proficiency, validation.Min(models.FlexInt(0)), validation.Max(models.FlexInt(100))),
	)
}

func validateSkillPatch(p models.SkillPatch) error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&p.Proficiency, validation.Min(models.FlexInt(0)), validation.Max(models.FlexInt(100))),
	)
}

// @Summary Get all skills
// @Tags Skills
// @Router /skills [get]
func (h skillHandler) getAllSkills() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skills, err := h.skillRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "skills", err))
			return
		}
		h.responder.WriteJSON(w, newSkillViews(skills))
	}
}

// @Summary Create skill
// @Tags Skills
// @Router /skill [post]
func (h skillHandler) createSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var skill models.Skill
		if err := decodeJSON(w, r, "skill", &skill); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validateSkill(skill); err != nil {
			h.responder.WriteError(w, badRequest(err))
			return
		}

		created, err := h.skillRepo.Add(r.Context(), skill)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "skill", err))
			return
		}
		h.responder.WriteCreated(w, newSkillView(created))
	}
}

// @Summary Update skill
// @Tags Skills
// @Router /skill/{skillID} [put]
func (h skillHandler) updateSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skillID := chi.URLParam(r, "skillID")

		var patch models.SkillPatch
		if err := decodeJSON(w, r, "skill", &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validateSkillPatch(patch); err != nil {
			h.responder.WriteError(w, badRequest(err))
			return
		}

		if _, err := h.skillRepo.FindByID(r.Context(), skillID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "skill", err))
			return
		}
		if err := h.skillRepo.Update(r.Context(), skillID, patch); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "skill", err))
			return
		}

		updated, err := h.skillRepo.FindByID(r.Context(), skillID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated", "skill", err))
			return
		}
		h.responder.WriteJSON(w, newSkillView(updated))
	}
}

// @Summary Delete skill
// @Tags Skills
// @Router /skill/{skillID} [delete]
func (h skillHandler) deleteSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skillID := chi.URLParam(r, "skillID")

		if _, err := h.skillRepo.FindByID(r.Context(), skillID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "skill", err))
			return
		}
		if err := h.skillRepo.Delete(r.Context(), skillID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "skill", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "skill deleted successfully",
		})
	}
}
