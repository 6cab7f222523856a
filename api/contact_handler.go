package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	contact   *services.ContactService
}

func newContactHandler(contact *services.ContactService) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		contact:   contact,
	}
}

type resumeRequest struct {
	Email string `json:"email"`
}

// @Summary Send a contact form message
// @Tags Contact
// @Router /contact [post]
func (h contactHandler) sendContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.ContactRequest
		if err := decodeJSON(w, r, "contact", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.contact.Contact(r.Context(), req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, okResponse{OK: true})
	}
}

// @Summary Request the resume
// @Tags Contact
// @Router /resume-request [post]
func (h contactHandler) requestResume() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resumeRequest
		if err := decodeJSON(w, r, "resume request", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.contact.RequestResume(r.Context(), req.Email); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, okResponse{OK: true})
	}
}
