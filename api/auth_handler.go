package api

import (
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder  Responder
	logger     zerolog.Logger
	authorizer *auth.Authorizer
	tokens     *auth.Tokens
}

func newAuthHandler(authorizer *auth.Authorizer, tokens *auth.Tokens) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		authorizer: authorizer,
		tokens:     tokens,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token       string    `json:"token"`
	DisplayName string    `json:"displayName"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// login exchanges admin credentials for a session token.
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} loginResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.authorizer == nil || h.authorizer.Len() == 0 {
			h.responder.WriteError(w, errs.NewConfigError("ADMIN_CREDENTIALS"))
			return
		}
		if h.tokens == nil {
			h.responder.WriteError(w, errs.NewConfigError("JWT_SECRET"))
			return
		}

		var req loginRequest
		if err := decodeJSON(w, r, "login", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		err := validation.ValidateStruct(&req,
			validation.Field(&req.Username, validation.Required),
			validation.Field(&req.Password, validation.Required),
		)
		if err != nil {
			h.responder.WriteError(w, badRequest(err))
			return
		}

		principal, err := h.authorizer.Authorize(req.Username, req.Password)
		if errs.IsInvalidCredentials(err) {
			h.logger.Warn().Str("username", req.Username).Str("remote_addr", r.RemoteAddr).Msg("failed login")
			h.responder.WriteError(w, errs.NewUnauthorizedError("invalid username or password"))
			return
		}
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		token, expires, err := h.tokens.Issue(principal)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("could not issue session token", err))
			return
		}

		h.logger.Info().Str("username", principal.Username).Msg("admin logged in")
		h.responder.WriteJSON(w, loginResponse{Token: token, DisplayName: principal.DisplayName, ExpiresAt: expires})
	}
}

// me returns the admin behind the session token.
// @Summary Current admin
// @Tags Auth
// @Router /auth/me [get]
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := ctxGetPrincipal(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}
		h.responder.WriteJSON(w, principal)
	}
}
