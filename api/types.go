package api

import (
	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rpupo63/portfolio-backend/storage"
)

// Dependencies are the process wide handles the router is built from.
type Dependencies struct {
	Database   database.Database
	Storage    storage.Client
	Mailer     services.Mailer
	Authorizer *auth.Authorizer
	Tokens     *auth.Tokens
}

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler   projectHandler
	skillHandler     skillHandler
	educationHandler educationHandler
	mediaHandler     mediaHandler
	authHandler      authHandler
	contactHandler   contactHandler
	portfolioHandler portfolioHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

type okResponse struct {
	OK bool `json:"ok"`
}
