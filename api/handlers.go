package api

import (
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/services"
)

const defaultMaxUploadBytes = 10 << 20

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, r router) *routeHandlers {
	db := deps.Database
	media := services.NewMediaService(db, deps.Storage)
	contact := services.NewContactService(deps.Mailer, config.GetString(r.config, "CONTACT_RECIPIENT", ""))
	maxUpload := int64(config.GetInt(r.config, "MAX_UPLOAD_BYTES", defaultMaxUploadBytes))

	return &routeHandlers{
		projectHandler:   newProjectHandler(db.ProjectRepo()),
		skillHandler:     newSkillHandler(db.SkillRepo()),
		educationHandler: newEducationHandler(db.EducationRepo()),
		mediaHandler:     newMediaHandler(media, maxUpload),
		authHandler:      newAuthHandler(deps.Authorizer, deps.Tokens),
		contactHandler:   newContactHandler(contact),
		portfolioHandler: newPortfolioHandler(db, r.startupTime),
	}
}
