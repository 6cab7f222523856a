package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-backend/metrics"
)

// setupPublicRoutes sets up the read-only site routes plus login and contact
func setupPublicRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/healthz", handlers.portfolioHandler.healthz())
	r.Method("GET", "/metrics", metrics.Handler())

	r.Get("/portfolio", handlers.portfolioHandler.getPortfolio())
	r.Get("/projects", handlers.projectHandler.getAllProjects())
	r.Get("/project/{projectID}", handlers.projectHandler.getProject())
	r.Get("/skills", handlers.skillHandler.getAllSkills())
	r.Get("/educations", handlers.educationHandler.getEducations())

	r.Post("/auth/login", handlers.authHandler.login())
	r.Post("/contact", handlers.contactHandler.sendContact())
	r.Post("/resume-request", handlers.contactHandler.requestResume())
}

// setupAdminRoutes sets up all routes that require a session token
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)

		r.Get("/auth/me", handlers.authHandler.me())

		// Project Handler endpoints
		r.Post("/project", handlers.projectHandler.createProject())
		r.Put("/project/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())
		r.Post("/project/{projectID}/videos", handlers.projectHandler.addVideo())
		r.Put("/project/{projectID}/videos/{videoID}", handlers.projectHandler.updateVideo())
		r.Delete("/project/{projectID}/videos/{videoID}", handlers.projectHandler.deleteVideo())

		// Skill Handler endpoints
		r.Post("/skill", handlers.skillHandler.createSkill())
		r.Put("/skill/{skillID}", handlers.skillHandler.updateSkill())
		r.Delete("/skill/{skillID}", handlers.skillHandler.deleteSkill())

		// Education Handler endpoints
		r.Post("/education", handlers.educationHandler.createEducation())
		r.Put("/education/{educationID}", handlers.educationHandler.updateEducation())
		r.Put("/educations/order", handlers.educationHandler.updateOrder())
		r.Delete("/education/{educationID}", handlers.educationHandler.deleteEducation())

		// Media Handler endpoints
		r.Post("/upload/cover-image", handlers.mediaHandler.uploadCoverImage())
		r.Post("/upload/pdf", handlers.mediaHandler.uploadPDF())
		r.Post("/upload/carousel-image", handlers.mediaHandler.uploadCarouselImage())
		r.Delete("/upload/carousel-image", handlers.mediaHandler.deleteCarouselImage())
		r.Post("/upload/education-image", handlers.mediaHandler.uploadEducationImage())
		r.Delete("/upload/education-image", handlers.mediaHandler.deleteEducationImage())
		r.Post("/media/remove-pdf", handlers.mediaHandler.removePDF())
		r.Post("/media/remove-carousel-image", handlers.mediaHandler.removeCarouselImage())
	})
}
