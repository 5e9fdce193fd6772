package routers

import (
	"peerprep/interview/internal/handlers"
	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"

	"github.com/go-chi/chi/v5"
)

// SessionRoutes serve guests and signed-in users alike; the caller's scope
// decides which session document is read.
func SessionRoutes(router *chi.Mux, sessionHandler *handlers.SessionHandler) {
	router.Route("/api/v1/session", func(r chi.Router) {
		r.Get("/", sessionHandler.GetSessionHandler)
		r.With(middleware.ValidateRequest[*models.SetTestRequest]()).Put("/test", sessionHandler.SetTestHandler)
		r.With(middleware.ValidateRequest[*models.SetCandidateRequest]()).Put("/candidate", sessionHandler.SetCandidateHandler)
		r.Post("/welcome-back/dismiss", sessionHandler.DismissWelcomeBackHandler)
	})
}
