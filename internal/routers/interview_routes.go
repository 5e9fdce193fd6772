package routers

import (
	"peerprep/interview/internal/handlers"
	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"

	"github.com/go-chi/chi/v5"
)

// InterviewRoutes registers the test-code routes: the interviewer's test
// management and everything an interviewee does under a code.
func InterviewRoutes(router *chi.Mux, testHandler *handlers.TestHandler, candidateHandler *handlers.CandidateHandler, interviewHandler *handlers.InterviewHandler) {
	interviewer := middleware.RequireRole(models.RoleInterviewer)

	router.Route("/api/v1/tests", func(r chi.Router) {
		r.With(interviewer).Get("/", testHandler.ListTestsHandler)
		r.With(interviewer, middleware.ValidateRequest[*models.CreateTestRequest]()).Post("/", testHandler.CreateTestHandler)

		r.Route("/{testId}", func(r chi.Router) {
			r.With(interviewer, middleware.ValidateRequest[*models.UpdateTestRequest]()).Patch("/", testHandler.UpdateTestHandler)
			r.With(interviewer).Delete("/", testHandler.DeleteTestHandler)
			r.Get("/status", testHandler.StatusHandler)

			r.With(middleware.ValidateRequest[*models.CandidateProfileRequest]()).Post("/candidates", candidateHandler.SubmitProfileHandler)
			r.Post("/candidates/resume", candidateHandler.SubmitResumeHandler)

			r.Route("/candidates/{candidateId}/interview", func(r chi.Router) {
				r.Post("/", interviewHandler.StartInterviewHandler)
				r.Get("/", interviewHandler.GetInterviewHandler)
				r.Post("/questions/{questionId}/start", interviewHandler.StartQuestionHandler)
				r.With(middleware.ValidateRequest[*models.DraftRequest]()).Put("/questions/{questionId}/draft", interviewHandler.SaveDraftHandler)
				r.With(middleware.ValidateRequest[*models.AnswerRequest]()).Post("/questions/{questionId}/answer", interviewHandler.SubmitAnswerHandler)
				r.With(middleware.ValidateRequest[*models.EndInterviewRequest]()).Post("/end", interviewHandler.EndInterviewHandler)
			})
		})
	})
}

// CandidateRoutes is the interviewer dashboard.
func CandidateRoutes(router *chi.Mux, candidateHandler *handlers.CandidateHandler) {
	router.Route("/api/v1/candidates", func(r chi.Router) {
		r.Use(middleware.RequireRole(models.RoleInterviewer))
		r.Get("/", candidateHandler.ListCandidatesHandler)
		r.Get("/{candidateId}", candidateHandler.GetCandidateHandler)
		r.Delete("/{candidateId}", candidateHandler.DeleteCandidateHandler)
		r.Post("/{candidateId}/reset", candidateHandler.ResetCandidateHandler)
	})
}
