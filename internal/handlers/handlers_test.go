package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"peerprep/interview/internal/event"
	"peerprep/interview/internal/gateway"
	"peerprep/interview/internal/llm"
	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"
	"peerprep/interview/internal/services"
	"peerprep/interview/internal/session"
	"peerprep/interview/internal/store"
	"peerprep/interview/internal/timer"
)

type mockProvider struct{}

func (mockProvider) Chat(context.Context, *llm.ChatRequest) (string, error) { return "", nil }
func (mockProvider) Models() []string                                       { return []string{"mock-model"} }
func (mockProvider) GetProviderName() string                                { return "mock" }

var _ llm.Provider = mockProvider{}

// mockGateway generates numbered questions and gives full marks to "good".
type mockGateway struct {
	genErr error
}

func (g *mockGateway) GenerateQuestions(_ context.Context, jobRole, _ string) ([]models.Question, error) {
	if g.genErr != nil {
		return nil, g.genErr
	}
	qs := make([]models.Question, 0, models.QuestionsPerInterview)
	for i, d := range models.QuestionTemplate {
		qs = append(qs, models.NewQuestion(fmt.Sprintf("q%d", i+1), d, fmt.Sprintf("%s question %d", jobRole, i+1)))
	}
	return qs, nil
}

func (g *mockGateway) ScoreAnswer(_ context.Context, q *models.Question, answer string) (models.Grade, error) {
	grade := models.Grade{QuestionID: q.ID, MaxPoints: q.MaxPoints, Feedback: "ok"}
	if answer == "good" {
		grade.Score = 10
		grade.Points = q.MaxPoints
	}
	return grade, nil
}

func (g *mockGateway) FinalizeCandidate(_ context.Context, profile *models.CandidateProfile, questions []models.Question) (int, string) {
	score := models.FinalScore(questions)
	return score, gateway.FallbackSummary(profile.Name, score)
}

type testServer struct {
	router    *chi.Mux
	gateway   *mockGateway
	publisher *event.MockPublisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	backend := store.NewMemoryBackend()
	logger := zap.NewNop()

	workspaces := repositories.NewWorkspaceRepository(backend)
	directory := repositories.NewDirectoryRepository(backend)
	sessionSvc := services.NewSessionService(repositories.NewSessionRepository(backend), directory, workspaces, logger)
	authSvc := services.NewAuthService(repositories.NewAccountRepository(backend), sessionSvc, "test-secret", time.Hour, logger)
	testSvc := services.NewTestService(directory, workspaces, logger)
	timers := timer.NewScheduler(nil, logger)
	t.Cleanup(timers.Stop)

	gw := &mockGateway{}
	publisher := event.NewMockPublisher()
	candidateSvc := services.NewCandidateService(testSvc, workspaces, sessionSvc, nil, timers, logger)
	interviewSvc := services.NewInterviewService(testSvc, session.NewEngine(workspaces, logger), gw, timers, publisher, logger)

	auth := NewAuthHandler(authSvc, logger)
	sessions := NewSessionHandler(sessionSvc, logger)
	tests := NewTestHandler(testSvc, logger)
	candidates := NewCandidateHandler(candidateSvc, logger)
	interviews := NewInterviewHandler(interviewSvc, logger)

	r := chi.NewRouter()
	r.Use(middleware.Authenticate(authSvc, false))
	r.With(middleware.ValidateRequest[*models.RegisterRequest]()).Post("/auth/register", auth.RegisterHandler)
	r.With(middleware.ValidateRequest[*models.LoginRequest]()).Post("/auth/login", auth.LoginHandler)
	r.Post("/auth/logout", auth.LogoutHandler)
	r.Get("/auth/me", auth.MeHandler)

	r.Get("/session", sessions.GetSessionHandler)
	r.With(middleware.ValidateRequest[*models.SetTestRequest]()).Put("/session/test", sessions.SetTestHandler)

	interviewer := middleware.RequireRole(models.RoleInterviewer)
	r.Route("/tests/{testId}", func(r chi.Router) {
		r.With(interviewer, middleware.ValidateRequest[*models.UpdateTestRequest]()).Patch("/", tests.UpdateTestHandler)
		r.With(interviewer).Delete("/", tests.DeleteTestHandler)
		r.Get("/status", tests.StatusHandler)
		r.With(middleware.ValidateRequest[*models.CandidateProfileRequest]()).Post("/candidates", candidates.SubmitProfileHandler)
		r.Post("/candidates/resume", candidates.SubmitResumeHandler)
		r.Route("/candidates/{candidateId}/interview", func(r chi.Router) {
			r.Post("/", interviews.StartInterviewHandler)
			r.Get("/", interviews.GetInterviewHandler)
			r.Post("/questions/{questionId}/start", interviews.StartQuestionHandler)
			r.With(middleware.ValidateRequest[*models.DraftRequest]()).Put("/questions/{questionId}/draft", interviews.SaveDraftHandler)
			r.With(middleware.ValidateRequest[*models.AnswerRequest]()).Post("/questions/{questionId}/answer", interviews.SubmitAnswerHandler)
			r.With(middleware.ValidateRequest[*models.EndInterviewRequest]()).Post("/end", interviews.EndInterviewHandler)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(interviewer)
		r.Get("/tests", tests.ListTestsHandler)
		r.With(middleware.ValidateRequest[*models.CreateTestRequest]()).Post("/tests", tests.CreateTestHandler)
		r.Get("/candidates", candidates.ListCandidatesHandler)
		r.Get("/candidates/{candidateId}", candidates.GetCandidateHandler)
		r.Delete("/candidates/{candidateId}", candidates.DeleteCandidateHandler)
		r.Post("/candidates/{candidateId}/reset", candidates.ResetCandidateHandler)
	})

	return &testServer{router: r, gateway: gw, publisher: publisher}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, role, email string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/register", "", models.RegisterRequest{
		Role: role, Email: email, Name: "Test User", Password: "secret123",
	})
	expectStatus(t, rec, http.StatusCreated)
	return decode[models.AuthResponse](t, rec).Token
}

func (s *testServer) createTest(t *testing.T, token, code string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/tests", token, models.CreateTestRequest{ID: code, JobDescription: "Go services"})
	expectStatus(t, rec, http.StatusCreated)
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return out
}
