package routers

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"peerprep/interview/internal/config"
	"peerprep/interview/internal/gateway"
	"peerprep/interview/internal/handlers"
	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/repositories"
	"peerprep/interview/internal/services"
	"peerprep/interview/internal/session"
	"peerprep/interview/internal/store"
	"peerprep/interview/internal/timer"
)

func newRouter(t *testing.T) *chi.Mux {
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
	candidateSvc := services.NewCandidateService(testSvc, workspaces, sessionSvc, nil, timers, logger)
	interviewSvc := services.NewInterviewService(testSvc, session.NewEngine(workspaces, logger),
		gateway.New(nil, nil, nil, logger), timers, nil, logger)

	candidateHandler := handlers.NewCandidateHandler(candidateSvc, logger)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(authSvc, false))
	HealthRoutes(router, handlers.NewHealthHandler(nil, nil, backend, &config.Config{}))
	AuthRoutes(router, handlers.NewAuthHandler(authSvc, logger))
	SessionRoutes(router, handlers.NewSessionHandler(sessionSvc, logger))
	InterviewRoutes(router, handlers.NewTestHandler(testSvc, logger), candidateHandler, handlers.NewInterviewHandler(interviewSvc, logger))
	CandidateRoutes(router, candidateHandler)
	return router
}

func TestRoutesRegistered(t *testing.T) {
	router := newRouter(t)

	var got []string
	err := chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		got = append(got, method+" "+strings.TrimSuffix(route, "/"))
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	sort.Strings(got)

	want := []string{
		"GET /healthz",
		"GET /readyz",
		"GET /api/v1/session",
		"PUT /api/v1/session/test",
		"PUT /api/v1/session/candidate",
		"POST /api/v1/session/welcome-back/dismiss",
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/logout",
		"GET /api/v1/auth/me",
		"GET /api/v1/tests",
		"POST /api/v1/tests",
		"PATCH /api/v1/tests/{testId}",
		"DELETE /api/v1/tests/{testId}",
		"GET /api/v1/tests/{testId}/status",
		"POST /api/v1/tests/{testId}/candidates",
		"POST /api/v1/tests/{testId}/candidates/resume",
		"POST /api/v1/tests/{testId}/candidates/{candidateId}/interview",
		"GET /api/v1/tests/{testId}/candidates/{candidateId}/interview",
		"POST /api/v1/tests/{testId}/candidates/{candidateId}/interview/questions/{questionId}/start",
		"PUT /api/v1/tests/{testId}/candidates/{candidateId}/interview/questions/{questionId}/draft",
		"POST /api/v1/tests/{testId}/candidates/{candidateId}/interview/questions/{questionId}/answer",
		"POST /api/v1/tests/{testId}/candidates/{candidateId}/interview/end",
		"GET /api/v1/candidates",
		"GET /api/v1/candidates/{candidateId}",
		"DELETE /api/v1/candidates/{candidateId}",
		"POST /api/v1/candidates/{candidateId}/reset",
	}
	registered := make(map[string]bool, len(got))
	for _, r := range got {
		registered[r] = true
	}
	for _, w := range want {
		if !registered[w] {
			t.Errorf("route %q not registered; have %v", w, got)
		}
	}
}

func TestRoutesServe(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/api/v1/interview/healthz", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/readyz", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/v1/session", http.StatusOK},
		{http.MethodGet, "/api/v1/tests", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/candidates", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/tests/NOPE/status", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("expected status %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}
