package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"peerprep/interview/internal/event"
	"peerprep/interview/internal/gateway"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"
	"peerprep/interview/internal/session"
	"peerprep/interview/internal/store"
	"peerprep/interview/internal/timer"
)

type stubGateway struct {
	mu       sync.Mutex
	genErr   error
	scoreErr error
	scored   []string
	n        int
}

func (g *stubGateway) GenerateQuestions(_ context.Context, jobRole, _ string) ([]models.Question, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.genErr != nil {
		return nil, g.genErr
	}
	qs := make([]models.Question, 0, models.QuestionsPerInterview)
	for i, d := range models.QuestionTemplate {
		g.n++
		qs = append(qs, models.NewQuestion(fmt.Sprintf("q%d-%d", g.n, i+1), d, fmt.Sprintf("%s question %d", jobRole, i+1)))
	}
	return qs, nil
}

// ScoreAnswer gives full marks to "good" answers and zero otherwise.
func (g *stubGateway) ScoreAnswer(_ context.Context, q *models.Question, answer string) (models.Grade, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scored = append(g.scored, q.ID)
	if g.scoreErr != nil {
		return gateway.DefaultGrade(q), g.scoreErr
	}
	grade := models.Grade{QuestionID: q.ID, MaxPoints: q.MaxPoints, Feedback: "ok"}
	if answer == "good" {
		grade.Score = 10
		grade.Points = q.MaxPoints
	}
	return grade, nil
}

func (g *stubGateway) FinalizeCandidate(_ context.Context, profile *models.CandidateProfile, questions []models.Question) (int, string) {
	score := models.FinalScore(questions)
	return score, gateway.FallbackSummary(profile.Name, score)
}

type fixture struct {
	sessions   *SessionService
	auth       *AuthService
	tests      *TestService
	candidates *CandidateService
	interviews *InterviewService
	workspaces *repositories.WorkspaceRepository
	timers     *timer.Scheduler
	gateway    *stubGateway
	publisher  *event.MockPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := store.NewMemoryBackend()
	logger := zap.NewNop()

	workspaces := repositories.NewWorkspaceRepository(backend)
	directory := repositories.NewDirectoryRepository(backend)
	sessions := NewSessionService(repositories.NewSessionRepository(backend), directory, workspaces, logger)
	tests := NewTestService(directory, workspaces, logger)
	timers := timer.NewScheduler(nil, logger)
	t.Cleanup(timers.Stop)

	gw := &stubGateway{}
	publisher := event.NewMockPublisher()
	return &fixture{
		sessions:   sessions,
		auth:       NewAuthService(repositories.NewAccountRepository(backend), sessions, "test-secret", time.Hour, logger),
		tests:      tests,
		candidates: NewCandidateService(tests, workspaces, sessions, nil, timers, logger),
		interviews: NewInterviewService(tests, session.NewEngine(workspaces, logger), gw, timers, publisher, logger),
		workspaces: workspaces,
		timers:     timers,
		gateway:    gw,
		publisher:  publisher,
	}
}

const owner = "interviewer-1"

// openTest creates an active test with a fixed code.
func (f *fixture) openTest(t *testing.T, code string) *models.TestDefinition {
	t.Helper()
	def, err := f.tests.Create(context.Background(), owner, &models.CreateTestRequest{ID: code, JobDescription: "Go services"})
	require.NoError(t, err)
	return def
}

func (f *fixture) candidate(t *testing.T, scope store.Scope, testID, email string) models.CandidateProfile {
	t.Helper()
	resp, err := f.candidates.SubmitProfile(context.Background(), scope, testID, &models.CandidateProfileRequest{
		Name: "Ada Lovelace", Email: email, Phone: "555-123-4567", JobRole: "Backend Engineer",
	})
	require.NoError(t, err)
	return resp.Candidate
}
