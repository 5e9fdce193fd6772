package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"
	"peerprep/interview/internal/session"
	"peerprep/interview/internal/store"
)

// SessionService keeps the per-scope UI session: which test and candidate the
// caller is working on, and whether to offer resuming an unfinished interview.
type SessionService struct {
	sessions   *repositories.SessionRepository
	directory  *repositories.DirectoryRepository
	workspaces *repositories.WorkspaceRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewSessionService(sessions *repositories.SessionRepository, directory *repositories.DirectoryRepository, workspaces *repositories.WorkspaceRepository, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		sessions:   sessions,
		directory:  directory,
		workspaces: workspaces,
		logger:     logger,
		now:        time.Now,
	}
}

// Get returns the session with ResumeAvailable computed from the persisted
// interview of the active candidate. The welcome-back prompt only shows when
// there is something to resume.
func (s *SessionService) Get(ctx context.Context, scope store.Scope, user *models.PublicUser) (*models.SessionResponse, error) {
	state, err := s.sessions.Get(ctx, scope)
	if err != nil {
		return nil, err
	}
	resumable, err := s.resumable(ctx, state)
	if err != nil {
		return nil, err
	}
	return &models.SessionResponse{
		User:              user,
		ActiveCandidateID: state.ActiveCandidateID,
		CurrentTestID:     state.CurrentTestID,
		ResumeAvailable:   resumable,
		ShowWelcomeBack:   state.ShowWelcomeBack && resumable,
	}, nil
}

func (s *SessionService) resumable(ctx context.Context, state *models.SessionState) (bool, error) {
	if state.ActiveCandidateID == "" || state.CurrentTestID == "" {
		return false, nil
	}
	owner, err := s.directory.Lookup(ctx, state.CurrentTestID)
	if errors.Is(err, repositories.ErrTestNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	ws, err := s.workspaces.View(ctx, owner)
	if err != nil {
		return false, err
	}
	if _, err := ws.CandidateForTest(state.ActiveCandidateID, state.CurrentTestID); err != nil {
		return false, nil
	}
	iv, err := ws.Interview(state.ActiveCandidateID)
	if err != nil {
		return false, nil
	}
	return session.Resumable(iv), nil
}

// SetTest records the test code the caller entered. Unknown codes are rejected.
func (s *SessionService) SetTest(ctx context.Context, scope store.Scope, testID string) error {
	if _, err := s.directory.Lookup(ctx, testID); err != nil {
		return err
	}
	return s.update(ctx, scope, func(st *models.SessionState) {
		st.CurrentTestID = testID
	})
}

func (s *SessionService) SetActiveCandidate(ctx context.Context, scope store.Scope, candidateID string) error {
	return s.update(ctx, scope, func(st *models.SessionState) {
		st.ActiveCandidateID = candidateID
	})
}

// Activate points the session at a candidate of a test in one write.
func (s *SessionService) Activate(ctx context.Context, scope store.Scope, testID, candidateID string) error {
	return s.update(ctx, scope, func(st *models.SessionState) {
		st.CurrentTestID = testID
		st.ActiveCandidateID = candidateID
	})
}

func (s *SessionService) DismissWelcomeBack(ctx context.Context, scope store.Scope) error {
	return s.update(ctx, scope, func(st *models.SessionState) {
		st.ShowWelcomeBack = false
	})
}

// Login arms the welcome-back prompt. Switching to another account clears the
// previous user's test and candidate.
func (s *SessionService) Login(ctx context.Context, scope store.Scope, userID string) error {
	return s.update(ctx, scope, func(st *models.SessionState) {
		if st.UserID != "" && st.UserID != userID {
			st.ActiveCandidateID = ""
			st.CurrentTestID = ""
		}
		st.UserID = userID
		st.ShowWelcomeBack = true
	})
}

func (s *SessionService) Logout(ctx context.Context, scope store.Scope) error {
	return s.update(ctx, scope, func(st *models.SessionState) {
		userID := st.UserID
		*st = models.SessionState{UserID: userID}
	})
}

func (s *SessionService) update(ctx context.Context, scope store.Scope, fn func(st *models.SessionState)) error {
	return s.sessions.Update(ctx, scope, func(st *models.SessionState) error {
		fn(st)
		st.UpdatedAt = s.now()
		return nil
	})
}
