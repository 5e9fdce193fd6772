package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"
	"peerprep/interview/internal/resume"
	"peerprep/interview/internal/session"
	"peerprep/interview/internal/store"
	"peerprep/interview/internal/timer"
)

// CandidateService handles interviewee registration against a test and the
// interviewer's candidate dashboard.
type CandidateService struct {
	tests      *TestService
	workspaces *repositories.WorkspaceRepository
	sessions   *SessionService
	extractor  resume.TextExtractor
	timers     *timer.Scheduler
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

func NewCandidateService(tests *TestService, workspaces *repositories.WorkspaceRepository, sessions *SessionService, extractor resume.TextExtractor, timers *timer.Scheduler, logger *zap.Logger) *CandidateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if extractor == nil {
		extractor = resume.PlainTextExtractor{}
	}
	return &CandidateService{
		tests:      tests,
		workspaces: workspaces,
		sessions:   sessions,
		extractor:  extractor,
		timers:     timers,
		logger:     logger,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
}

// SubmitProfile registers the interviewee for testID from the details form.
func (s *CandidateService) SubmitProfile(ctx context.Context, scope store.Scope, testID string, req *models.CandidateProfileRequest) (*models.CandidateResponse, error) {
	return s.submit(ctx, scope, testID, models.CandidateProfile{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		JobRole: req.JobRole,
	})
}

// SubmitResume extracts contact details from an uploaded resume and registers
// the interviewee with them. The fields found are returned for confirmation.
func (s *CandidateService) SubmitResume(ctx context.Context, scope store.Scope, testID, fileName, mimeType string, r io.Reader) (*models.CandidateResponse, *resume.Fields, error) {
	if _, err := s.openTest(ctx, testID); err != nil {
		return nil, nil, err
	}
	text, err := s.extractor.Extract(ctx, fileName, mimeType, r)
	if err != nil {
		return nil, nil, err
	}
	fields := resume.ExtractFields(text)
	resp, err := s.submit(ctx, scope, testID, models.CandidateProfile{
		Name:           fields.Name,
		Email:          fields.Email,
		Phone:          fields.Phone,
		ResumeFileName: fileName,
		ResumeMimeType: mimeType,
	})
	if err != nil {
		return nil, nil, err
	}
	return resp, &fields, nil
}

func (s *CandidateService) openTest(ctx context.Context, testID string) (string, error) {
	owner, def, err := s.tests.Resolve(ctx, testID)
	if err != nil {
		return "", err
	}
	if !def.IsOpen(s.now()) {
		return "", session.ErrTestClosed
	}
	return owner, nil
}

func (s *CandidateService) submit(ctx context.Context, scope store.Scope, testID string, profile models.CandidateProfile) (*models.CandidateResponse, error) {
	owner, err := s.openTest(ctx, testID)
	if err != nil {
		return nil, err
	}

	profile.ID = s.newID()
	profile.TestID = testID
	profile.CreatedAt = s.now()
	profile.Status = models.StatusNew

	var resp models.CandidateResponse
	err = s.workspaces.Update(ctx, owner, func(ws *repositories.Workspace) error {
		stored, updated := ws.UpsertCandidate(profile)
		resp = models.CandidateResponse{Candidate: *stored, Updated: updated}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if resp.Updated && s.timers != nil {
		s.timers.Disarm(timer.Key{OwnerID: owner, TestID: testID, CandidateID: resp.Candidate.ID}, "")
	}

	if err := s.sessions.Activate(ctx, scope, testID, resp.Candidate.ID); err != nil {
		return nil, err
	}
	s.logger.Info("candidate submitted",
		zap.String("test_id", testID),
		zap.String("candidate_id", resp.Candidate.ID),
		zap.Bool("updated", resp.Updated))
	return &resp, nil
}

func (s *CandidateService) List(ctx context.Context, ownerID string, filter repositories.CandidateFilter) ([]models.CandidateProfile, error) {
	ws, err := s.workspaces.View(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return ws.ListCandidates(filter), nil
}

func (s *CandidateService) Detail(ctx context.Context, ownerID, candidateID string) (*models.CandidateDetail, error) {
	ws, err := s.workspaces.View(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return ws.Detail(candidateID)
}

// Delete removes the candidate with its interview, transcript and index entry.
func (s *CandidateService) Delete(ctx context.Context, ownerID, candidateID string) error {
	var testID string
	err := s.workspaces.Update(ctx, ownerID, func(ws *repositories.Workspace) error {
		c, err := ws.Candidate(candidateID)
		if err != nil {
			return err
		}
		testID = c.TestID
		return ws.DeleteCandidate(candidateID)
	})
	if err != nil {
		return err
	}
	s.cancelTimer(ownerID, testID, candidateID)
	return nil
}

// Reset lets the candidate take the interview again from scratch.
func (s *CandidateService) Reset(ctx context.Context, ownerID, candidateID string) (*models.CandidateProfile, error) {
	var out models.CandidateProfile
	err := s.workspaces.Update(ctx, ownerID, func(ws *repositories.Workspace) error {
		c, err := ws.ResetCandidate(candidateID)
		if err != nil {
			return err
		}
		out = *c
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cancelTimer(ownerID, out.TestID, candidateID)
	return &out, nil
}

func (s *CandidateService) cancelTimer(ownerID, testID, candidateID string) {
	if s.timers != nil {
		s.timers.Disarm(timer.Key{OwnerID: ownerID, TestID: testID, CandidateID: candidateID}, "")
	}
}
