package services

import (
	"context"
	"errors"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"
)

const (
	testCodeLength   = 6
	testCodeAttempts = 5
)

// TestService manages interviewer test codes. Codes are globally unique and
// resolve to the workspace of the interviewer who created them.
type TestService struct {
	directory  *repositories.DirectoryRepository
	workspaces *repositories.WorkspaceRepository
	logger     *zap.Logger
	now        func() time.Time
	newCode    func() (string, error)
}

func NewTestService(directory *repositories.DirectoryRepository, workspaces *repositories.WorkspaceRepository, logger *zap.Logger) *TestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TestService{
		directory:  directory,
		workspaces: workspaces,
		logger:     logger,
		now:        time.Now,
		newCode:    generateTestCode,
	}
}

// generateTestCode draws a nanoid from the default URL-safe alphabet.
func generateTestCode() (string, error) {
	return gonanoid.New(testCodeLength)
}

// Create issues a new active test. A custom code that is already taken fails
// with repositories.ErrTestExists; generated codes are redrawn on collision.
func (s *TestService) Create(ctx context.Context, ownerID string, req *models.CreateTestRequest) (*models.TestDefinition, error) {
	id, err := s.claim(ctx, ownerID, req.ID)
	if err != nil {
		return nil, err
	}

	def := models.TestDefinition{
		ID:             id,
		Label:          req.Label,
		Active:         true,
		CreatedAt:      s.now(),
		CreatedBy:      ownerID,
		ExpiresAt:      req.ExpiresAt,
		JobDescription: req.JobDescription,
	}
	err = s.workspaces.Update(ctx, ownerID, func(ws *repositories.Workspace) error {
		return ws.AddTest(def)
	})
	if err != nil {
		if releaseErr := s.directory.Release(ctx, id, ownerID); releaseErr != nil {
			s.logger.Error("failed to release test code", zap.String("test_id", id), zap.Error(releaseErr))
		}
		return nil, err
	}

	s.logger.Info("test created", zap.String("test_id", id), zap.String("owner_id", ownerID))
	return &def, nil
}

func (s *TestService) claim(ctx context.Context, ownerID, custom string) (string, error) {
	if custom != "" {
		return custom, s.directory.Claim(ctx, custom, ownerID)
	}
	for attempt := 0; attempt < testCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return "", err
		}
		err = s.directory.Claim(ctx, code, ownerID)
		if errors.Is(err, repositories.ErrTestExists) {
			continue
		}
		return code, err
	}
	return "", ErrTestCodeExhausted
}

func (s *TestService) List(ctx context.Context, ownerID string) ([]models.TestDefinition, error) {
	ws, err := s.workspaces.View(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return ws.ListTests(), nil
}

func (s *TestService) Update(ctx context.Context, ownerID, testID string, patch *models.UpdateTestRequest) (*models.TestDefinition, error) {
	var out models.TestDefinition
	err := s.workspaces.Update(ctx, ownerID, func(ws *repositories.Workspace) error {
		def, err := ws.UpdateTest(testID, *patch)
		if err != nil {
			return err
		}
		out = *def
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the test and frees its code. Its candidates are kept but no
// longer listed.
func (s *TestService) Delete(ctx context.Context, ownerID, testID string) error {
	err := s.workspaces.Update(ctx, ownerID, func(ws *repositories.Workspace) error {
		return ws.DeleteTest(testID)
	})
	if err != nil {
		return err
	}
	return s.directory.Release(ctx, testID, ownerID)
}

// Resolve finds the test behind a code and the interviewer who owns it.
func (s *TestService) Resolve(ctx context.Context, testID string) (string, *models.TestDefinition, error) {
	owner, err := s.directory.Lookup(ctx, testID)
	if err != nil {
		return "", nil, err
	}
	ws, err := s.workspaces.View(ctx, owner)
	if err != nil {
		return "", nil, err
	}
	def, err := ws.Test(testID)
	if err != nil {
		return "", nil, err
	}
	return owner, def, nil
}

// Status is the interviewee-facing view of a test code.
func (s *TestService) Status(ctx context.Context, testID string) (*models.TestStatus, error) {
	_, def, err := s.Resolve(ctx, testID)
	if err != nil {
		return nil, err
	}
	status := def.Status(s.now())
	return &status, nil
}
