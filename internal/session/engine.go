package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"
)

var (
	// ErrTestClosed means the test is inactive or expired.
	ErrTestClosed       = errors.New("test is not active or has expired")
	ErrAlreadyFinalized = errors.New("interview already finalized")
	ErrNotComplete      = errors.New("interview is not complete")
	// ErrAlreadyAnswered stops an expired countdown from overwriting an answer
	// that was submitted in the meantime.
	ErrAlreadyAnswered = errors.New("question already answered")
)

// Target addresses one candidate's interview inside an interviewer's workspace.
type Target struct {
	OwnerID     string
	TestID      string
	CandidateID string
}

// Engine applies interview mutations and persists each one before returning.
type Engine struct {
	workspaces *repositories.WorkspaceRepository
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

func NewEngine(workspaces *repositories.WorkspaceRepository, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		workspaces: workspaces,
		logger:     logger,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
}

// Now is the engine's clock.
func (e *Engine) Now() time.Time {
	return e.now()
}

// mutate runs fn against the target's candidate inside one optimistic update.
func (e *Engine) mutate(ctx context.Context, t Target, gated bool, fn func(ws *repositories.Workspace, c *models.CandidateProfile, now time.Time) error) error {
	return e.workspaces.Update(ctx, t.OwnerID, func(ws *repositories.Workspace) error {
		now := e.now()
		if gated {
			def, err := ws.Test(t.TestID)
			if err != nil {
				return err
			}
			if !def.IsOpen(now) {
				return ErrTestClosed
			}
		}
		c, err := ws.CandidateForTest(t.CandidateID, t.TestID)
		if err != nil {
			return err
		}
		return fn(ws, c, now)
	})
}

func (e *Engine) message(role, content string, at time.Time) models.ChatMessage {
	return models.ChatMessage{ID: e.newID(), Role: role, Content: content, Timestamp: at}
}

// InitInterview replaces any prior interview with a fresh one over questions.
func (e *Engine) InitInterview(ctx context.Context, t Target, questions []models.Question, meta models.InterviewMeta) (*models.Interview, error) {
	var out *models.Interview
	err := e.mutate(ctx, t, true, func(ws *repositories.Workspace, c *models.CandidateProfile, now time.Time) error {
		iv, err := NewInterview(questions, meta, now)
		if err != nil {
			return err
		}
		if err := ws.SetInterview(c.ID, iv); err != nil {
			return err
		}
		c.Status = models.StatusInProgress
		c.FinalScore = nil
		c.Summary = ""
		if err := ws.AppendMessage(c.ID, e.message(models.ChatRoleSystem,
			fmt.Sprintf("Interview started with %d questions.", len(iv.Questions)), now)); err != nil {
			return err
		}
		out = iv.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("interview initialised",
		zap.String("owner_id", t.OwnerID),
		zap.String("candidate_id", t.CandidateID))
	return out, nil
}

// StartQuestion stamps the question's start and posts it to the transcript the first time.
func (e *Engine) StartQuestion(ctx context.Context, t Target, questionID string) (*models.Interview, error) {
	var out *models.Interview
	err := e.mutate(ctx, t, true, func(ws *repositories.Workspace, c *models.CandidateProfile, now time.Time) error {
		iv, err := ws.Interview(c.ID)
		if err != nil {
			return err
		}
		i := iv.FindQuestion(questionID)
		if i < 0 {
			return ErrQuestionUnknown
		}
		firstStart := iv.Questions[i].StartedAt == nil
		if err := StartQuestion(iv, questionID, now); err != nil {
			return err
		}
		if firstStart {
			q := iv.Questions[i]
			if err := ws.AppendMessage(c.ID, e.message(models.ChatRoleAI,
				fmt.Sprintf("Q%d (%s, %ds): %s", i+1, q.Difficulty, q.DurationSec, q.Text), now)); err != nil {
				return err
			}
		}
		out = iv.Clone()
		return nil
	})
	return out, err
}

// AnswerQuestion records an answer and reports whether the interview advanced.
// The test must still be open, whatever autoSubmitted says.
func (e *Engine) AnswerQuestion(ctx context.Context, t Target, questionID, answer string, autoSubmitted bool) (*models.Interview, bool, error) {
	return e.answer(ctx, t, questionID, answer, autoSubmitted, true)
}

// ExpireQuestion records the draft of a question whose countdown ran out. A
// countdown that was started always resolves, even if the test closed since.
func (e *Engine) ExpireQuestion(ctx context.Context, t Target, questionID, draft string) (*models.Interview, bool, error) {
	return e.answer(ctx, t, questionID, draft, true, false)
}

func (e *Engine) answer(ctx context.Context, t Target, questionID, answer string, autoSubmitted, gated bool) (*models.Interview, bool, error) {
	var (
		out      *models.Interview
		advanced bool
	)
	err := e.mutate(ctx, t, gated, func(ws *repositories.Workspace, c *models.CandidateProfile, now time.Time) error {
		iv, err := ws.Interview(c.ID)
		if err != nil {
			return err
		}
		if autoSubmitted {
			if i := iv.FindQuestion(questionID); i >= 0 && iv.Questions[i].Answered() {
				return ErrAlreadyAnswered
			}
		}
		advanced, err = AnswerQuestion(iv, questionID, answer, autoSubmitted, now)
		if err != nil {
			return err
		}
		content := answer
		if content == "" {
			content = "(no answer)"
		}
		if autoSubmitted {
			content += " [auto-submitted]"
		}
		if err := ws.AppendMessage(c.ID, e.message(models.ChatRoleUser, content, now)); err != nil {
			return err
		}
		out = iv.Clone()
		return nil
	})
	return out, advanced, err
}

// SetGrading stores a grade by question id, whatever the current index is.
func (e *Engine) SetGrading(ctx context.Context, t Target, grade models.Grade) (*models.Interview, error) {
	var out *models.Interview
	err := e.mutate(ctx, t, false, func(ws *repositories.Workspace, c *models.CandidateProfile, now time.Time) error {
		iv, err := ws.Interview(c.ID)
		if err != nil {
			return err
		}
		points := grade.Points
		if err := SetGrading(iv, grade.QuestionID, grade.Score, grade.Feedback, &points); err != nil {
			return err
		}
		i := iv.FindQuestion(grade.QuestionID)
		if err := ws.AppendMessage(c.ID, e.message(models.ChatRoleAI,
			fmt.Sprintf("Q%d scored %d/10 (%d/%d points). %s", i+1, grade.Score, grade.Points, grade.MaxPoints, grade.Feedback), now)); err != nil {
			return err
		}
		out = iv.Clone()
		return nil
	})
	return out, err
}

// EndInterview terminates the interview early. It is never gated so a timeout
// can always close the session.
func (e *Engine) EndInterview(ctx context.Context, t Target, reason string) (*models.Interview, error) {
	var out *models.Interview
	err := e.mutate(ctx, t, false, func(ws *repositories.Workspace, c *models.CandidateProfile, now time.Time) error {
		iv, err := ws.Interview(c.ID)
		if err != nil {
			return err
		}
		wasComplete := iv.Complete
		EndInterview(iv, reason, now)
		if !wasComplete {
			if err := ws.AppendMessage(c.ID, e.message(models.ChatRoleMeta, "Interview ended ("+reason+").", now)); err != nil {
				return err
			}
		}
		out = iv.Clone()
		return nil
	})
	return out, err
}

// Finalize stores the final score and summary once per interview.
func (e *Engine) Finalize(ctx context.Context, t Target, finalScore int, summary string) error {
	return e.mutate(ctx, t, false, func(ws *repositories.Workspace, c *models.CandidateProfile, now time.Time) error {
		iv, err := ws.Interview(c.ID)
		if err != nil {
			return err
		}
		if !iv.Complete {
			return ErrNotComplete
		}
		if iv.FinalizedAt != nil {
			return ErrAlreadyFinalized
		}
		finalized := now
		iv.FinalizedAt = &finalized
		if err := ws.SetFinalResult(c.ID, finalScore, summary); err != nil {
			return err
		}
		return ws.AppendMessage(c.ID, e.message(models.ChatRoleAI,
			fmt.Sprintf("Final score: %d/100. %s", finalScore, summary), now))
	})
}

// Snapshot returns the candidate, transcript and interview as currently persisted.
func (e *Engine) Snapshot(ctx context.Context, t Target) (*models.CandidateDetail, error) {
	ws, err := e.workspaces.View(ctx, t.OwnerID)
	if err != nil {
		return nil, err
	}
	if _, err := ws.CandidateForTest(t.CandidateID, t.TestID); err != nil {
		return nil, err
	}
	return ws.Detail(t.CandidateID)
}

// Question returns a copy of one question of the target's interview.
func (e *Engine) Question(ctx context.Context, t Target, questionID string) (*models.Question, error) {
	detail, err := e.Snapshot(ctx, t)
	if err != nil {
		return nil, err
	}
	if detail.Interview == nil {
		return nil, repositories.ErrInterviewNotFound
	}
	i := detail.Interview.FindQuestion(questionID)
	if i < 0 {
		return nil, ErrQuestionUnknown
	}
	q := detail.Interview.Questions[i]
	return &q, nil
}
