package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"peerprep/interview/internal/event"
	"peerprep/interview/internal/llm"
	"peerprep/interview/internal/metrics"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"
	"peerprep/interview/internal/session"
	"peerprep/interview/internal/timer"
)

const autoSubmitTimeout = 90 * time.Second

// Interview lifecycle events
const (
	eventStarted       = "started"
	eventAnswered      = "answered"
	eventAutoSubmitted = "auto_submitted"
	eventEnded         = "ended"
	eventCompleted     = "completed"
	eventScoreFallback = "score_fallback"
)

// InterviewGateway is the LLM side of an interview. *gateway.Gateway satisfies it.
type InterviewGateway interface {
	GenerateQuestions(ctx context.Context, jobRole, jobDescription string) ([]models.Question, error)
	ScoreAnswer(ctx context.Context, q *models.Question, answer string) (models.Grade, error)
	FinalizeCandidate(ctx context.Context, profile *models.CandidateProfile, questions []models.Question) (int, string)
}

// InterviewService drives a candidate through the six questions: generation,
// timed answers, scoring and the final summary.
type InterviewService struct {
	tests     *TestService
	engine    *session.Engine
	gateway   InterviewGateway
	timers    *timer.Scheduler
	publisher event.Publisher
	logger    *zap.Logger
}

// NewInterviewService wires the service and installs it as the timers' expire callback.
func NewInterviewService(tests *TestService, engine *session.Engine, gw InterviewGateway, timers *timer.Scheduler, publisher event.Publisher, logger *zap.Logger) *InterviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = event.NewMockPublisher()
	}
	s := &InterviewService{
		tests:     tests,
		engine:    engine,
		gateway:   gw,
		timers:    timers,
		publisher: publisher,
		logger:    logger,
	}
	timers.SetExpireFunc(s.autoSubmit)
	return s
}

func (s *InterviewService) target(ctx context.Context, testID, candidateID string) (session.Target, *models.TestDefinition, error) {
	owner, def, err := s.tests.Resolve(ctx, testID)
	if err != nil {
		return session.Target{}, nil, err
	}
	return session.Target{OwnerID: owner, TestID: testID, CandidateID: candidateID}, def, nil
}

func timerKey(t session.Target) timer.Key {
	return timer.Key{OwnerID: t.OwnerID, TestID: t.TestID, CandidateID: t.CandidateID}
}

// Start generates a fresh question set and replaces any previous interview.
func (s *InterviewService) Start(ctx context.Context, testID, candidateID string) (*models.InterviewResponse, error) {
	t, def, err := s.target(ctx, testID, candidateID)
	if err != nil {
		return nil, err
	}
	if !def.IsOpen(s.engine.Now()) {
		return nil, session.ErrTestClosed
	}
	detail, err := s.engine.Snapshot(ctx, t)
	if err != nil {
		return nil, err
	}

	questions, err := s.gateway.GenerateQuestions(ctx, detail.Candidate.JobRole, def.JobDescription)
	if err != nil {
		return nil, err
	}

	source := models.SourceForm
	if detail.Candidate.ResumeFileName != "" {
		source = models.SourceResume
	}
	s.timers.Disarm(timerKey(t), "")
	if _, err := s.engine.InitInterview(ctx, t, questions, models.InterviewMeta{
		JobRole: detail.Candidate.JobRole,
		TestID:  testID,
		Source:  source,
	}); err != nil {
		return nil, err
	}
	metrics.InterviewEvent(eventStarted)
	return s.Get(ctx, testID, candidateID)
}

// Get returns the persisted interview and transcript. A question whose
// countdown was lost (for example across a restart) is re-armed so it still
// auto-submits at its original deadline.
func (s *InterviewService) Get(ctx context.Context, testID, candidateID string) (*models.InterviewResponse, error) {
	t, def, err := s.target(ctx, testID, candidateID)
	if err != nil {
		return nil, err
	}
	detail, err := s.engine.Snapshot(ctx, t)
	if err != nil {
		return nil, err
	}
	if detail.Interview == nil {
		return nil, repositories.ErrInterviewNotFound
	}
	if def.IsOpen(s.engine.Now()) {
		s.rearm(t, detail.Interview)
	}
	return &models.InterviewResponse{
		CandidateID: candidateID,
		Interview:   detail.Interview,
		Messages:    detail.Messages,
	}, nil
}

func (s *InterviewService) rearm(t session.Target, iv *models.Interview) {
	q := iv.CurrentQuestion()
	if q == nil || q.StartedAt == nil || q.Answered() {
		return
	}
	if _, _, ok := s.timers.Pending(timerKey(t)); ok {
		return
	}
	s.timers.Arm(timerKey(t), q.ID, q.Deadline())
}

// StartQuestion stamps the question and arms its countdown.
func (s *InterviewService) StartQuestion(ctx context.Context, testID, candidateID, questionID string) (*models.InterviewResponse, error) {
	t, _, err := s.target(ctx, testID, candidateID)
	if err != nil {
		return nil, err
	}
	iv, err := s.engine.StartQuestion(ctx, t, questionID)
	if err != nil {
		return nil, err
	}
	if i := iv.FindQuestion(questionID); i >= 0 && i == iv.CurrentIndex && !iv.Questions[i].Answered() {
		s.timers.Arm(timerKey(t), questionID, iv.Questions[i].Deadline())
	}
	return &models.InterviewResponse{CandidateID: candidateID, Interview: iv}, nil
}

// SaveDraft keeps the in-progress answer so it can be auto-submitted.
func (s *InterviewService) SaveDraft(ctx context.Context, testID, candidateID, questionID, text string) error {
	t, _, err := s.target(ctx, testID, candidateID)
	if err != nil {
		return err
	}
	if !s.timers.SetDraft(timerKey(t), questionID, text) {
		return ErrNoActiveQuestion
	}
	return nil
}

// SubmitAnswer records the answer, grades it and, on the last question,
// finalizes the candidate.
func (s *InterviewService) SubmitAnswer(ctx context.Context, testID, candidateID, questionID, answer string, autoSubmitted bool) (*models.AnswerResponse, error) {
	t, _, err := s.target(ctx, testID, candidateID)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, t, questionID, answer, autoSubmitted, false)
}

// submit records and grades one answer. expired marks the countdown path,
// the only one allowed past a closed test.
func (s *InterviewService) submit(ctx context.Context, t session.Target, questionID, answer string, autoSubmitted, expired bool) (*models.AnswerResponse, error) {
	var (
		iv       *models.Interview
		advanced bool
		err      error
	)
	if expired {
		iv, advanced, err = s.engine.ExpireQuestion(ctx, t, questionID, answer)
	} else {
		iv, advanced, err = s.engine.AnswerQuestion(ctx, t, questionID, answer, autoSubmitted)
	}
	if err != nil {
		return nil, err
	}
	s.timers.Disarm(timerKey(t), questionID)

	if autoSubmitted {
		metrics.InterviewEvent(eventAutoSubmitted)
	} else {
		metrics.InterviewEvent(eventAnswered)
	}

	resp := &models.AnswerResponse{CandidateID: t.CandidateID}
	q := iv.Questions[iv.FindQuestion(questionID)]
	grade, scoreErr := s.gateway.ScoreAnswer(ctx, &q, answer)
	if scoreErr != nil {
		metrics.InterviewEvent(eventScoreFallback)
		s.logger.Warn("scoring failed, default grade applied",
			zap.String("candidate_id", t.CandidateID),
			zap.String("question_id", questionID),
			zap.Error(scoreErr))
		grade.Fallback = true
		if llm.IsConfigurationError(scoreErr) {
			resp.Warning = scoreErr.Error()
		}
	}
	grade.QuestionID = questionID
	resp.Grade = &grade

	iv, err = s.engine.SetGrading(ctx, t, grade)
	if err != nil {
		return nil, err
	}
	resp.Interview = iv

	if advanced && iv.Complete {
		if err := s.finalize(ctx, t, resp); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// End terminates the interview early and finalizes with the answers so far.
func (s *InterviewService) End(ctx context.Context, testID, candidateID, reason string) (*models.AnswerResponse, error) {
	t, _, err := s.target(ctx, testID, candidateID)
	if err != nil {
		return nil, err
	}
	s.timers.Disarm(timerKey(t), "")
	iv, err := s.engine.EndInterview(ctx, t, reason)
	if err != nil {
		return nil, err
	}
	metrics.InterviewEvent(eventEnded)

	resp := &models.AnswerResponse{CandidateID: candidateID, Interview: iv}
	if err := s.finalize(ctx, t, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *InterviewService) finalize(ctx context.Context, t session.Target, resp *models.AnswerResponse) error {
	detail, err := s.engine.Snapshot(ctx, t)
	if err != nil {
		return err
	}
	if detail.Interview.FinalizedAt != nil {
		resp.FinalScore = detail.Candidate.FinalScore
		resp.Summary = detail.Candidate.Summary
		return nil
	}

	finalScore, summary := s.gateway.FinalizeCandidate(ctx, &detail.Candidate, detail.Interview.Questions)
	err = s.engine.Finalize(ctx, t, finalScore, summary)
	if errors.Is(err, session.ErrAlreadyFinalized) {
		return nil
	}
	if err != nil {
		return err
	}
	resp.FinalScore = &finalScore
	resp.Summary = summary
	metrics.InterviewEvent(eventCompleted)

	ev := &models.InterviewEvent{
		EventType:   models.EventInterviewCompleted,
		OwnerID:     t.OwnerID,
		TestID:      t.TestID,
		CandidateID: t.CandidateID,
		Name:        detail.Candidate.Name,
		Email:       detail.Candidate.Email,
		FinalScore:  finalScore,
		Summary:     summary,
		EndReason:   detail.Interview.EndReason,
		Timestamp:   s.engine.Now(),
	}
	if err := s.publisher.PublishInterviewEvent(ctx, ev); err != nil {
		s.logger.Error("failed to publish interview event", zap.String("candidate_id", t.CandidateID), zap.Error(err))
	}
	return nil
}

// autoSubmit runs when a question's countdown expires.
func (s *InterviewService) autoSubmit(exp timer.Expiry) {
	ctx, cancel := context.WithTimeout(context.Background(), autoSubmitTimeout)
	defer cancel()

	t := session.Target{OwnerID: exp.Key.OwnerID, TestID: exp.Key.TestID, CandidateID: exp.Key.CandidateID}
	_, err := s.submit(ctx, t, exp.QuestionID, exp.Draft, true, true)
	if err != nil && !errors.Is(err, session.ErrAlreadyAnswered) {
		s.logger.Error("auto-submit failed",
			zap.String("candidate_id", t.CandidateID),
			zap.String("question_id", exp.QuestionID),
			zap.Error(err))
	}
}
