// Package session implements the interview state machine and its persistence.
package session

import (
	"errors"
	"fmt"
	"time"

	"peerprep/interview/internal/models"
)

var (
	// ErrQuestionCount is a configuration error: an interview needs exactly six questions.
	ErrQuestionCount   = errors.New("interview requires exactly 6 questions")
	ErrQuestionUnknown = errors.New("question not found in interview")
)

// State is the lifecycle position of an interview.
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateComplete   State = "complete"
)

// StateOf derives the lifecycle state from the interview's fields.
func StateOf(iv *models.Interview) State {
	switch {
	case iv == nil:
		return StateNotStarted
	case iv.Complete:
		return StateComplete
	case iv.CurrentIndex == 0 && (len(iv.Questions) == 0 || iv.Questions[0].StartedAt == nil):
		return StateNotStarted
	default:
		return StateInProgress
	}
}

// NewInterview builds a fresh interview over the given questions.
func NewInterview(questions []models.Question, meta models.InterviewMeta, now time.Time) (*models.Interview, error) {
	if len(questions) != models.QuestionsPerInterview {
		return nil, fmt.Errorf("%w: got %d", ErrQuestionCount, len(questions))
	}
	qs := make([]models.Question, len(questions))
	copy(qs, questions)
	return &models.Interview{
		Questions:    qs,
		CurrentIndex: 0,
		Complete:     false,
		CreatedAt:    now,
		JobRole:      meta.JobRole,
		TestID:       meta.TestID,
		Source:       meta.Source,
	}, nil
}

// StartQuestion stamps startedAt, overwriting any earlier value.
func StartQuestion(iv *models.Interview, questionID string, at time.Time) error {
	i := iv.FindQuestion(questionID)
	if i < 0 {
		return ErrQuestionUnknown
	}
	started := at
	iv.Questions[i].StartedAt = &started
	return nil
}

// AnswerQuestion records an answer by id. The interview advances only when the
// answered question is the current one; it reports whether it advanced.
func AnswerQuestion(iv *models.Interview, questionID, answer string, autoSubmitted bool, at time.Time) (bool, error) {
	i := iv.FindQuestion(questionID)
	if i < 0 {
		return false, ErrQuestionUnknown
	}
	q := &iv.Questions[i]
	text := answer
	ended := at
	q.Answer = &text
	q.EndedAt = &ended
	q.AutoSubmitted = autoSubmitted

	if i != iv.CurrentIndex {
		return false, nil
	}
	iv.CurrentIndex++
	if iv.CurrentIndex == len(iv.Questions) {
		iv.Complete = true
		iv.EndedAt = &ended
		iv.EndReason = models.EndReasonAnswered
	}
	return true, nil
}

// SetGrading attaches a grade by id and never touches sequencing, so late
// grades land on the right question.
func SetGrading(iv *models.Interview, questionID string, score int, feedback string, points *int) error {
	i := iv.FindQuestion(questionID)
	if i < 0 {
		return ErrQuestionUnknown
	}
	q := &iv.Questions[i]
	s := score
	fb := feedback
	q.Score = &s
	q.Feedback = &fb
	if points != nil {
		p := *points
		q.Points = &p
	} else {
		q.Points = nil
	}
	return nil
}

// EndInterview terminates early: every question that was started but never
// ended is closed at now, partial answers are kept.
func EndInterview(iv *models.Interview, reason string, at time.Time) {
	for i := range iv.Questions {
		q := &iv.Questions[i]
		if q.StartedAt != nil && q.EndedAt == nil {
			ended := at
			q.EndedAt = &ended
		}
	}
	iv.CurrentIndex = len(iv.Questions)
	iv.Complete = true
	if iv.EndedAt == nil {
		ended := at
		iv.EndedAt = &ended
	}
	if iv.EndReason == "" {
		iv.EndReason = reason
	}
}

// Resumable reports whether a persisted interview should offer a resume prompt.
func Resumable(iv *models.Interview) bool {
	return iv != nil && !iv.Complete
}
