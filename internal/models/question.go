package models

import (
	"fmt"
	"strings"
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DifficultyPolicy holds the per-difficulty timer and point ceiling.
type DifficultyPolicy struct {
	DurationSec int
	MaxPoints   int
}

var difficultyPolicies = map[Difficulty]DifficultyPolicy{
	DifficultyEasy:   {DurationSec: 20, MaxPoints: 10},
	DifficultyMedium: {DurationSec: 60, MaxPoints: 15},
	DifficultyHard:   {DurationSec: 120, MaxPoints: 25},
}

// QuestionTemplate is the difficulty of each slot of an interview, in order.
var QuestionTemplate = [QuestionsPerInterview]Difficulty{
	DifficultyEasy, DifficultyEasy,
	DifficultyMedium, DifficultyMedium,
	DifficultyHard, DifficultyHard,
}

// ParseDifficulty accepts any casing of easy, medium or hard.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := difficultyPolicies[d]; !ok {
		return "", fmt.Errorf("unknown difficulty: %q", s)
	}
	return d, nil
}

// Policy returns the timer and point ceiling for d. Unknown values fall back to medium.
func (d Difficulty) Policy() DifficultyPolicy {
	if p, ok := difficultyPolicies[d]; ok {
		return p
	}
	return difficultyPolicies[DifficultyMedium]
}

type Question struct {
	ID            string     `json:"id"`
	Difficulty    Difficulty `json:"difficulty"`
	Text          string     `json:"text"`
	DurationSec   int        `json:"durationSec"`
	MaxPoints     int        `json:"maxPoints,omitempty"`
	StartedAt     *time.Time `json:"startedAt,omitempty"`
	EndedAt       *time.Time `json:"endedAt,omitempty"`
	Answer        *string    `json:"answer,omitempty"`
	AutoSubmitted bool       `json:"autoSubmitted,omitempty"`
	Score         *int       `json:"score,omitempty"`
	Points        *int       `json:"points,omitempty"`
	Feedback      *string    `json:"feedback,omitempty"`
}

// NewQuestion builds a question whose duration and points derive from difficulty.
func NewQuestion(id string, difficulty Difficulty, text string) Question {
	policy := difficulty.Policy()
	return Question{
		ID:          id,
		Difficulty:  difficulty,
		Text:        text,
		DurationSec: policy.DurationSec,
		MaxPoints:   policy.MaxPoints,
	}
}

// Deadline is the instant the question's countdown runs out, or the zero time if unstarted.
func (q *Question) Deadline() time.Time {
	if q.StartedAt == nil {
		return time.Time{}
	}
	return q.StartedAt.Add(time.Duration(q.DurationSec) * time.Second)
}

// Answered reports whether an answer (possibly empty) has been recorded.
func (q *Question) Answered() bool {
	return q.Answer != nil
}

func (q *Question) Graded() bool {
	return q.Score != nil || q.Points != nil
}
