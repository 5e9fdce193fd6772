package models

import "time"

type InterviewEventType string

const (
	EventInterviewCompleted InterviewEventType = "interview.completed"
)

// InterviewEvent is published once a candidate's interview has been finalized.
type InterviewEvent struct {
	EventType   InterviewEventType `json:"eventType"`
	OwnerID     string             `json:"ownerId"`
	TestID      string             `json:"testId"`
	CandidateID string             `json:"candidateId"`
	Name        string             `json:"name,omitempty"`
	Email       string             `json:"email,omitempty"`
	FinalScore  int                `json:"finalScore"`
	Summary     string             `json:"summary"`
	EndReason   string             `json:"endReason,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
}
