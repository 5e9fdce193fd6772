package models

import (
	"strings"
	"time"
)

type CandidateProfile struct {
	ID             string     `json:"id"`
	Name           string     `json:"name,omitempty"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	JobRole        string     `json:"jobRole,omitempty"`
	ResumeFileName string     `json:"resumeFileName,omitempty"`
	ResumeMimeType string     `json:"resumeMimeType,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	Status         string     `json:"status"`
	FinalScore     *int       `json:"finalScore,omitempty"`
	Summary        string     `json:"summary,omitempty"`
	TestID         string     `json:"testId,omitempty"`
	ExportedAt     *time.Time `json:"exportedAt,omitempty"`
}

// CandidateKey is the composite dedupe key for a candidate within a test.
func CandidateKey(testID, email string) string {
	return testID + "\x00" + strings.ToLower(strings.TrimSpace(email))
}

// SortScore treats a missing final score as -1 for ordering.
func (c *CandidateProfile) SortScore() int {
	if c.FinalScore == nil {
		return -1
	}
	return *c.FinalScore
}

type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// CandidateDetail is a candidate with its transcript and interview, as returned to interviewers.
type CandidateDetail struct {
	Candidate CandidateProfile `json:"candidate"`
	Messages  []ChatMessage    `json:"messages"`
	Interview *Interview       `json:"interview,omitempty"`
}
