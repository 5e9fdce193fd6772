package models

import "time"

// TestDefinition is an interviewer-issued access code gating interviews.
type TestDefinition struct {
	ID             string     `json:"id"`
	Label          string     `json:"label,omitempty"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"createdAt"`
	CreatedBy      string     `json:"createdBy,omitempty"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	JobDescription string     `json:"jobDescription,omitempty"`
}

// IsOpen reports whether candidates may begin or resume an interview at now.
func (t *TestDefinition) IsOpen(now time.Time) bool {
	if t == nil || !t.Active {
		return false
	}
	return t.ExpiresAt == nil || t.ExpiresAt.After(now)
}

// TestStatus is the interviewee-facing view of a test code.
type TestStatus struct {
	TestID  string     `json:"testId"`
	Label   string     `json:"label,omitempty"`
	Active  bool       `json:"active"`
	Expired bool       `json:"expired"`
	Open    bool       `json:"open"`
	Expires *time.Time `json:"expiresAt,omitempty"`
}

func (t *TestDefinition) Status(now time.Time) TestStatus {
	return TestStatus{
		TestID:  t.ID,
		Label:   t.Label,
		Active:  t.Active,
		Expired: t.ExpiresAt != nil && !t.ExpiresAt.After(now),
		Open:    t.IsOpen(now),
		Expires: t.ExpiresAt,
	}
}
