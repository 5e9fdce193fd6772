package models

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
)

var testCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,32}$`)

type RegisterRequest struct {
	Role     string `json:"role"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	if err := validateRole(r.Role); err != nil {
		return err
	}
	if err := validateEmail(r.Email, true); err != nil {
		return err
	}
	if len(r.Password) < 6 {
		return &ErrorResponse{
			Code:    "invalid_password",
			Message: "Password must be at least 6 characters",
		}
	}
	r.Name = strings.TrimSpace(r.Name)
	return nil
}

type LoginRequest struct {
	Role     string `json:"role"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if err := validateRole(r.Role); err != nil {
		return err
	}
	if err := validateEmail(r.Email, true); err != nil {
		return err
	}
	if r.Password == "" {
		return &ErrorResponse{
			Code:    "missing_password",
			Message: "Password field is required",
		}
	}
	return nil
}

// CandidateProfileRequest is the manual profile form submitted by an interviewee.
type CandidateProfileRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	JobRole string `json:"jobRole"`
}

func (r *CandidateProfileRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.JobRole = strings.TrimSpace(r.JobRole)
	if r.Name == "" {
		return &ErrorResponse{
			Code:    "missing_name",
			Message: "Name field is required",
		}
	}
	if err := validateEmail(r.Email, true); err != nil {
		return err
	}
	if r.Phone == "" {
		return &ErrorResponse{
			Code:    "missing_phone",
			Message: "Phone field is required",
		}
	}
	return nil
}

type CreateTestRequest struct {
	ID             string     `json:"id"`
	Label          string     `json:"label"`
	JobDescription string     `json:"jobDescription"`
	ExpiresAt      *time.Time `json:"expiresAt"`
}

func (r *CreateTestRequest) Validate() error {
	r.ID = strings.TrimSpace(r.ID)
	if r.ID != "" && !testCodePattern.MatchString(r.ID) {
		return &ErrorResponse{
			Code:    "invalid_test_id",
			Message: "Test code must be 3-32 letters, digits, '-' or '_'",
		}
	}
	r.Label = strings.TrimSpace(r.Label)
	return nil
}

// UpdateTestRequest patches a test. Nil fields are left untouched.
type UpdateTestRequest struct {
	Label       *string    `json:"label"`
	Active      *bool      `json:"active"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	ClearExpiry bool       `json:"clearExpiry"`
}

func (r *UpdateTestRequest) Validate() error {
	if r.Label == nil && r.Active == nil && r.ExpiresAt == nil && !r.ClearExpiry {
		return &ErrorResponse{
			Code:    "empty_update",
			Message: "At least one of label, active, expiresAt or clearExpiry is required",
		}
	}
	if r.ExpiresAt != nil && r.ClearExpiry {
		return &ErrorResponse{
			Code:    "conflicting_expiry",
			Message: "expiresAt and clearExpiry cannot be combined",
		}
	}
	return nil
}

type AnswerRequest struct {
	Answer        string `json:"answer"`
	AutoSubmitted bool   `json:"autoSubmitted"`
}

func (r *AnswerRequest) Validate() error {
	if len(r.Answer) > 10000 {
		return &ErrorResponse{
			Code:    "answer_too_long",
			Message: "Answer must be at most 10000 characters",
		}
	}
	return nil
}

type DraftRequest struct {
	Text string `json:"text"`
}

func (r *DraftRequest) Validate() error {
	if len(r.Text) > 10000 {
		return &ErrorResponse{
			Code:    "draft_too_long",
			Message: "Draft must be at most 10000 characters",
		}
	}
	return nil
}

type EndInterviewRequest struct {
	Reason string `json:"reason"`
}

func (r *EndInterviewRequest) Validate() error {
	if r.Reason == "" {
		r.Reason = EndReasonManual
	}
	if r.Reason != EndReasonManual && r.Reason != EndReasonTimeout {
		return &ErrorResponse{
			Code:    "invalid_reason",
			Message: "Reason must be one of: manual, timeout",
		}
	}
	return nil
}

type SetTestRequest struct {
	TestID string `json:"testId"`
}

func (r *SetTestRequest) Validate() error {
	r.TestID = strings.TrimSpace(r.TestID)
	if r.TestID == "" {
		return &ErrorResponse{
			Code:    "missing_test_id",
			Message: "testId field is required",
		}
	}
	return nil
}

type SetCandidateRequest struct {
	CandidateID string `json:"candidateId"`
}

func (r *SetCandidateRequest) Validate() error {
	if strings.TrimSpace(r.CandidateID) == "" {
		return &ErrorResponse{
			Code:    "missing_candidate_id",
			Message: "candidateId field is required",
		}
	}
	return nil
}

func validateRole(role string) error {
	if role != RoleInterviewee && role != RoleInterviewer {
		return &ErrorResponse{
			Code:    "invalid_role",
			Message: "Role must be one of: interviewee, interviewer",
		}
	}
	return nil
}

func validateEmail(email string, required bool) error {
	email = strings.TrimSpace(email)
	if email == "" {
		if !required {
			return nil
		}
		return &ErrorResponse{
			Code:    "missing_email",
			Message: "Email field is required",
		}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &ErrorResponse{
			Code:    "invalid_email",
			Message: "Email address is not valid",
		}
	}
	return nil
}
