package models

import (
	"testing"
	"time"
)

func TestRegisterRequestValidate(t *testing.T) {
	tests := []struct {
		name     string
		req      RegisterRequest
		wantCode string
	}{
		{"valid", RegisterRequest{Role: RoleInterviewer, Email: "a@b.co", Password: "secret1"}, ""},
		{"bad role", RegisterRequest{Role: "admin", Email: "a@b.co", Password: "secret1"}, "invalid_role"},
		{"missing email", RegisterRequest{Role: RoleInterviewee, Password: "secret1"}, "missing_email"},
		{"bad email", RegisterRequest{Role: RoleInterviewee, Email: "nope", Password: "secret1"}, "invalid_email"},
		{"short password", RegisterRequest{Role: RoleInterviewee, Email: "a@b.co", Password: "x"}, "invalid_password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			assertErrorCode(t, err, tt.wantCode)
		})
	}
}

func TestCandidateProfileRequestValidate(t *testing.T) {
	req := &CandidateProfileRequest{Name: "  Ada Lovelace ", Email: "ada@example.com", Phone: " 555-123-4567 "}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
	if req.Name != "Ada Lovelace" || req.Phone != "555-123-4567" {
		t.Fatalf("expected trimmed fields, got %+v", req)
	}

	assertErrorCode(t, (&CandidateProfileRequest{Email: "ada@example.com", Phone: "1"}).Validate(), "missing_name")
	assertErrorCode(t, (&CandidateProfileRequest{Name: "Ada", Email: "ada@example.com"}).Validate(), "missing_phone")
}

func TestUpdateTestRequestValidate(t *testing.T) {
	assertErrorCode(t, (&UpdateTestRequest{}).Validate(), "empty_update")

	expiry := time.Now().Add(time.Hour)
	assertErrorCode(t, (&UpdateTestRequest{ExpiresAt: &expiry, ClearExpiry: true}).Validate(), "conflicting_expiry")

	active := false
	assertErrorCode(t, (&UpdateTestRequest{Active: &active}).Validate(), "")
}

func TestEndInterviewRequestDefaultsReason(t *testing.T) {
	req := &EndInterviewRequest{}
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Reason != EndReasonManual {
		t.Fatalf("expected default reason %q, got %q", EndReasonManual, req.Reason)
	}
	assertErrorCode(t, (&EndInterviewRequest{Reason: "bored"}).Validate(), "invalid_reason")
}

func TestCreateTestRequestValidate(t *testing.T) {
	assertErrorCode(t, (&CreateTestRequest{}).Validate(), "")
	assertErrorCode(t, (&CreateTestRequest{ID: "ab"}).Validate(), "invalid_test_id")
	assertErrorCode(t, (&CreateTestRequest{ID: "has space"}).Validate(), "invalid_test_id")
	assertErrorCode(t, (&CreateTestRequest{ID: "SPRING-24"}).Validate(), "")
}

func TestTestDefinitionIsOpen(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	cases := []struct {
		name string
		def  *TestDefinition
		want bool
	}{
		{"nil", nil, false},
		{"inactive", &TestDefinition{Active: false}, false},
		{"active no expiry", &TestDefinition{Active: true}, true},
		{"active future expiry", &TestDefinition{Active: true, ExpiresAt: &future}, true},
		{"active expired", &TestDefinition{Active: true, ExpiresAt: &past}, false},
		{"expires exactly now", &TestDefinition{Active: true, ExpiresAt: &now}, false},
	}
	for _, c := range cases {
		if got := c.def.IsOpen(now); got != c.want {
			t.Fatalf("%s: expected %v, got %v", c.name, c.want, got)
		}
	}
}

func assertErrorCode(t *testing.T, err error, want string) {
	t.Helper()
	if want == "" {
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		return
	}
	resp, ok := err.(*ErrorResponse)
	if !ok {
		t.Fatalf("expected *ErrorResponse with code %q, got %v", want, err)
	}
	if resp.Code != want {
		t.Fatalf("expected code %q, got %q", want, resp.Code)
	}
}
