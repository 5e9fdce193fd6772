package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"peerprep/interview/internal/models"
)

type stubVerifier map[string]*models.Identity

func (s stubVerifier) VerifyToken(token string) (*models.Identity, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return nil, errors.New("bad token")
}

var verifier = stubVerifier{
	"interviewer-token": {UserID: "u1", Role: models.RoleInterviewer},
	"interviewee-token": {UserID: "u2", Role: models.RoleInterviewee},
}

func run(h http.Handler, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateOptional(t *testing.T) {
	var partition string
	h := Authenticate(verifier, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		partition = ScopeFrom(r.Context()).Partition()
	}))

	if rec := run(h, ""); rec.Code != http.StatusOK || partition != "ai-interview-guest" {
		t.Fatalf("guest: status=%d partition=%s", rec.Code, partition)
	}
	if rec := run(h, "Bearer interviewee-token"); rec.Code != http.StatusOK || partition != "ai-interview-u2" {
		t.Fatalf("user: status=%d partition=%s", rec.Code, partition)
	}
	if rec := run(h, "Bearer forged"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", rec.Code)
	}
}

func TestAuthenticateRequired(t *testing.T) {
	h := Authenticate(verifier, true)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	if rec := run(h, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := run(h, "Token interviewer-token"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-bearer scheme, got %d", rec.Code)
	}
	if rec := run(h, "Bearer interviewer-token"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	h := Authenticate(verifier, false)(RequireRole(models.RoleInterviewer)(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})))

	cases := map[string]int{
		"":                         http.StatusUnauthorized,
		"Bearer interviewee-token": http.StatusForbidden,
		"Bearer interviewer-token": http.StatusOK,
	}
	for authz, want := range cases {
		if rec := run(h, authz); rec.Code != want {
			t.Fatalf("%q: expected %d, got %d", authz, want, rec.Code)
		}
	}
}
