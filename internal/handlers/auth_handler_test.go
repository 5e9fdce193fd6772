package handlers

import (
	"net/http"
	"testing"

	"peerprep/interview/internal/models"
)

func TestAuthRegisterLoginMe(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, models.RoleInterviewee, "ada@example.org")

	rec := srv.do(t, http.MethodPost, "/auth/register", "", models.RegisterRequest{
		Role: models.RoleInterviewee, Email: "ADA@example.org", Password: "secret123",
	})
	expectStatus(t, rec, http.StatusConflict)

	rec = srv.do(t, http.MethodPost, "/auth/login", "", models.LoginRequest{
		Role: models.RoleInterviewee, Email: "ada@example.org", Password: "wrong-password",
	})
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = srv.do(t, http.MethodPost, "/auth/login", "", models.LoginRequest{
		Role: models.RoleInterviewee, Email: "ada@example.org", Password: "secret123",
	})
	expectStatus(t, rec, http.StatusOK)
	auth := decode[models.AuthResponse](t, rec)
	if auth.Token == "" {
		t.Fatal("expected a token")
	}

	rec = srv.do(t, http.MethodGet, "/auth/me", auth.Token, nil)
	expectStatus(t, rec, http.StatusOK)
	if me := decode[models.PublicUser](t, rec); me.Email != "ada@example.org" || me.Role != models.RoleInterviewee {
		t.Errorf("unexpected user: %+v", me)
	}

	expectStatus(t, srv.do(t, http.MethodGet, "/auth/me", "", nil), http.StatusUnauthorized)
	expectStatus(t, srv.do(t, http.MethodGet, "/auth/me", "not-a-token", nil), http.StatusUnauthorized)
	expectStatus(t, srv.do(t, http.MethodPost, "/auth/logout", auth.Token, nil), http.StatusNoContent)
}

func TestAuthRegisterValidation(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/auth/register", "", models.RegisterRequest{
		Role: "admin", Email: "ada@example.org", Password: "secret123",
	})
	expectStatus(t, rec, http.StatusBadRequest)
	if got := decode[models.ErrorResponse](t, rec); got.Code != "invalid_role" {
		t.Errorf("expected code invalid_role, got %q", got.Code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := srv.register(t, models.RoleInterviewer, "lead@corp.io")
	srv.createTest(t, token, "GO-101")

	rec := srv.do(t, http.MethodGet, "/session", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[models.SessionResponse](t, rec); got.User != nil || got.CurrentTestID != "" {
		t.Errorf("expected an empty guest session, got %+v", got)
	}

	expectStatus(t, srv.do(t, http.MethodPut, "/session/test", "", models.SetTestRequest{TestID: "NOPE"}), http.StatusNotFound)
	expectStatus(t, srv.do(t, http.MethodPut, "/session/test", "", models.SetTestRequest{TestID: "GO-101"}), http.StatusNoContent)

	rec = srv.do(t, http.MethodGet, "/session", "", nil)
	if got := decode[models.SessionResponse](t, rec); got.CurrentTestID != "GO-101" {
		t.Errorf("expected current test GO-101, got %q", got.CurrentTestID)
	}

	rec = srv.do(t, http.MethodGet, "/session", token, nil)
	expectStatus(t, rec, http.StatusOK)
	got := decode[models.SessionResponse](t, rec)
	if got.User == nil || got.User.Email != "lead@corp.io" {
		t.Fatalf("expected the signed-in user, got %+v", got.User)
	}
	if got.CurrentTestID != "" {
		t.Errorf("signed-in session must not see the guest test, got %q", got.CurrentTestID)
	}
}

func TestDashboardRequiresInterviewer(t *testing.T) {
	srv := newTestServer(t)
	interviewee := srv.register(t, models.RoleInterviewee, "ada@example.org")

	expectStatus(t, srv.do(t, http.MethodGet, "/tests", "", nil), http.StatusUnauthorized)
	expectStatus(t, srv.do(t, http.MethodGet, "/tests", interviewee, nil), http.StatusForbidden)
	expectStatus(t, srv.do(t, http.MethodGet, "/candidates", interviewee, nil), http.StatusForbidden)
}

func TestDashboardCandidates(t *testing.T) {
	srv := newTestServer(t)
	token := srv.register(t, models.RoleInterviewer, "lead@corp.io")
	srv.createTest(t, token, "GO-101")
	srv.createTest(t, token, "GO-202")

	rec := srv.do(t, http.MethodPost, "/tests", token, models.CreateTestRequest{ID: "GO-101"})
	expectStatus(t, rec, http.StatusConflict)

	for _, c := range []struct{ test, name, email string }{
		{"GO-101", "Ada Lovelace", "ada@example.org"},
		{"GO-202", "Grace Hopper", "grace@example.org"},
	} {
		rec := srv.do(t, http.MethodPost, "/tests/"+c.test+"/candidates", "", models.CandidateProfileRequest{
			Name: c.name, Email: c.email, Phone: "555-123-4567",
		})
		expectStatus(t, rec, http.StatusCreated)
	}

	rec = srv.do(t, http.MethodGet, "/candidates?testId=GO-202", token, nil)
	expectStatus(t, rec, http.StatusOK)
	list := decode[struct {
		Items []models.CandidateProfile `json:"items"`
		Total int                       `json:"total"`
	}](t, rec)
	if list.Total != 1 || list.Items[0].Name != "Grace Hopper" {
		t.Fatalf("unexpected candidates: %+v", list)
	}
	graceID := list.Items[0].ID

	rec = srv.do(t, http.MethodGet, "/candidates?q=ada", token, nil)
	if list := decode[struct {
		Total int `json:"total"`
	}](t, rec); list.Total != 1 {
		t.Errorf("expected one match for ada, got %d", list.Total)
	}

	rec = srv.do(t, http.MethodPost, "/candidates/"+graceID+"/reset", token, nil)
	expectStatus(t, rec, http.StatusOK)
	if c := decode[models.CandidateProfile](t, rec); c.Status != models.StatusInProgress {
		t.Errorf("expected reset candidate to be %q, got %q", models.StatusInProgress, c.Status)
	}

	expectStatus(t, srv.do(t, http.MethodDelete, "/candidates/"+graceID, token, nil), http.StatusNoContent)
	expectStatus(t, srv.do(t, http.MethodGet, "/candidates/"+graceID, token, nil), http.StatusNotFound)

	expectStatus(t, srv.do(t, http.MethodDelete, "/tests/GO-101", token, nil), http.StatusNoContent)
	expectStatus(t, srv.do(t, http.MethodGet, "/tests/GO-101/status", "", nil), http.StatusNotFound)

	rec = srv.do(t, http.MethodGet, "/tests", token, nil)
	if list := decode[struct {
		Total int `json:"total"`
	}](t, rec); list.Total != 1 {
		t.Errorf("expected one remaining test, got %d", list.Total)
	}
}
