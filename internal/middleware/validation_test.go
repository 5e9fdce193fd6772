package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"peerprep/interview/internal/models"
)

type mockRequest struct {
	Value string `json:"value"`
}

func (m *mockRequest) Validate() error {
	switch m.Value {
	case "error_response":
		return &models.ErrorResponse{Code: "invalid", Message: "invalid"}
	case "generic_error":
		return errors.New("failed")
	case "":
		m.Value = "defaulted"
	}
	return nil
}

func serve(t *testing.T, body string, next http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	handler := ValidateRequest[*mockRequest]()(next)
	req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestValidateRequestSuccess(t *testing.T) {
	called := false
	rec := serve(t, `{"value":"ok"}`, func(w http.ResponseWriter, r *http.Request) {
		called = true
		if req := GetValidatedRequest[*mockRequest](r); req.Value != "ok" {
			t.Fatalf("expected value ok, got %s", req.Value)
		}
	})
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected handler call with 200, got called=%v status=%d", called, rec.Code)
	}
}

func TestValidateRequestEmptyBody(t *testing.T) {
	called := false
	serve(t, "", func(w http.ResponseWriter, r *http.Request) {
		called = true
		if req := GetValidatedRequest[*mockRequest](r); req.Value != "defaulted" {
			t.Fatalf("expected defaults applied, got %q", req.Value)
		}
	})
	if !called {
		t.Fatal("an empty body should reach the handler")
	}
}

func TestValidateRequestInvalidJSON(t *testing.T) {
	rec := serve(t, `{`, func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid json, got %d", rec.Code)
	}
}

func TestValidateRequestValidationErrors(t *testing.T) {
	for _, value := range []string{"error_response", "generic_error"} {
		t.Run(value, func(t *testing.T) {
			rec := serve(t, `{"value":"`+value+`"}`, func(http.ResponseWriter, *http.Request) {
				t.Fatal("handler must not run")
			})
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 for validation error, got %d", rec.Code)
			}
		})
	}
}

func TestValidateRequestBodyTooLarge(t *testing.T) {
	body := `{"value":"` + strings.Repeat("x", MaxJSONBody) + `"}`
	rec := serve(t, body, func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	})
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}
