package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/services"
	"peerprep/interview/internal/utils"
)

// TestHandler manages the interviewer's test codes and the public status lookup.
type TestHandler struct {
	tests  *services.TestService
	logger *zap.Logger
}

func NewTestHandler(tests *services.TestService, logger *zap.Logger) *TestHandler {
	return &TestHandler{tests: tests, logger: logger}
}

// ownerID is the signed-in interviewer. Routes using it sit behind RequireRole.
func ownerID(r *http.Request) string {
	identity, _ := middleware.IdentityFrom(r.Context())
	if identity == nil {
		return ""
	}
	return identity.UserID
}

func testIDParam(r *http.Request) string {
	return utils.NormalizeTestID(chi.URLParam(r, "testId"))
}

func (h *TestHandler) ListTestsHandler(w http.ResponseWriter, r *http.Request) {
	tests, err := h.tests.List(r.Context(), ownerID(r))
	if err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to list tests")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"items": tests,
		"total": len(tests),
	})
}

func (h *TestHandler) CreateTestHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CreateTestRequest](r)

	def, err := h.tests.Create(r.Context(), ownerID(r), req)
	if err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to create test")
		return
	}
	utils.RequestLogger(h.logger, r).Info("Test created", zap.String("test_id", def.ID))
	utils.JSON(w, http.StatusCreated, def)
}

func (h *TestHandler) UpdateTestHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.UpdateTestRequest](r)

	def, err := h.tests.Update(r.Context(), ownerID(r), testIDParam(r), req)
	if err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to update test")
		return
	}
	utils.JSON(w, http.StatusOK, def)
}

func (h *TestHandler) DeleteTestHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.tests.Delete(r.Context(), ownerID(r), testIDParam(r)); err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to delete test")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TestHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	status, err := h.tests.Status(r.Context(), testIDParam(r))
	if err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to look up test")
		return
	}
	utils.JSON(w, http.StatusOK, status)
}
