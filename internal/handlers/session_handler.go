package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/services"
	"peerprep/interview/internal/utils"
)

// SessionHandler serves the per-caller UI session. Guests share one session.
type SessionHandler struct {
	sessions *services.SessionService
	logger   *zap.Logger
}

func NewSessionHandler(sessions *services.SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

func (h *SessionHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	var user *models.PublicUser
	if identity, ok := middleware.IdentityFrom(r.Context()); ok {
		user = &models.PublicUser{
			ID:    identity.UserID,
			Role:  identity.Role,
			Email: identity.Email,
			Name:  identity.Name,
		}
	}

	resp, err := h.sessions.Get(r.Context(), middleware.ScopeFrom(r.Context()), user)
	if err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to load session")
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

func (h *SessionHandler) SetTestHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SetTestRequest](r)

	if err := h.sessions.SetTest(r.Context(), middleware.ScopeFrom(r.Context()), req.TestID); err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to update session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) SetCandidateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SetCandidateRequest](r)

	if err := h.sessions.SetActiveCandidate(r.Context(), middleware.ScopeFrom(r.Context()), req.CandidateID); err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to update session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) DismissWelcomeBackHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.DismissWelcomeBack(r.Context(), middleware.ScopeFrom(r.Context())); err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to update session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
