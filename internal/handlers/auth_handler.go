package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/services"
	"peerprep/interview/internal/utils"
)

// AuthHandler manages authentication endpoints.
type AuthHandler struct {
	auth   *services.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.RegisterRequest](r)

	resp, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to register account")
		return
	}
	utils.JSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.LoginRequest](r)

	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to sign in")
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	if err := h.auth.Logout(r.Context(), identity); err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to sign out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "unauthorized", "Sign in required")
		return
	}
	user, err := h.auth.Me(r.Context(), identity)
	if err != nil {
		writeError(w, utils.RequestLogger(h.logger, r), err, "Failed to load account")
		return
	}
	utils.JSON(w, http.StatusOK, user)
}
