package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"peerprep/interview/internal/gateway"
	"peerprep/interview/internal/llm"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"
	"peerprep/interview/internal/resume"
	"peerprep/interview/internal/services"
	"peerprep/interview/internal/session"
	"peerprep/interview/internal/utils"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{repositories.ErrTestNotFound, http.StatusNotFound, "test_not_found"},
	{repositories.ErrCandidateNotFound, http.StatusNotFound, "candidate_not_found"},
	{repositories.ErrInterviewNotFound, http.StatusNotFound, "interview_not_found"},
	{repositories.ErrAccountNotFound, http.StatusNotFound, "account_not_found"},
	{session.ErrQuestionUnknown, http.StatusNotFound, "question_not_found"},
	{repositories.ErrTestExists, http.StatusConflict, "test_exists"},
	{repositories.ErrAccountExists, http.StatusConflict, "account_exists"},
	{session.ErrAlreadyAnswered, http.StatusConflict, "already_answered"},
	{session.ErrAlreadyFinalized, http.StatusConflict, "already_finalized"},
	{session.ErrNotComplete, http.StatusConflict, "not_complete"},
	{services.ErrNoActiveQuestion, http.StatusConflict, "no_active_question"},
	{session.ErrTestClosed, http.StatusForbidden, "test_closed"},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{resume.ErrUnsupportedFormat, http.StatusUnsupportedMediaType, "unsupported_format"},
	{gateway.ErrTooFewQuestions, http.StatusBadGateway, "generation_failed"},
	{session.ErrQuestionCount, http.StatusBadGateway, "generation_failed"},
	{services.ErrTestCodeExhausted, http.StatusServiceUnavailable, "test_code_exhausted"},
}

// writeError maps a service error onto the uniform error body. Unknown errors
// are logged and reported as 500 with fallback as the message.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	var validation *models.ErrorResponse
	if errors.As(err, &validation) {
		utils.JSON(w, http.StatusBadRequest, validation)
		return
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			utils.Error(w, m.status, m.code, err.Error())
			return
		}
	}

	var providerErr *llm.ProviderError
	if errors.As(err, &providerErr) {
		logger.Error("AI provider error", zap.String("code", providerErr.Code), zap.Error(err))
		// misconfiguration is shown as is so it can be told apart from an outage
		if llm.IsConfigurationError(err) {
			utils.Error(w, http.StatusServiceUnavailable, "ai_configuration_error", providerErr.Message)
			return
		}
		utils.Error(w, http.StatusBadGateway, "ai_error", fallback)
		return
	}

	logger.Error(fallback, zap.Error(err))
	utils.Error(w, http.StatusInternalServerError, "internal_error", fallback)
}
