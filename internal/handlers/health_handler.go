package handlers

import (
	"context"
	"net/http"
	"time"

	"peerprep/interview/internal/config"
	"peerprep/interview/internal/llm"
	"peerprep/interview/internal/prompts"
	"peerprep/interview/internal/store"
	"peerprep/interview/internal/utils"
)

const (
	serviceName       = "interview"
	storeCheckTimeout = 2 * time.Second
)

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"` // "ready" | "not_ready"
	Service string                    `json:"service"`
	Checks  map[string]ReadinessCheck `json:"checks"`
}

type HealthHandler struct {
	provider      llm.Provider
	promptManager prompts.PromptProvider
	backend       store.Backend
	config        *config.Config
}

func NewHealthHandler(provider llm.Provider, promptManager prompts.PromptProvider, backend store.Backend, cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		provider:      provider,
		promptManager: promptManager,
		backend:       backend,
		config:        cfg,
	}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
		"version": "1.0.0",
	})
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	checks := map[string]ReadinessCheck{
		"provider":       handler.checkProvider(),
		"prompt_manager": handler.checkPrompts(),
		"store":          handler.checkStore(request.Context()),
		"configuration":  handler.checkConfig(),
	}

	response := ReadinessResponse{
		Status:  "ready",
		Service: serviceName,
		Checks:  checks,
	}
	for _, check := range checks {
		if check.Status != "ok" {
			response.Status = "not_ready"
			utils.JSON(writer, http.StatusServiceUnavailable, response)
			return
		}
	}
	utils.JSON(writer, http.StatusOK, response)
}

func (handler *HealthHandler) checkProvider() ReadinessCheck {
	if handler.provider == nil {
		return failed("AI provider not initialized")
	}
	return ReadinessCheck{Status: "ok"}
}

// prompt manager must have the question, score and summary templates loaded
func (handler *HealthHandler) checkPrompts() ReadinessCheck {
	if handler.promptManager == nil {
		return failed("Prompt manager not initialized")
	}
	templates := handler.promptManager.GetTemplates()
	for _, mode := range []string{"questions", "score", "summary"} {
		if len(templates[mode]) == 0 {
			return failed("Missing prompt templates for " + mode)
		}
	}
	return ReadinessCheck{Status: "ok"}
}

func (handler *HealthHandler) checkStore(ctx context.Context) ReadinessCheck {
	if handler.backend == nil {
		return failed("Store not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, storeCheckTimeout)
	defer cancel()
	if _, err := handler.backend.Keys(ctx, store.GlobalKey("")); err != nil {
		return failed("Store unreachable: " + err.Error())
	}
	return ReadinessCheck{Status: "ok"}
}

func (handler *HealthHandler) checkConfig() ReadinessCheck {
	if handler.config == nil {
		return failed("Configuration not loaded")
	}
	return ReadinessCheck{Status: "ok"}
}

func failed(message string) ReadinessCheck {
	return ReadinessCheck{Status: "failed", Message: message}
}
