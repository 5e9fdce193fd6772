package llm

import (
	"context"
	"errors"
	"strconv"
)

// Message is a single chat-completions turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatRequest is one attempt against one model.
type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// defines the interface for LLM providers
type Provider interface {
	// Chat performs a single attempt and returns the first choice's content.
	Chat(ctx context.Context, req *ChatRequest) (string, error)
	// Models lists candidate models, primary first.
	Models() []string
	GetProviderName() string
}

// represents an error from an LLM provider
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Status   int
	Model    string
	Err      error
}

func (e *ProviderError) Error() string {
	msg := e.Provider + " error: " + e.Message
	if e.Status != 0 {
		msg += " [status " + strconv.Itoa(e.Status) + "]"
	}
	if e.Err != nil {
		msg += " (" + e.Err.Error() + ")"
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeAPIKey           = "invalid_api_key"
	ErrCodeRateLimit        = "rate_limit_exceeded"
	ErrCodeServiceDown      = "service_unavailable"
	ErrCodeInvalidInput     = "invalid_input"
	ErrCodeTimeout          = "timeout"
	ErrCodeModelUnsupported = "model_not_supported"
	ErrCodeModelLoading     = "model_loading"
	ErrCodeEmptyResponse    = "empty_response"
	ErrCodeNetwork          = "network_error"
	ErrCodeHTTPStatus       = "router_error"
	ErrCodeConfiguration    = "configuration_error"
)

// CodeOf returns the provider error code carried by err, or "".
func CodeOf(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsConfigurationError reports errors that retrying cannot fix and that should
// be shown to the user verbatim.
func IsConfigurationError(err error) bool {
	switch CodeOf(err) {
	case ErrCodeAPIKey, ErrCodeConfiguration:
		return true
	}
	return false
}

// IsRetriable reports transient failures worth another attempt on the same model.
func IsRetriable(err error) bool {
	switch CodeOf(err) {
	case ErrCodeTimeout, ErrCodeServiceDown, ErrCodeModelLoading:
		return true
	}
	return false
}
