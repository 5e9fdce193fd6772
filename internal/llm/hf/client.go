package hf

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"peerprep/interview/internal/llm"
)

const providerName = "hf"

var (
	unsupportedModelPattern = regexp.MustCompile(`(?i)model_not_supported|not supported by any provider`)
	loadingPattern          = regexp.MustCompile(`(?i)loading`)
)

// Client talks to the OpenAI-compatible Hugging Face router.
type Client struct {
	client *openai.Client
	config *Config
}

func NewClient(config *Config) *Client {
	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = config.BaseURL
	clientConfig.HTTPClient = &http.Client{}
	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}
}

// Chat performs one request. Retry and model fallback are the caller's job.
func (c *Client) Chat(ctx context.Context, req *llm.ChatRequest) (string, error) {
	if c.config.APIKey == "" {
		return "", &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeConfiguration,
			Message:  "missing HF_API_KEY",
		}
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", classifyError(err, req.Model)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeEmptyResponse, Message: "LLM returned empty content", Model: req.Model}
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) Models() []string {
	return c.config.Models()
}

func (c *Client) GetProviderName() string {
	return providerName
}

// classifyError turns a go-openai error into a provider error. Router replies
// carry a status; anything else failed before a reply arrived.
func classifyError(err error, model string) *llm.ProviderError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		detail := apiErr.Message
		if apiErr.Code != nil {
			detail = fmt.Sprintf("%v: %s", apiErr.Code, apiErr.Message)
		}
		return classifyStatus(apiErr.HTTPStatusCode, detail, model)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := string(reqErr.Body)
		if detail == "" && reqErr.Err != nil {
			detail = reqErr.Err.Error()
		}
		return classifyStatus(reqErr.HTTPStatusCode, detail, model)
	}

	if isTimeout(err) {
		return &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeTimeout, Message: "request timed out", Model: model, Err: err}
	}
	return &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeNetwork, Message: "network error calling LLM endpoint", Model: model, Err: err}
}

// classifyStatus maps a non-2xx router reply onto a provider error code.
func classifyStatus(status int, body, model string) *llm.ProviderError {
	body = strings.TrimSpace(body)
	pe := &llm.ProviderError{Provider: providerName, Status: status, Model: model}
	switch {
	case status == http.StatusUnauthorized:
		pe.Code = llm.ErrCodeAPIKey
		pe.Message = "Unauthorized: invalid or missing API key"
	case status == http.StatusBadRequest && unsupportedModelPattern.MatchString(body):
		pe.Code = llm.ErrCodeModelUnsupported
		pe.Message = fmt.Sprintf("model %s is not supported by any provider", model)
	case status == http.StatusServiceUnavailable || status == 524:
		pe.Code = llm.ErrCodeServiceDown
		pe.Message = fmt.Sprintf("router error %d: %s", status, truncate(body, 300))
	case loadingPattern.MatchString(body):
		pe.Code = llm.ErrCodeModelLoading
		pe.Message = "model is loading"
	case status == http.StatusTooManyRequests:
		pe.Code = llm.ErrCodeRateLimit
		pe.Message = fmt.Sprintf("router error %d: %s", status, truncate(body, 300))
	default:
		pe.Code = llm.ErrCodeHTTPStatus
		pe.Message = fmt.Sprintf("router error %d: %s", status, truncate(body, 300))
	}
	return pe
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
