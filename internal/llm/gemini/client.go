package gemini

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"peerprep/interview/internal/llm"
)

const rateLimitStatus = "RESOURCE_EXHAUSTED"

var (
	statusPattern = regexp.MustCompile(`(?i)\berror (\d{3})\b`)
	apiKeyPattern = regexp.MustCompile(`(?i)API_KEY_INVALID|api key not valid|UNAUTHENTICATED|PERMISSION_DENIED`)
)

// Client represents a Gemini LLM client
type Client struct {
	client *genai.Client
	config *Config
}

func NewClient(config *Config) (*Client, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeAPIKey,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}

	return &Client{
		client: client,
		config: config,
	}, nil
}

// Chat flattens the conversation into a single prompt and asks Gemini for a reply.
func (c *Client) Chat(ctx context.Context, req *llm.ChatRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.config.Model
	}

	result, err := c.client.Models.GenerateContent(
		ctx,
		model,
		genai.Text(flattenMessages(req.Messages)),
		nil,
	)
	if err != nil {
		return "", classifyError(ctx, err, model)
	}

	if result == nil {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeEmptyResponse,
			Message:  "No response generated",
			Model:    model,
		}
	}

	text, err := result.Text()
	if err != nil {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Failed to extract response text",
			Model:    model,
			Err:      err,
		}
	}
	if text == "" {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeEmptyResponse,
			Message:  "Empty response generated",
			Model:    model,
		}
	}
	return text, nil
}

func (c *Client) Models() []string {
	return []string{c.config.Model}
}

func (c *Client) GetProviderName() string {
	return "gemini"
}

// classifyError maps a genai failure onto a provider error code. Gemini
// reports a bad key as 400 API_KEY_INVALID as well as 401/403.
func classifyError(ctx context.Context, err error, model string) *llm.ProviderError {
	pe := &llm.ProviderError{
		Provider: "gemini",
		Code:     llm.ErrCodeServiceDown,
		Message:  "Failed to generate content",
		Model:    model,
		Err:      err,
	}
	if ctx.Err() != nil {
		pe.Code = llm.ErrCodeTimeout
		return pe
	}

	text := err.Error()
	if m := statusPattern.FindStringSubmatch(text); m != nil {
		pe.Status, _ = strconv.Atoi(m[1])
	}
	switch {
	case pe.Status == 401 || pe.Status == 403 || apiKeyPattern.MatchString(text):
		pe.Code = llm.ErrCodeAPIKey
		pe.Message = "Gemini rejected the API key"
	case pe.Status == 429 || strings.Contains(text, rateLimitStatus):
		pe.Code = llm.ErrCodeRateLimit
		pe.Message = "Gemini rate limit exceeded"
	case pe.Status == 404:
		pe.Code = llm.ErrCodeModelUnsupported
		pe.Message = "Gemini model " + model + " is not available"
	case pe.Status >= 400 && pe.Status < 500:
		pe.Code = llm.ErrCodeInvalidInput
	}
	return pe
}

// flattenMessages renders system instructions first, then the remaining turns.
func flattenMessages(messages []llm.Message) string {
	var system, turns []string
	for _, m := range messages {
		if m.Role == llm.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m.Content)
	}

	var b strings.Builder
	if len(system) > 0 {
		b.WriteString(strings.Join(system, "\n"))
		b.WriteString("\n\n")
	}
	b.WriteString(strings.Join(turns, "\n\n"))
	return b.String()
}
