package hf

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://router.huggingface.co/v1"
	DefaultModel    = "meta-llama/Llama-3.1-8B-Instruct"
)

// DefaultFallbackModels are tried in order after the configured model is rejected.
var DefaultFallbackModels = []string{
	"meta-llama/Llama-3.1-8B-Instruct",
	"HuggingFaceH4/zephyr-7b-beta",
}

// holds Hugging Face router configuration
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	FallbackModels []string
	Timeout        time.Duration
}

func NewConfig() (*Config, error) {
	apiKey := os.Getenv("HF_API_KEY")
	if apiKey == "" {
		return nil, errors.New("HF_API_KEY environment variable is required")
	}

	baseURL := strings.TrimSuffix(os.Getenv("HF_BASE_URL"), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := os.Getenv("HF_MODEL")
	if model == "" {
		model = DefaultModel
	}

	fallbacks := DefaultFallbackModels
	if raw := os.Getenv("HF_FALLBACK_MODELS"); raw != "" {
		fallbacks = nil
		for _, m := range strings.Split(raw, ",") {
			if m = strings.TrimSpace(m); m != "" {
				fallbacks = append(fallbacks, m)
			}
		}
	}

	timeout := 30 * time.Second
	if raw := os.Getenv("HF_TIMEOUT_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms <= 0 {
			return nil, errors.New("HF_TIMEOUT_MS must be a positive integer")
		}
		timeout = time.Duration(ms) * time.Millisecond
	}

	return &Config{
		APIKey:         apiKey,
		BaseURL:        baseURL,
		Model:          model,
		FallbackModels: fallbacks,
		Timeout:        timeout,
	}, nil
}

// Models returns the configured model followed by the fallbacks, without duplicates.
func (c *Config) Models() []string {
	seen := make(map[string]bool)
	out := make([]string, 0, 1+len(c.FallbackModels))
	for _, m := range append([]string{c.Model}, c.FallbackModels...) {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
