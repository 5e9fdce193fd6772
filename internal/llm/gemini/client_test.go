package gemini

import (
	"context"
	"errors"
	"testing"

	"peerprep/interview/internal/llm"
)

func TestFlattenMessages(t *testing.T) {
	got := flattenMessages([]llm.Message{
		{Role: llm.RoleSystem, Content: "be terse"},
		{Role: llm.RoleUser, Content: "Role: SRE"},
	})
	if got != "be terse\n\nRole: SRE" {
		t.Fatalf("unexpected prompt: %q", got)
	}

	if got := flattenMessages([]llm.Message{{Role: llm.RoleUser, Content: "only"}}); got != "only" {
		t.Fatalf("unexpected prompt without system: %q", got)
	}
}

func TestClientModelsAndName(t *testing.T) {
	c := &Client{config: &Config{Model: "gemini-2.5-flash"}}
	if c.GetProviderName() != "gemini" {
		t.Fatalf("unexpected provider name %s", c.GetProviderName())
	}
	if models := c.Models(); len(models) != 1 || models[0] != "gemini-2.5-flash" {
		t.Fatalf("unexpected models %v", models)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  string
		code string
	}{
		{"bad key as 400", "Error 400, Message: API key not valid. Please pass a valid API key., Status: INVALID_ARGUMENT", llm.ErrCodeAPIKey},
		{"unauthenticated", "Error 401, Message: Request had invalid authentication credentials., Status: UNAUTHENTICATED", llm.ErrCodeAPIKey},
		{"forbidden", "Error 403, Message: denied, Status: PERMISSION_DENIED", llm.ErrCodeAPIKey},
		{"rate limited", "Error 429, Message: quota, Status: RESOURCE_EXHAUSTED", llm.ErrCodeRateLimit},
		{"unknown model", "Error 404, Message: models/nope is not found, Status: NOT_FOUND", llm.ErrCodeModelUnsupported},
		{"bad request", "Error 400, Message: bad prompt, Status: INVALID_ARGUMENT", llm.ErrCodeInvalidInput},
		{"server error", "Error 500, Message: internal, Status: INTERNAL", llm.ErrCodeServiceDown},
		{"transport", "dial tcp: connection refused", llm.ErrCodeServiceDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := classifyError(context.Background(), errors.New(tt.err), "gemini-2.5-flash")
			if pe.Code != tt.code {
				t.Fatalf("expected code %s, got %s", tt.code, pe.Code)
			}
		})
	}

	if llm.IsRetriable(classifyError(context.Background(), errors.New("Error 401, Message: no"), "m")) {
		t.Error("an auth failure must not be retried")
	}
}

func TestClassifyErrorCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if pe := classifyError(ctx, errors.New("context canceled"), "m"); pe.Code != llm.ErrCodeTimeout {
		t.Fatalf("expected timeout, got %s", pe.Code)
	}
}
