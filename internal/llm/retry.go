package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy bounds how a Caller reacts to failed attempts.
type RetryPolicy struct {
	MaxRetries       int           // transient retries per call
	BaseBackoff      time.Duration // backoff grows linearly by this step
	MaxBackoff       time.Duration
	ModelSwitchDelay time.Duration // pause before trying the next model
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:       2,
		BaseBackoff:      2 * time.Second,
		MaxBackoff:       5 * time.Second,
		ModelSwitchDelay: 250 * time.Millisecond,
	}
}

// NewRetryPolicy overrides the default retry bounds; the model switch delay is kept.
func NewRetryPolicy(maxRetries int, baseBackoff, maxBackoff time.Duration) RetryPolicy {
	p := DefaultRetryPolicy()
	p.MaxRetries = maxRetries
	p.BaseBackoff = baseBackoff
	p.MaxBackoff = maxBackoff
	return p
}

// Options tunes a single completion. The zero value means the defaults.
type Options struct {
	Temperature float64
	MaxTokens   int
}

func DefaultOptions() Options {
	return Options{Temperature: 0.4, MaxTokens: 600}
}

type step int

const (
	stepRetry step = iota
	stepSwitchModel
	stepFail
)

// retryState is the explicit state of one Complete call.
type retryState struct {
	models     []string
	modelIndex int
	attempts   int
	retries    int
	waited     time.Duration
}

func (s *retryState) model() string {
	return s.models[s.modelIndex]
}

// next decides what follows a failed attempt and how long to wait first.
func (p RetryPolicy) next(s *retryState, err error) (step, time.Duration) {
	switch {
	case CodeOf(err) == ErrCodeModelUnsupported:
		if s.modelIndex+1 < len(s.models) {
			return stepSwitchModel, p.ModelSwitchDelay
		}
		return stepFail, 0
	case IsRetriable(err):
		if s.retries < p.MaxRetries {
			backoff := p.BaseBackoff * time.Duration(s.retries+1)
			if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
				backoff = p.MaxBackoff
			}
			return stepRetry, backoff
		}
		return stepFail, 0
	default:
		return stepFail, 0
	}
}

// Caller runs chat completions against a Provider under a RetryPolicy.
type Caller struct {
	provider Provider
	policy   RetryPolicy
	logger   *zap.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewCaller(provider Provider, policy RetryPolicy, logger *zap.Logger) *Caller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Caller{
		provider: provider,
		policy:   policy,
		logger:   logger,
		sleep:    sleepContext,
	}
}

func (c *Caller) ProviderName() string {
	return c.provider.GetProviderName()
}

// Complete sends messages and returns the reply text, retrying transient
// failures and walking the provider's model list when a model is unsupported.
func (c *Caller) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	if opts.MaxTokens == 0 {
		opts = DefaultOptions()
	}

	models := c.provider.Models()
	if len(models) == 0 {
		return "", &ProviderError{
			Provider: c.provider.GetProviderName(),
			Code:     ErrCodeConfiguration,
			Message:  "no model configured",
		}
	}

	state := &retryState{models: models}
	for {
		state.attempts++
		content, err := c.provider.Chat(ctx, &ChatRequest{
			Model:       state.model(),
			Messages:    messages,
			Temperature: opts.Temperature,
			MaxTokens:   opts.MaxTokens,
		})
		if err == nil {
			return content, nil
		}

		next, wait := c.policy.next(state, err)
		switch next {
		case stepSwitchModel:
			c.logger.Warn("model not supported, switching",
				zap.String("model", state.model()),
				zap.String("next_model", state.models[state.modelIndex+1]))
			state.modelIndex++
		case stepRetry:
			state.retries++
			c.logger.Warn("transient LLM failure, retrying",
				zap.String("model", state.model()),
				zap.Int("attempt", state.attempts),
				zap.Duration("backoff", wait),
				zap.Error(err))
		default:
			return "", c.finalError(state, err)
		}

		if err := c.sleep(ctx, wait); err != nil {
			return "", &ProviderError{
				Provider: c.provider.GetProviderName(),
				Code:     ErrCodeTimeout,
				Message:  "request cancelled while waiting to retry",
				Model:    state.model(),
				Err:      err,
			}
		}
		state.waited += wait
	}
}

func (c *Caller) finalError(state *retryState, err error) error {
	if CodeOf(err) != ErrCodeModelUnsupported {
		return err
	}
	suggestion := state.models[len(state.models)-1]
	if len(state.models) > 1 {
		suggestion = state.models[1]
	}
	return &ProviderError{
		Provider: c.provider.GetProviderName(),
		Code:     ErrCodeConfiguration,
		Message: fmt.Sprintf("model %q is not enabled for your token; configure a supported model such as %q",
			state.models[0], suggestion),
		Model: state.model(),
		Err:   err,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
