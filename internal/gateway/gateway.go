package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"peerprep/interview/internal/llm"
	"peerprep/interview/internal/metrics"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/prompts"
)

const (
	defaultJobRole     = "Software Engineer"
	notApplicable      = "N/A"
	operationQuestions = "questions"
	operationScore     = "score"
	operationSummary   = "summary"
)

var (
	questionOptions = llm.Options{Temperature: 0.4, MaxTokens: 800}
	scoreOptions    = llm.Options{Temperature: 0.2, MaxTokens: 300}
	summaryOptions  = llm.Options{Temperature: 0.2, MaxTokens: 160}
)

// Completer is satisfied by *llm.Caller.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error)
}

// Gateway turns interview operations into LLM prompts and interprets the replies.
type Gateway struct {
	completer Completer
	prompts   prompts.PromptProvider
	cache     *ScoreCache
	logger    *zap.Logger
	newID     func() string
}

func New(completer Completer, promptManager prompts.PromptProvider, cache *ScoreCache, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		completer: completer,
		prompts:   promptManager,
		cache:     cache,
		logger:    logger,
		newID:     func() string { return uuid.New().String() },
	}
}

// GenerateQuestions asks the model for six role-specific questions.
func (g *Gateway) GenerateQuestions(ctx context.Context, jobRole, jobDescription string) ([]models.Question, error) {
	if jobRole == "" {
		jobRole = defaultJobRole
	}
	if jobDescription == "" {
		jobDescription = notApplicable
	}

	messages, err := g.buildMessages(prompts.ModeQuestions, map[string]string{
		"JobRole":        jobRole,
		"JobDescription": jobDescription,
	})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	content, err := g.completer.Complete(ctx, messages, questionOptions)
	if err != nil {
		metrics.ObserveLLM(operationQuestions, metrics.OutcomeError, time.Since(start))
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	questions, err := ParseQuestions(content, g.newID)
	if err != nil {
		metrics.ObserveLLM(operationQuestions, metrics.OutcomeError, time.Since(start))
		g.logger.Warn("unusable question reply", zap.Int("reply_length", len(content)))
		return nil, err
	}
	metrics.ObserveLLM(operationQuestions, metrics.OutcomeOK, time.Since(start))
	return questions, nil
}

// ScoreAnswer grades one answer. Malformed replies resolve to the default grade;
// transport failures return the default grade together with the error.
func (g *Gateway) ScoreAnswer(ctx context.Context, q *models.Question, answer string) (models.Grade, error) {
	if g.cache != nil {
		if grade, ok := g.cache.Get(q.ID, answer); ok {
			return grade, nil
		}
	}

	messages, err := g.buildMessages(prompts.ModeScore, map[string]string{
		"Difficulty": string(q.Difficulty),
		"Question":   q.Text,
		"Answer":     answer,
	})
	if err != nil {
		return DefaultGrade(q), err
	}

	start := time.Now()
	content, err := g.completer.Complete(ctx, messages, scoreOptions)
	if err != nil {
		metrics.ObserveLLM(operationScore, metrics.OutcomeError, time.Since(start))
		return DefaultGrade(q), fmt.Errorf("score answer: %w", err)
	}

	grade := ParseGrade(content, q)
	outcome := metrics.OutcomeOK
	if grade.Fallback {
		outcome = metrics.OutcomeFallback
		g.logger.Warn("score reply had no usable JSON, using default grade", zap.String("question_id", q.ID))
	}
	metrics.ObserveLLM(operationScore, outcome, time.Since(start))

	if g.cache != nil {
		g.cache.Set(q.ID, answer, grade)
	}
	return grade, nil
}

// FinalizeCandidate computes the final score and a short summary. It never fails:
// when the summary cannot be generated a templated sentence is returned.
func (g *Gateway) FinalizeCandidate(ctx context.Context, profile *models.CandidateProfile, questions []models.Question) (int, string) {
	finalScore := models.FinalScore(questions)

	name := ""
	if profile != nil {
		name = profile.Name
	}
	promptName := name
	if promptName == "" {
		promptName = notApplicable
	}

	messages, err := g.buildMessages(prompts.ModeSummary, map[string]string{
		"Name":   promptName,
		"Scores": ScoreLine(questions),
	})
	if err != nil {
		g.logger.Error("failed to build summary prompt", zap.Error(err))
		return finalScore, FallbackSummary(name, finalScore)
	}

	start := time.Now()
	content, err := g.completer.Complete(ctx, messages, summaryOptions)
	if err != nil {
		metrics.ObserveLLM(operationSummary, metrics.OutcomeFallback, time.Since(start))
		g.logger.Warn("summary generation failed, using fallback", zap.Error(err))
		return finalScore, FallbackSummary(name, finalScore)
	}

	summary := CleanSummary(content)
	if summary == "" {
		metrics.ObserveLLM(operationSummary, metrics.OutcomeFallback, time.Since(start))
		return finalScore, FallbackSummary(name, finalScore)
	}
	metrics.ObserveLLM(operationSummary, metrics.OutcomeOK, time.Since(start))
	return finalScore, summary
}

func (g *Gateway) buildMessages(mode string, data map[string]string) ([]llm.Message, error) {
	system, err := g.prompts.BuildPrompt(mode, prompts.VariantSystem, data)
	if err != nil {
		return nil, fmt.Errorf("build %s system prompt: %w", mode, err)
	}
	user, err := g.prompts.BuildPrompt(mode, prompts.VariantUser, data)
	if err != nil {
		return nil, fmt.Errorf("build %s user prompt: %w", mode, err)
	}
	return []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: user},
	}, nil
}
