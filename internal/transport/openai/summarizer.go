// Package openai writes report narratives through an OpenAI-compatible chat API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ementa/internal/domain"
	"github.com/kailas-cloud/ementa/internal/metrics"
)

const (
	defaultModel     = openai.GPT4oMini
	defaultMaxTokens = 400
	defaultTimeout   = 30 * time.Second
	temperature      = 0.3
)

const systemPrompt = "Você é um assistente jurídico. Escreva um parágrafo curto, em português, " +
	"resumindo a análise de ementas de decisões do STF e do STJ descrita pelo usuário. " +
	"Use apenas os números fornecidos e não invente dados."

// Summarizer produces narrative summaries via chat completions.
type Summarizer struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	logger    *zap.Logger
}

// Config holds the summarizer provider settings.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	Logger    *zap.Logger
}

// NewSummarizer creates an OpenAI-compatible summarizer.
func NewSummarizer(cfg *Config) (*Summarizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("summarizer api key is required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	s := &Summarizer{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		logger:    cfg.Logger,
	}
	if s.model == "" {
		s.model = defaultModel
	}
	if s.maxTokens <= 0 {
		s.maxTokens = defaultMaxTokens
	}
	if s.timeout <= 0 {
		s.timeout = defaultTimeout
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s, nil
}

// Summarize turns an analysis digest into a short narrative.
// Every failure is wrapped with domain.ErrSummarizerUnavailable.
func (s *Summarizer) Summarize(ctx context.Context, digest string) (string, error) {
	n, err := s.Narrate(ctx, digest)
	if err != nil {
		return "", err
	}
	return n.Text, nil
}

// Narrate is Summarize with the token usage of the completion.
func (s *Summarizer) Narrate(ctx context.Context, digest string) (domain.Narrative, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: digest},
		},
		MaxTokens:   s.maxTokens,
		Temperature: temperature,
	})
	duration := time.Since(start)
	metrics.SummarizerRequestDuration.WithLabelValues(s.model).Observe(duration.Seconds())
	if err != nil {
		metrics.SummarizerRequestsTotal.WithLabelValues(s.model, "error").Inc()
		return domain.Narrative{}, parseAPIError(err)
	}

	metrics.SummarizerTokensTotal.WithLabelValues(s.model, "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.SummarizerTokensTotal.WithLabelValues(s.model, "completion").Add(float64(resp.Usage.CompletionTokens))

	if len(resp.Choices) == 0 {
		metrics.SummarizerRequestsTotal.WithLabelValues(s.model, "empty").Inc()
		return domain.Narrative{}, fmt.Errorf("empty completion response: %w", domain.ErrSummarizerUnavailable)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		metrics.SummarizerRequestsTotal.WithLabelValues(s.model, "empty").Inc()
		return domain.Narrative{}, fmt.Errorf("blank completion: %w", domain.ErrSummarizerUnavailable)
	}
	metrics.SummarizerRequestsTotal.WithLabelValues(s.model, "ok").Inc()

	s.logger.Debug("Narrative generated",
		zap.String("model", s.model),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return domain.Narrative{
		Text:             text,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (s *Summarizer) HealthCheck(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
func parseAPIError(err error) error {
	wrap := domain.ErrSummarizerUnavailable

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("completion API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("completion API error %d: %w", reqErr.HTTPStatusCode, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("completion request failed: %v: %w", err, wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
