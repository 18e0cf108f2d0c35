package narrative

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ementa/internal/domain"
	"github.com/kailas-cloud/ementa/internal/domain/usage"
	"github.com/kailas-cloud/ementa/internal/metrics"
)

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(ctx context.Context, tokens int64)
	Remaining(p usage.Period) int64
}

// BudgetedSummarizer wraps a Narrator with budget enforcement.
// Transport metrics (requests, duration, tokens) are recorded in transport/openai;
// this layer owns budget tracking and the remaining-budget gauge.
type BudgetedSummarizer struct {
	inner  domain.Narrator
	budget BudgetChecker
	logger *zap.Logger
}

// NewBudgetedSummarizer wraps a narrator. budget may be nil (unlimited).
func NewBudgetedSummarizer(inner domain.Narrator, budget BudgetChecker, logger *zap.Logger) *BudgetedSummarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BudgetedSummarizer{inner: inner, budget: budget, logger: logger}
}

// Summarize checks the budget, delegates to the narrator and records token usage.
func (s *BudgetedSummarizer) Summarize(ctx context.Context, digest string) (string, error) {
	if s.budget != nil {
		if err := s.budget.Check(ctx); err != nil {
			s.logger.Warn("Summarizer budget exceeded", zap.Error(err))
			return "", fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()
	n, err := s.inner.Narrate(ctx, digest)
	if err != nil {
		return "", fmt.Errorf("narrate: %w", err)
	}

	if s.budget != nil {
		s.budget.Record(ctx, int64(n.TotalTokens))
		remaining := metrics.SummarizerBudgetTokensRemaining
		remaining.WithLabelValues(string(usage.PeriodDay)).Set(float64(s.budget.Remaining(usage.PeriodDay)))
		remaining.WithLabelValues(string(usage.PeriodMonth)).Set(float64(s.budget.Remaining(usage.PeriodMonth)))
	}

	s.logger.Debug("Narrative accepted",
		zap.Duration("duration", time.Since(start)),
		zap.Int("total_tokens", n.TotalTokens),
	)
	return n.Text, nil
}

// HealthCheck delegates to the narrator when it supports health checks.
func (s *BudgetedSummarizer) HealthCheck(ctx context.Context) error {
	if hc, ok := s.inner.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("narrator health: %w", err)
		}
	}
	return nil
}
