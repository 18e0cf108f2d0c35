package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ementa/internal/config"
	"github.com/kailas-cloud/ementa/internal/db"
	dbValkey "github.com/kailas-cloud/ementa/internal/db/valkey"
	"github.com/kailas-cloud/ementa/internal/render/chart"
	"github.com/kailas-cloud/ementa/internal/render/wordcloud"
	budgetrepo "github.com/kailas-cloud/ementa/internal/repository/budget"
	sessionrepo "github.com/kailas-cloud/ementa/internal/repository/session"
	openaiSum "github.com/kailas-cloud/ementa/internal/transport/openai"
	analysisuc "github.com/kailas-cloud/ementa/internal/usecase/analysis"
	"github.com/kailas-cloud/ementa/internal/usecase/narrative"
	"github.com/kailas-cloud/ementa/internal/usecase/report"
	sessionuc "github.com/kailas-cloud/ementa/internal/usecase/session"
)

// narration is the optional report narrative chain. Both fields are nil when disabled.
type narration struct {
	summarizer *narrative.BudgetedSummarizer
	tracker    *narrative.Tracker
}

// newAnalyzer assembles the renderers, the report builder and the optional summarizer.
// store persists the token budget; nil keeps the counters in memory.
func newAnalyzer(
	ctx context.Context, cfg config.Config, store db.KVStore, logger *zap.Logger,
) (*analysisuc.Service, narration, error) {
	cloud, err := wordcloud.NewRenderer()
	if err != nil {
		return nil, narration{}, fmt.Errorf("word cloud renderer: %w", err)
	}
	builder := report.NewBuilder(cfg.Report.Title, cfg.Report.Authors, cfg.Report.SampleRows, logger)

	// Pass a nil interface, not a typed nil pointer, when the summarizer is off.
	var summarizer analysisuc.Summarizer
	var n narration
	if cfg.Summarizer.Enabled {
		sum, err := openaiSum.NewSummarizer(&openaiSum.Config{
			APIKey:    cfg.Summarizer.APIKey,
			BaseURL:   cfg.Summarizer.BaseURL,
			Model:     cfg.Summarizer.Model,
			MaxTokens: cfg.Summarizer.MaxTokens,
			Timeout:   time.Duration(cfg.Summarizer.TimeoutSec) * time.Second,
			Logger:    logger,
		})
		if err != nil {
			return nil, narration{}, fmt.Errorf("summarizer: %w", err)
		}

		n.tracker = narrative.NewTracker(
			cfg.Summarizer.DailyTokenBudget, cfg.Summarizer.MonthlyTokenBudget,
			narrative.Action(cfg.Summarizer.BudgetAction), logger,
		)
		if store != nil {
			n.tracker.WithStore(ctx, budgetrepo.New(store, budgetrepo.DefaultDailyTTL, budgetrepo.DefaultMonthTTL))
		}
		n.summarizer = narrative.NewBudgetedSummarizer(sum, n.tracker, logger)
		summarizer = n.summarizer
	}

	svc := analysisuc.New(chart.NewRenderer(), cloud, builder, summarizer, cfg.Analysis.CloudWords, logger)
	return svc, n, nil
}

// newSessionRepo picks the session store by driver. The returned db.Store is nil for
// the in-process memory driver; otherwise the caller owns it and must close it.
func newSessionRepo(ctx context.Context, cfg config.Config, logger *zap.Logger) (sessionuc.Repository, db.Store, error) {
	ttl := time.Duration(cfg.Sessions.TTLMin) * time.Minute

	switch cfg.Sessions.Driver {
	case config.DriverValkey:
		store, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.Sessions.Addrs,
			Password: cfg.Sessions.Password,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create session store: %w", err)
		}
		readiness := time.Duration(cfg.Sessions.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readiness); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("session store not ready: %w", err)
		}
		logger.Info("Connected to session store", zap.Strings("addrs", cfg.Sessions.Addrs))
		return sessionrepo.NewRepo(store, ttl), store, nil
	case config.DriverMemory:
		return sessionrepo.NewMemory(ttl, ttl/2), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown session driver %q", cfg.Sessions.Driver)
	}
}
