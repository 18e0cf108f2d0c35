package ementa

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ementa/internal/db"
	dbValkey "github.com/kailas-cloud/ementa/internal/db/valkey"
	domanalysis "github.com/kailas-cloud/ementa/internal/domain/analysis"
	"github.com/kailas-cloud/ementa/internal/domain/decision"
	"github.com/kailas-cloud/ementa/internal/domain/search/criteria"
	domsession "github.com/kailas-cloud/ementa/internal/domain/session"
	"github.com/kailas-cloud/ementa/internal/render/chart"
	"github.com/kailas-cloud/ementa/internal/render/wordcloud"
	sessionrepo "github.com/kailas-cloud/ementa/internal/repository/session"
	analysisuc "github.com/kailas-cloud/ementa/internal/usecase/analysis"
	"github.com/kailas-cloud/ementa/internal/usecase/filter"
	healthuc "github.com/kailas-cloud/ementa/internal/usecase/health"
	"github.com/kailas-cloud/ementa/internal/usecase/report"
	sessionuc "github.com/kailas-cloud/ementa/internal/usecase/session"
)

const (
	driverMemory = "memory"
	driverValkey = "valkey"

	defaultReadinessTimeout = 10 * time.Second
	defaultSessionTTL       = time.Hour
	defaultMaxUpload        = 32 << 20
)

// sessionUseCase is the internal interface for substitution in tests.
type sessionUseCase interface {
	Open(ctx context.Context, r io.Reader) (domsession.State, error)
	OpenSample(ctx context.Context, n int) (domsession.State, error)
	Get(ctx context.Context, id string) (domsession.State, error)
	Close(ctx context.Context, id string) error
	Browse(ctx context.Context, id string, c criteria.Criteria, page int) (filter.Page, error)
	Decision(ctx context.Context, id string, decisionID int64) (decision.Decision, error)
	Facets(ctx context.Context, id string) (sessionuc.Facets, error)
	Analyze(ctx context.Context, id string, req analysisuc.Request) (domanalysis.Result, error)
	MatchedCSV(ctx context.Context, id string) ([]byte, error)
	FrequencyCSV(ctx context.Context, id string) ([]byte, error)
	Report(ctx context.Context, id string) ([]byte, error)
}

// Client is the ementa SDK entry point.
type Client struct {
	store     db.Store
	sessions  sessionUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. Sessions stay in process memory unless WithValkey is given,
// in which case the provided context bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		driver:     driverMemory,
		sessionTTL: defaultSessionTTL,
		maxUpload:  defaultMaxUpload,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	repo, store, err := createRepo(ctx, cfg)
	if err != nil {
		return nil, err
	}

	c, err := wireClient(repo, store, cfg, obs)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	return c, nil
}

func createRepo(ctx context.Context, cfg *clientConfig) (sessionuc.Repository, db.Store, error) {
	switch cfg.driver {
	case driverMemory:
		return sessionrepo.NewMemory(cfg.sessionTTL, cfg.sessionTTL/2), nil, nil
	case driverValkey:
		s, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("ementa: create valkey store: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, nil, fmt.Errorf("ementa: session store not ready: %w", err)
		}
		return sessionrepo.NewRepo(s, cfg.sessionTTL), s, nil
	default:
		return nil, nil, fmt.Errorf("ementa: unknown driver %q", cfg.driver)
	}
}

func wireClient(repo sessionuc.Repository, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	cloud, err := wordcloud.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("ementa: word cloud renderer: %w", err)
	}

	// The SDK logs through slog in the observer; internal services stay quiet.
	logger := zap.NewNop()
	builder := report.NewBuilder(cfg.reportTitle, cfg.authors, cfg.sampleRows, logger)

	// Pass nil interfaces, not typed nil values, for optional components.
	var summarizer analysisuc.Summarizer
	var checker healthuc.SummarizerChecker
	if cfg.summarizer != nil {
		summarizer = cfg.summarizer
		if hc, ok := cfg.summarizer.(healthuc.SummarizerChecker); ok {
			checker = hc
		}
	}
	var pinger healthuc.StorePinger
	if store != nil {
		pinger = store
	}

	analyzer := analysisuc.New(chart.NewRenderer(), cloud, builder, summarizer, cfg.cloudWords, logger)

	return &Client{
		store:     store,
		sessions:  sessionuc.New(repo, analyzer, cfg.maxUpload, logger),
		healthSvc: healthuc.New(pinger, checker),
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Sessions returns the session service.
func (c *Client) Sessions() *SessionService {
	return &SessionService{svc: c.sessions, obs: c.obs}
}
