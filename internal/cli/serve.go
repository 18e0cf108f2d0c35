package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ementa/internal/config"
	"github.com/kailas-cloud/ementa/internal/db"
	logpkg "github.com/kailas-cloud/ementa/internal/logger"
	"github.com/kailas-cloud/ementa/internal/metrics"
	chiTransport "github.com/kailas-cloud/ementa/internal/transport/chi"
	healthuc "github.com/kailas-cloud/ementa/internal/usecase/health"
	sessionuc "github.com/kailas-cloud/ementa/internal/usecase/session"
	usageuc "github.com/kailas-cloud/ementa/internal/usecase/usage"
	"github.com/kailas-cloud/ementa/internal/version"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, err := opts.load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(opts.env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting ementa API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", opts.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("sessions_driver", cfg.Sessions.Driver),
		zap.Bool("summarizer", cfg.Summarizer.Enabled),
	)

	// Register domain metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterAnalysisMetrics()
	metrics.RegisterSummarizerMetrics()

	repo, store, err := newSessionRepo(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	var kv db.KVStore
	if store != nil {
		kv = store
	}
	analyzer, narr, err := newAnalyzer(ctx, cfg, kv, logger)
	if err != nil {
		return err
	}

	maxUpload := int64(cfg.Analysis.MaxUploadMB) << 20
	sessions := sessionuc.New(repo, analyzer, maxUpload, logger)

	// Go gotcha: a typed nil pointer wrapped in an interface is not nil.
	var pinger healthuc.StorePinger
	if store != nil {
		pinger = store
	}
	var checker healthuc.SummarizerChecker
	var budget usageuc.BudgetReader
	if narr.summarizer != nil {
		checker = narr.summarizer
		budget = narr.tracker
	}
	healthSvc := healthuc.New(pinger, checker)
	usageSvc := usageuc.New(budget)

	server := chiTransport.NewServer(sessions, healthSvc, usageSvc, chiTransport.Options{
		DefaultTerms:     cfg.Analysis.DefaultTerms,
		DefaultStopwords: cfg.Analysis.Stopwords,
		TopWords:         cfg.Analysis.TopWords,
		DefaultPageSize:  cfg.Analysis.DefaultPageSize,
		MaxPageSize:      cfg.Analysis.MaxPageSize,
		SampleRows:       cfg.Analysis.SampleRows,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      newRouter(server, cfg, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// newRouter applies the middleware stack and mounts the API routes.
func newRouter(server *chiTransport.Server, cfg config.Config, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)
	return r
}
