package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/audit"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/auth"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/handlers"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/middleware"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.Duration("upstream_timeout", cfg.Upstream.Timeout),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
		zap.Bool("verify_tokens", cfg.Auth.VerifySignatures))

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	var decoder auth.TokenDecoder
	if cfg.Auth.VerifySignatures {
		jwks, err := auth.NewJWKSDecoder(ctx, cfg.Auth.JWKSURL)
		if err != nil {
			return err
		}
		decoder = jwks
	}

	auditor := audit.NewSecurityAuditor(logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, a.ready, logger).RegisterRoutes(mux)
	handlers.NewDashboardHandler(a.identity, a.competencies, a.metrics, logger).RegisterRoutes(mux)
	handlers.NewConsultantsHandler(a.consultants, logger).RegisterRoutes(mux)
	handlers.NewResourcesHandler(a.staff, a.files, a.tasks, a.calendar, logger).RegisterRoutes(mux)
	handlers.NewCacheHandler(a.cacheAdmin, logger).WithAuditor(auditor).RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := middleware.Chain(mux,
		middleware.RequestID,
		middleware.RequestLogger(logger.Named("http")),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		auth.NewMiddleware(decoder, logger).WithAuditor(auditor).Handler,
	)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// provider calls may take up to the upstream timeout, fan-outs included
		WriteTimeout: cfg.Upstream.Timeout + 15*time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
