package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"fraud-screen/internal/config"
	"fraud-screen/internal/middleware"
	"fraud-screen/internal/observability"
	"fraud-screen/internal/scoring"
	"fraud-screen/internal/server"
	"fraud-screen/internal/services"
)

const version = "1.0.0"

func newHandler(cfg *config.Config, screening *services.Screening, logger *slog.Logger) http.Handler {
	srv := server.NewServer(screening, logger)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.MaxBody(cfg.Security.MaxBodyBytes),
		middleware.RateLimit(rateLimiter, logger),
	)

	return middlewareChain(srv)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", version,
		"config", cfg,
	)

	screening, err := services.LoadScreening(context.Background(), cfg.Artifacts, logger)
	if err != nil {
		var le *scoring.ArtifactLoadError
		if errors.As(err, &le) {
			logger.Error("failed to load artifacts",
				"artifact", le.Artifact,
				"path", le.Path,
				"error", le.Err,
			)
		} else {
			logger.Error("failed to load artifacts", "error", err)
		}
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, screening, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook("screening", func(ctx context.Context) error {
		logger.Info("screening service stopped", "stats", screening.Stats())
		return nil
	})

	if err := gracefulServer.ListenAndServe(context.Background()); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
