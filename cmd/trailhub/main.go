package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cairnlabs/trailhub/internal/auth"
	"github.com/cairnlabs/trailhub/internal/geo"
	"github.com/cairnlabs/trailhub/internal/hub"
	"github.com/cairnlabs/trailhub/internal/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := hub.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	if cfg.JWTSecret == "" {
		logger.Fatal("HUB_JWT_SECRET must be set")
	}

	verifier := auth.NewVerifier(cfg.JWTSecret)
	locator := geo.NewStore(cfg.ProximityRadiusKm)
	h := hub.New(cfg, verifier, locator, logger)

	srv := hub.NewHTTPServer(cfg.ListenAddr, hub.NewRouter(h))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("trailhub listening", zap.String("addr", cfg.ListenAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}

	_ = hub.ShutdownHTTPServer(srv, cfg.ShutdownTimeout, logger)
	if err := h.Shutdown(cfg.ShutdownTimeout); err != nil {
		logger.Warn("hub did not drain cleanly", zap.Error(err))
	}
}
