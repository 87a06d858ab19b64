package main

import (
	"context"
	"log/slog"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/config"
	"github.com/splitledger/splitledger/internal/handler"
	"github.com/splitledger/splitledger/internal/metrics"
	"github.com/splitledger/splitledger/internal/server"
	"github.com/splitledger/splitledger/internal/service"
	"github.com/splitledger/splitledger/internal/storage/sqlite"
	"github.com/splitledger/splitledger/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting splitledger", "env", cfg.AppEnv, "port", cfg.AppPort)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)
	m := metrics.New()

	authSvc := service.NewAuthService(authenticator, jwtManager, store, logger)
	groupSvc := service.NewGroupService(store, logger)
	ledgerSvc := service.NewLedgerService(store, m, logger)

	routes := handler.New(authSvc, groupSvc, ledgerSvc, jwtManager, m).Routes()

	// h2c lets clients speak HTTP/2 without TLS, which is handled by the
	// proxy in front of this service.
	h := h2c.NewHandler(routes, &http2.Server{})

	srv := server.New(h, cfg.AppPort, cfg.ReadTimeout, cfg.WriteTimeout, cfg.ShutdownTimeout, logger)
	srv.OnShutdown("sqlite store", func(ctx context.Context) error {
		return store.Close()
	})

	if err := srv.Run(); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
