package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anupku07/atm_terminal/internal/core/domain"
	"github.com/anupku07/atm_terminal/internal/core/services"
	"github.com/anupku07/atm_terminal/internal/handlers"
	"github.com/anupku07/atm_terminal/internal/middleware"
	"github.com/anupku07/atm_terminal/internal/platform/config"
	"github.com/anupku07/atm_terminal/internal/utils"
	"github.com/anupku07/atm_terminal/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// @title ATM Terminal API
// @version 1.0
// @description Single-account ATM terminal: PIN sessions, cash operations, history and receipts.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run serves until a shutdown signal arrives or the listener fails.
// Deferred cleanup runs before main decides the exit code.
func run(cfg *config.Config, logger *slog.Logger) error {
	account, err := domain.NewAccount(
		cfg.AccountNumber,
		cfg.HolderName,
		cfg.InitialBalance,
		cfg.Pin,
		utils.NewBcryptPinHasher(cfg.PinHashCost),
		domain.WithCurrencySymbol(cfg.CurrencySymbol),
	)
	if err != nil {
		return fmt.Errorf("failed to open terminal account: %w", err)
	}
	logger.Info("Terminal account ready", slog.String("account_number", account.AccountNumber()))

	collector := metrics.NewMetricsCollector(logger)
	analytics := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer analytics.Close()

	container := services.NewServiceContainer(cfg, account, collector, analytics)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	if err := handlers.RegisterRoutes(r, cfg, container, collector, analytics); err != nil {
		return fmt.Errorf("failed to register routes: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed to run: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
