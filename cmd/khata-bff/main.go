package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/khata-app/khata-bff/internal/config"
	"github.com/khata-app/khata-bff/internal/domain"
	"github.com/khata-app/khata-bff/internal/handler"
	"github.com/khata-app/khata-bff/internal/infra/cache"
	"github.com/khata-app/khata-bff/internal/infra/observability"
	"github.com/khata-app/khata-bff/internal/infra/resilience"
	"github.com/khata-app/khata-bff/internal/infra/upstream"
	"github.com/khata-app/khata-bff/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("ledger_api", cfg.UpstreamURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("shop_cache_ttl", cfg.ShopCacheTTL),
		zap.Duration("search_quiet_period", cfg.SearchQuietPeriod),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Bool("dev_auth", cfg.DevAuth),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "khata-bff")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	shopCache := cache.New[[]domain.Shop](cfg.ShopCacheTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("ledger-api")

	// --- Upstream client ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	ledgerClient := upstream.NewClient(httpClient, cfg.UpstreamURL, cb, resilienceCfg, metrics, logger)

	// --- Services ---
	ledgerSvc := service.NewLedger(ledgerClient, shopCache, metrics, logger)
	searchSvc := service.NewSearch(ledgerClient, cfg.SearchQuietPeriod, metrics, logger)
	gate := service.NewGate(ledgerClient, service.GateConfig{
		OwnerEmail:        cfg.OwnerEmail,
		OwnerPasswordHash: cfg.OwnerPasswordHash,
		DevAuth:           cfg.DevAuth,
	}, metrics, logger)

	if cfg.DevAuth {
		logger.Warn("dev auth enabled: password checked against local hash")
	}

	// --- Router ---
	router := handler.NewRouter(ledgerSvc, searchSvc, gate, metrics, logger, handler.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
	})

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
