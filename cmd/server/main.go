package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/api"
	"github.com/easytobuy/storefront/internal/cart"
	"github.com/easytobuy/storefront/internal/client"
	"github.com/easytobuy/storefront/internal/config"
	"github.com/easytobuy/storefront/internal/service"
	"github.com/easytobuy/storefront/internal/storage/driver"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, closeStorage, err := driver.Open(ctx, cfg.Storage, afero.NewOsFs(), logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer func() {
		if err := closeStorage(); err != nil {
			logger.Warn("Failed to close storage", zap.Error(err))
		}
	}()

	catalog := client.NewCatalogClient(serviceOptions(cfg, cfg.Services.CatalogURL), logger)
	orders := client.NewOrderClient(serviceOptions(cfg, cfg.Services.OrderURL), logger)
	inventory := client.NewInventoryClient(serviceOptions(cfg, cfg.Services.InventoryURL), logger)
	auth := client.NewAuthClient(serviceOptions(cfg, cfg.Services.AuthURL), logger)

	router := api.NewRouter(cfg, api.Services{
		Storage:   kv,
		Carts:     cart.NewRegistry(kv, cfg.Cart.CacheSize, cfg.Cart.CacheTTL, logger),
		Checkout:  service.NewCheckoutService(orders, logger),
		Catalog:   service.NewCatalogService(catalog, logger),
		Dashboard: service.NewDashboardService(catalog, orders, inventory, cfg.Inventory.ReorderLevel, logger),
		Auth:      service.NewAuthService(auth, logger),
	}, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Storefront server listening",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.String("storage", cfg.Storage.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down storefront server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down gracefully", zap.Error(err))
	}
	logger.Info("Storefront server stopped")
}

func serviceOptions(cfg *config.Config, baseURL string) client.Options {
	return client.Options{
		BaseURL:        baseURL,
		Timeout:        cfg.Services.Timeout,
		BreakerTimeout: cfg.Services.BreakerTimeout,
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	zcfg := zap.NewDevelopmentConfig()
	if cfg.Environment == "production" {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = level
	return zcfg.Build()
}
