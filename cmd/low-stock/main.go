package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/client"
	"github.com/easytobuy/storefront/internal/config"
	"github.com/easytobuy/storefront/internal/service"
	"github.com/easytobuy/storefront/internal/session"
	"github.com/easytobuy/storefront/internal/storage/driver"
	apperrors "github.com/easytobuy/storefront/pkg/errors"
)

func main() {
	if len(os.Args) > 2 {
		fmt.Println("Usage: go run cmd/low-stock/main.go [search]")
		fmt.Println("Example: go run cmd/low-stock/main.go \"runner\"")
		os.Exit(1)
	}

	query := ""
	if len(os.Args) == 2 {
		query = os.Args[1]
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	ctx := context.Background()

	kv, closeStorage, err := driver.Open(ctx, cfg.Storage, afero.NewOsFs(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer closeStorage()

	// Reuse the token saved by `cart login`
	sess := session.NewStore(kv, "", logger)
	opts := func(baseURL string) client.Options {
		return client.Options{
			BaseURL:        baseURL,
			Timeout:        cfg.Services.Timeout,
			BreakerTimeout: cfg.Services.BreakerTimeout,
			Session:        sess,
		}
	}

	dashboard := service.NewDashboardService(
		client.NewCatalogClient(opts(cfg.Services.CatalogURL), logger),
		client.NewOrderClient(opts(cfg.Services.OrderURL), logger),
		client.NewInventoryClient(opts(cfg.Services.InventoryURL), logger),
		cfg.Inventory.ReorderLevel,
		logger,
	)

	fmt.Printf("🔍 Checking stock levels (reorder level %d)\n\n", cfg.Inventory.ReorderLevel)

	view, err := dashboard.Inventory(ctx, query)
	if err != nil {
		var unauthorized *apperrors.ErrUnauthorized
		if errors.As(err, &unauthorized) {
			fmt.Fprintf(os.Stderr, "❌ Not authorized. Run: go run cmd/cart/main.go login <email> <password>\n")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Failed to load inventory: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Products: %d   Units in stock: %d   Inventory value: %.2f\n\n",
		view.Total, view.TotalStock, view.InventoryValue)

	// The report honors the search, low stock counts do not
	shown := map[string]bool{}
	for _, item := range view.Items {
		shown[item.SKUCode] = true
	}

	printed := 0
	for _, item := range view.LowStock {
		if query != "" && !shown[item.SKUCode] {
			continue
		}
		bar := strings.Repeat("█", int(item.StockPercentage()/10))
		fmt.Printf("⚠️  %-12s %-28s stock %4d  %-10s %3.0f%%  %s\n",
			item.SKUCode, item.Name, item.Stock, bar, item.StockPercentage(), item.Status().Label())
		printed++
	}

	if printed == 0 {
		fmt.Printf("✅ No products at or below the reorder level.\n")
		return
	}
	fmt.Printf("\n%d of %d products need restocking.\n", view.LowStockCount, view.Total)
}
