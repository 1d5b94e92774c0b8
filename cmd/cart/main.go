package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/cart"
	"github.com/easytobuy/storefront/internal/client"
	"github.com/easytobuy/storefront/internal/config"
	"github.com/easytobuy/storefront/internal/domain"
	"github.com/easytobuy/storefront/internal/service"
	"github.com/easytobuy/storefront/internal/session"
	"github.com/easytobuy/storefront/internal/storage/driver"
	apperrors "github.com/easytobuy/storefront/pkg/errors"
)

func usage() {
	fmt.Println("Usage: go run cmd/cart/main.go <command> [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  list")
	fmt.Println("  add <id> <sku> <name> <price> <quantity>")
	fmt.Println("  remove <id>")
	fmt.Println("  clear")
	fmt.Println("  checkout <email>")
	fmt.Println("  login <email> <password>")
	fmt.Println("  logout")
	fmt.Println()
	fmt.Println("Example: go run cmd/cart/main.go add 65a1f0c2e4b0a1b2c3d4e5f6 \"SHOE-1\" \"Trail Runner\" 99.90 2")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
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

	sess := session.NewStore(kv, "", logger)
	store := cart.NewStore(kv, cart.StorageKey, logger)
	store.Load(ctx)

	args := os.Args[2:]
	switch os.Args[1] {
	case "list":
		printCart(store)

	case "add":
		if len(args) != 5 {
			usage()
			os.Exit(1)
		}
		item, err := parseItem(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid item: %v\n", err)
			os.Exit(1)
		}
		if err := store.AddToCart(ctx, item); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to add item: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Added %d x %s\n\n", item.Quantity, item.SKUCode)
		printCart(store)

	case "remove":
		if len(args) != 1 {
			usage()
			os.Exit(1)
		}
		store.RemoveFromCart(ctx, args[0])
		printCart(store)

	case "clear":
		store.ClearCart(ctx)
		fmt.Println("🧹 Cart cleared")

	case "checkout":
		if len(args) != 1 {
			usage()
			os.Exit(1)
		}
		orders := client.NewOrderClient(client.Options{
			BaseURL:        cfg.Services.OrderURL,
			Timeout:        cfg.Services.Timeout,
			BreakerTimeout: cfg.Services.BreakerTimeout,
			Session:        sess,
		}, logger)

		checkout := service.NewCheckoutService(orders, logger)
		result, err := checkout.PlaceOrder(ctx, store, service.CheckoutRequest{Email: args[0]})
		if err != nil {
			var failed *apperrors.ErrCheckoutFailed
			if errors.As(err, &failed) {
				fmt.Fprintf(os.Stderr, "❌ Checkout failed at %s after %d of %d line items were placed.\n",
					failed.FailedSKU, failed.Placed, store.Len())
				fmt.Fprintf(os.Stderr, "The cart was kept. Cause: %v\n", failed.Cause)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "❌ Checkout failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Placed %d orders, total %.2f\n", result.LineItems, result.Total)
		for _, c := range result.Confirmations {
			fmt.Printf("  %s\n", c)
		}

	case "login":
		if len(args) != 2 {
			usage()
			os.Exit(1)
		}
		auth := service.NewAuthService(client.NewAuthClient(client.Options{
			BaseURL: cfg.Services.AuthURL,
			Timeout: cfg.Services.Timeout,
			Session: sess,
		}, logger), logger)

		user, err := auth.Login(ctx, sess, domain.LoginRequest{Email: args[0], Password: args[1]})
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Login failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Logged in as %s (%s)\n", user.FullName, user.Role)

	case "logout":
		sess.Clear(ctx)
		fmt.Println("👋 Logged out")

	default:
		usage()
		os.Exit(1)
	}
}

func parseItem(args []string) (domain.CartLineItem, error) {
	price, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return domain.CartLineItem{}, fmt.Errorf("price: %w", err)
	}
	quantity, err := strconv.Atoi(args[4])
	if err != nil {
		return domain.CartLineItem{}, fmt.Errorf("quantity: %w", err)
	}

	return domain.CartLineItem{
		ID:       args[0],
		SKUCode:  args[1],
		Name:     args[2],
		Price:    price,
		Quantity: quantity,
	}, nil
}

func printCart(store *cart.Store) {
	items := store.Items()
	if len(items) == 0 {
		fmt.Println("🛒 Cart is empty")
		return
	}

	fmt.Printf("🛒 Cart (%d items)\n", store.Quantity())
	for _, item := range items {
		fmt.Printf("  [%s] %-12s %-24s %3d x %8.2f\n", item.ID, item.SKUCode, item.Name, item.Quantity, item.Price)
	}
	fmt.Printf("\nTotal: %.2f\n", store.Total())
}
