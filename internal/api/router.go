package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/api/handlers"
	"github.com/easytobuy/storefront/internal/api/middleware"
	"github.com/easytobuy/storefront/internal/cart"
	"github.com/easytobuy/storefront/internal/config"
	"github.com/easytobuy/storefront/internal/service"
	"github.com/easytobuy/storefront/internal/storage"
)

// Services bundles what the handlers need
type Services struct {
	Storage   storage.KeyValue
	Carts     *cart.Registry
	Checkout  *service.CheckoutService
	Catalog   *service.CatalogService
	Dashboard *service.DashboardService
	Auth      *service.AuthService
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, svc Services, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	v1.Use(middleware.SessionMiddleware(svc.Storage, svc.Carts, logger))
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", handlers.HandleLogin(svc.Auth, logger))
			auth.POST("/logout", handlers.HandleLogout(svc.Auth, logger))
			auth.GET("/me", handlers.HandleMe(svc.Auth, logger))
		}

		v1.GET("/cart", handlers.HandleGetCart(logger))
		v1.DELETE("/cart", handlers.HandleClearCart(logger))
		v1.POST("/cart/items", handlers.HandleAddCartItem(logger))
		v1.DELETE("/cart/items/:id", handlers.HandleRemoveCartItem(logger))
		v1.POST("/checkout", handlers.HandleCheckout(svc.Checkout, logger))

		v1.GET("/products", handlers.HandleListProducts(svc.Catalog, logger))
		v1.GET("/products/:id", handlers.HandleGetProduct(svc.Catalog, logger))

		// Admin routes rely on the backend services to reject missing tokens
		admin := v1.Group("/admin")
		{
			admin.GET("/dashboard", handlers.HandleDashboard(svc.Dashboard, logger))
			admin.GET("/products", handlers.HandleAdminProducts(svc.Dashboard, logger))
			admin.POST("/products", handlers.HandleCreateProduct(svc.Dashboard, logger))
			admin.GET("/orders", handlers.HandleAdminOrders(svc.Dashboard, logger))
			admin.GET("/inventory", handlers.HandleInventory(svc.Dashboard, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("session_id", c.Writer.Header().Get(middleware.SessionHeader)),
		)
	}
}
