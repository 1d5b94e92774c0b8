package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/domain"
	"github.com/easytobuy/storefront/internal/service"
)

// HandleDashboard handles GET /v1/admin/dashboard
func HandleDashboard(dashboard *service.DashboardService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := dashboard.Dashboard(c.Request.Context())
		if err != nil {
			respondError(c, logger, "failed to load dashboard", err)
			return
		}

		c.JSON(http.StatusOK, summary)
	}
}

// HandleAdminProducts handles GET /v1/admin/products?q=
func HandleAdminProducts(dashboard *service.DashboardService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := dashboard.Products(c.Request.Context(), c.Query("q"))
		if err != nil {
			respondError(c, logger, "failed to list products", err)
			return
		}

		c.JSON(http.StatusOK, view)
	}
}

// HandleCreateProduct handles POST /v1/admin/products
func HandleCreateProduct(dashboard *service.DashboardService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		product, err := dashboard.CreateProduct(c.Request.Context(), req)
		if err != nil {
			respondError(c, logger, "failed to create product", err)
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}

// HandleAdminOrders handles GET /v1/admin/orders?q=
func HandleAdminOrders(dashboard *service.DashboardService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := dashboard.Orders(c.Request.Context(), c.Query("q"))
		if err != nil {
			respondError(c, logger, "failed to list orders", err)
			return
		}

		c.JSON(http.StatusOK, view)
	}
}

// HandleInventory handles GET /v1/admin/inventory?q=
func HandleInventory(dashboard *service.DashboardService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := dashboard.Inventory(c.Request.Context(), c.Query("q"))
		if err != nil {
			respondError(c, logger, "failed to load inventory", err)
			return
		}

		c.JSON(http.StatusOK, view)
	}
}
