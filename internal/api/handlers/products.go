package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/service"
)

// HandleListProducts handles GET /v1/products?q=
func HandleListProducts(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := catalog.Browse(c.Request.Context(), c.Query("q"))
		if err != nil {
			respondError(c, logger, "failed to list products", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

// HandleGetProduct handles GET /v1/products/:id
func HandleGetProduct(catalog *service.CatalogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := catalog.Product(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, "failed to get product", err)
			return
		}

		c.JSON(http.StatusOK, product)
	}
}
