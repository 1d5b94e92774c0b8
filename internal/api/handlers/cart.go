package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/api/middleware"
	"github.com/easytobuy/storefront/internal/cart"
	"github.com/easytobuy/storefront/internal/domain"
)

// CartResponse represents the cart of one session
type CartResponse struct {
	Items    []domain.CartLineItem `json:"items"`
	Total    float64               `json:"total"`
	Count    int                   `json:"count"`
	Quantity int                   `json:"quantity"`
}

func newCartResponse(s *cart.Store) CartResponse {
	return CartResponse{
		Items:    s.Items(),
		Total:    s.Total(),
		Count:    s.Len(),
		Quantity: s.Quantity(),
	}
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := middleware.GetCartFromContext(c)
		if !ok {
			logger.Error("Cart missing from request context")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, newCartResponse(s))
	}
}

// HandleAddCartItem handles POST /v1/cart/items
func HandleAddCartItem(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := middleware.GetCartFromContext(c)
		if !ok {
			logger.Error("Cart missing from request context")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		var item domain.CartLineItem
		if err := c.ShouldBindJSON(&item); err != nil {
			bindError(c, err)
			return
		}

		if err := s.AddToCart(c.Request.Context(), item); err != nil {
			respondError(c, logger, "failed to add item", err)
			return
		}

		c.JSON(http.StatusOK, newCartResponse(s))
	}
}

// HandleRemoveCartItem handles DELETE /v1/cart/items/:id
func HandleRemoveCartItem(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := middleware.GetCartFromContext(c)
		if !ok {
			logger.Error("Cart missing from request context")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		s.RemoveFromCart(c.Request.Context(), c.Param("id"))
		c.JSON(http.StatusOK, newCartResponse(s))
	}
}

// HandleClearCart handles DELETE /v1/cart
func HandleClearCart(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := middleware.GetCartFromContext(c)
		if !ok {
			logger.Error("Cart missing from request context")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		s.ClearCart(c.Request.Context())
		c.JSON(http.StatusOK, newCartResponse(s))
	}
}
