package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/api/middleware"
	"github.com/easytobuy/storefront/internal/service"
)

// checkoutBody is bound without validation; the checkout service
// validates after trimming
type checkoutBody struct {
	Email string `json:"email"`
}

// HandleCheckout handles POST /v1/checkout
func HandleCheckout(checkout *service.CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := middleware.GetCartFromContext(c)
		if !ok {
			logger.Error("Cart missing from request context")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		var body checkoutBody
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err)
			return
		}

		result, err := checkout.PlaceOrder(c.Request.Context(), s, service.CheckoutRequest{Email: body.Email})
		if err != nil {
			respondError(c, logger, "failed to place order", err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
