package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/easytobuy/storefront/pkg/errors"
)

// respondError writes the JSON error response for err
func respondError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	var (
		unauthorized *apperrors.ErrUnauthorized
		validation   *apperrors.ErrValidation
		notFound     *apperrors.ErrNotFound
		checkout     *apperrors.ErrCheckoutFailed
		upstream     *apperrors.ErrUpstream
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "validation failed",
			"field":   validation.Field,
			"details": validation.Message,
		})
	case errors.As(err, &checkout):
		logger.Error(msg, zap.Error(err))
		status := http.StatusBadGateway
		if errors.As(err, &unauthorized) {
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{
			"error":         "checkout failed",
			"placed":        checkout.Placed,
			"failedSku":     checkout.FailedSKU,
			"confirmations": checkout.Confirmations,
		})
	case errors.As(err, &unauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": unauthorized.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &upstream):
		logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": msg})
	default:
		logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// bindError reports a request body gin could not bind
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":   "validation failed",
		"details": err.Error(),
	})
}
