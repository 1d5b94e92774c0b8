package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/api/middleware"
	"github.com/easytobuy/storefront/internal/domain"
	"github.com/easytobuy/storefront/internal/service"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /v1/auth/login
func HandleLogin(auth *service.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := middleware.GetSessionFromContext(c)
		if !ok {
			logger.Error("Session missing from request context")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		var body loginBody
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err)
			return
		}

		user, err := auth.Login(c.Request.Context(), sess, domain.LoginRequest{Email: body.Email, Password: body.Password})
		if err != nil {
			respondError(c, logger, "failed to log in", err)
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// HandleLogout handles POST /v1/auth/logout
func HandleLogout(auth *service.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := middleware.GetSessionFromContext(c)
		if !ok {
			logger.Error("Session missing from request context")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		auth.Logout(c.Request.Context(), sess)
		c.Status(http.StatusNoContent)
	}
}

// HandleMe handles GET /v1/auth/me
func HandleMe(auth *service.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := middleware.GetSessionFromContext(c)
		if !ok {
			logger.Error("Session missing from request context")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		user, err := auth.Me(c.Request.Context(), sess)
		if err != nil {
			respondError(c, logger, "failed to get current user", err)
			return
		}

		c.JSON(http.StatusOK, user)
	}
}
