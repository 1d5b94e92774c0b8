package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/cart"
	"github.com/easytobuy/storefront/internal/client"
	"github.com/easytobuy/storefront/internal/session"
	"github.com/easytobuy/storefront/internal/storage"
)

// SessionHeader carries the cart session id in both directions
const SessionHeader = "X-Session-ID"

const (
	sessionIDKey = "session_id"
	sessionKey   = "session"
	cartsKey     = "carts"
	cartKey      = "cart"
)

// SessionMiddleware resolves the cart session of the request. A missing
// or malformed id starts a new session; the id in use is echoed back.
// The session's token is attached to every backend call made with the
// request context. The cart is resolved only by handlers that ask for it.
func SessionMiddleware(kv storage.KeyValue, carts *cart.Registry, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if _, err := uuid.Parse(sessionID); err != nil {
			if sessionID != "" {
				logger.Warn("Ignoring malformed session id", zap.String("session_id", sessionID))
			}
			sessionID = uuid.New().String()
		}
		c.Header(SessionHeader, sessionID)

		sess := session.NewStore(kv, sessionID, logger.With(zap.String("session_id", sessionID)))
		ctx := client.WithSession(c.Request.Context(), sess)
		c.Request = c.Request.WithContext(ctx)

		c.Set(sessionIDKey, sessionID)
		c.Set(sessionKey, sess)
		c.Set(cartsKey, carts)

		c.Next()
	}
}

func GetSessionIDFromContext(c *gin.Context) (string, bool) {
	id, ok := c.Get(sessionIDKey)
	if !ok {
		return "", false
	}
	s, ok := id.(string)
	return s, ok
}

// GetSessionFromContext returns the token store of the request's session
func GetSessionFromContext(c *gin.Context) (*session.Store, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Store)
	return s, ok
}

// GetCartFromContext returns the cart of the request's session, loading
// it on first use
func GetCartFromContext(c *gin.Context) (*cart.Store, bool) {
	if v, ok := c.Get(cartKey); ok {
		s, ok := v.(*cart.Store)
		return s, ok
	}

	sessionID, ok := GetSessionIDFromContext(c)
	if !ok {
		return nil, false
	}
	v, ok := c.Get(cartsKey)
	if !ok {
		return nil, false
	}
	carts, ok := v.(*cart.Registry)
	if !ok {
		return nil, false
	}

	s := carts.Get(c.Request.Context(), sessionID)
	c.Set(cartKey, s)
	return s, true
}
