package client

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/domain"
	apperrors "github.com/easytobuy/storefront/pkg/errors"
)

// AuthClient talks to the auth service. Login is sent without a token.
type AuthClient struct {
	public  *Client
	private *Client
}

func NewAuthClient(opts Options, logger *zap.Logger) *AuthClient {
	return &AuthClient{
		public:  newClient("auth", opts, true, logger),
		private: newClient("auth", opts, false, logger),
	}
}

// Login handles POST /login
func (c *AuthClient) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if _, err := c.public.call(ctx, http.MethodPost, "/login", nil, req, &resp); err != nil {
		var unauthorized *apperrors.ErrUnauthorized
		if errors.As(err, &unauthorized) {
			return nil, &apperrors.ErrUnauthorized{Message: "invalid email or password"}
		}
		return nil, err
	}
	if resp.Token == "" {
		return nil, &apperrors.ErrUpstream{Service: "auth", Status: http.StatusOK, Body: "login response without token"}
	}
	return &resp, nil
}

// Me handles GET /me with the current token
func (c *AuthClient) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if _, err := c.private.call(ctx, http.MethodGet, "/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
