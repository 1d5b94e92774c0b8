package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/domain"
	apperrors "github.com/easytobuy/storefront/pkg/errors"
)

// Authenticator is the remote auth service
type Authenticator interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
	Me(ctx context.Context) (*domain.User, error)
}

// SessionStore keeps the token and profile of one session
type SessionStore interface {
	Save(ctx context.Context, resp domain.AuthResponse) error
	User(ctx context.Context) (*domain.User, error)
	Clear(ctx context.Context)
}

type AuthService struct {
	auth     Authenticator
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(auth Authenticator, logger *zap.Logger) *AuthService {
	return &AuthService{
		auth:     auth,
		validate: newValidator(),
		logger:   logger,
	}
}

// Login authenticates against the auth service and stores the token and
// profile in sess
func (s *AuthService) Login(ctx context.Context, sess SessionStore, req domain.LoginRequest) (*domain.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	resp, err := s.auth.Login(ctx, req)
	if err != nil {
		s.logger.Warn("Login rejected", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	if err := sess.Save(ctx, *resp); err != nil {
		s.logger.Error("Failed to save session", zap.Error(err))
		return nil, err
	}

	user := resp.User()
	s.logger.Info("User logged in", zap.String("email", user.Email), zap.String("role", user.Role))
	return &user, nil
}

func (s *AuthService) Logout(ctx context.Context, sess SessionStore) {
	sess.Clear(ctx)
}

// Me fetches the current profile from the auth service, using the token
// of the session carried by ctx. When the auth service cannot be reached
// the profile stored at login is returned instead; a rejected token is
// always reported.
func (s *AuthService) Me(ctx context.Context, sess SessionStore) (*domain.User, error) {
	user, err := s.auth.Me(ctx)
	if err == nil {
		return user, nil
	}

	var unauthorized *apperrors.ErrUnauthorized
	if errors.As(err, &unauthorized) {
		return nil, err
	}

	stored, serr := sess.User(ctx)
	if serr != nil || stored == nil {
		return nil, err
	}
	s.logger.Warn("Auth service unavailable, using stored profile", zap.Error(err))
	return stored, nil
}
