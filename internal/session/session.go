package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/domain"
	"github.com/easytobuy/storefront/internal/storage"
)

const (
	TokenKey = "token"
	UserKey  = "user"
)

// Store persists the bearer token and user profile of one session
type Store struct {
	kv       storage.KeyValue
	tokenKey string
	userKey  string
	logger   *zap.Logger
	now      func() time.Time
}

// NewStore creates a session store. An empty scope uses the bare
// token/user keys; otherwise keys are suffixed with the scope.
func NewStore(kv storage.KeyValue, scope string, logger *zap.Logger) *Store {
	s := &Store{
		kv:       kv,
		tokenKey: TokenKey,
		userKey:  UserKey,
		logger:   logger,
		now:      time.Now,
	}
	if scope != "" {
		s.tokenKey = TokenKey + ":" + scope
		s.userKey = UserKey + ":" + scope
	}
	return s
}

// Save stores the token and profile from a login response
func (s *Store) Save(ctx context.Context, resp domain.AuthResponse) error {
	if err := s.kv.Set(ctx, s.tokenKey, []byte(resp.Token)); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	user, err := json.Marshal(resp.User())
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.kv.Set(ctx, s.userKey, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// Token returns the stored bearer token, or "" when there is none.
// An expired token is cleared and reported as absent.
func (s *Store) Token(ctx context.Context) (string, error) {
	data, err := s.kv.Get(ctx, s.tokenKey)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	token := string(data)
	if s.expired(token) {
		s.logger.Info("Stored token expired, clearing session")
		s.Clear(ctx)
		return "", nil
	}
	return token, nil
}

// User returns the stored profile, or nil when logged out
func (s *Store) User(ctx context.Context) (*domain.User, error) {
	data, err := s.kv.Get(ctx, s.userKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		s.logger.Warn("Discarding unreadable user profile", zap.Error(err))
		return nil, nil
	}
	return &user, nil
}

// Clear removes token and profile. Storage failures are logged only.
func (s *Store) Clear(ctx context.Context) {
	for _, key := range []string{s.tokenKey, s.userKey} {
		if err := s.kv.Delete(ctx, key); err != nil {
			s.logger.Error("Failed to clear session", zap.String("key", key), zap.Error(err))
		}
	}
}

// expired reads the exp claim without verifying the signature. Tokens
// that are not JWTs, or carry no exp, are never treated as expired.
func (s *Store) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !s.now().Before(exp.Time)
}
