package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	apperrors "github.com/easytobuy/storefront/pkg/errors"
)

// Session supplies the bearer token and is cleared when a service
// answers 401
type Session interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context)
}

type sessionKey struct{}

// WithSession overrides the client's default session for calls made with ctx
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// Options configure a service client
type Options struct {
	BaseURL        string
	Timeout        time.Duration
	BreakerTimeout time.Duration
	// Session is used when the call context carries none
	Session Session
}

var errServerStatus = errors.New("server error status")

// Client is the shared REST base of the service clients
type Client struct {
	service string
	public  bool
	rest    *resty.Client
	breaker *gobreaker.CircuitBreaker[*resty.Response]
	session Session
	logger  *zap.Logger
}

// newClient builds a client for one backend service. Public clients
// send no bearer token and leave the session alone on 401.
func newClient(service string, opts Options, public bool, logger *zap.Logger) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	breakerTimeout := opts.BreakerTimeout
	if breakerTimeout == 0 {
		breakerTimeout = 30 * time.Second
	}

	c := &Client{
		service: service,
		public:  public,
		session: opts.Session,
		logger:  logger.With(zap.String("service", service)),
	}

	c.rest = resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	c.rest.OnBeforeRequest(c.attachToken)

	c.breaker = gobreaker.NewCircuitBreaker[*resty.Response](gobreaker.Settings{
		Name:    service,
		Timeout: breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("Circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return c
}

func (c *Client) sessionFor(ctx context.Context) Session {
	if s, ok := ctx.Value(sessionKey{}).(Session); ok && s != nil {
		return s
	}
	return c.session
}

func (c *Client) attachToken(_ *resty.Client, r *resty.Request) error {
	if c.public {
		return nil
	}
	s := c.sessionFor(r.Context())
	if s == nil {
		return nil
	}
	token, err := s.Token(r.Context())
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	if token != "" {
		r.SetHeader("Authorization", "Bearer "+token)
	}
	return nil
}

// call executes one request and returns the raw 2xx body. When result
// is non-nil the body is decoded into it.
func (c *Client) call(ctx context.Context, method, path string, pathParams map[string]string, body, result interface{}) ([]byte, error) {
	resp, err := c.breaker.Execute(func() (*resty.Response, error) {
		req := c.rest.R().SetContext(ctx)
		if pathParams != nil {
			req.SetPathParams(pathParams)
		}
		if body != nil {
			req.SetBody(body)
		}
		resp, err := req.Execute(method, path)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return resp, errServerStatus
		}
		return resp, nil
	})

	if err != nil && !errors.Is(err, errServerStatus) {
		c.logger.Warn("Request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, &apperrors.ErrUpstream{Service: c.service, Err: err}
	}

	status := resp.StatusCode()
	switch {
	case status == http.StatusUnauthorized:
		if !c.public {
			if s := c.sessionFor(ctx); s != nil {
				s.Clear(ctx)
			}
		}
		return nil, &apperrors.ErrUnauthorized{Message: c.service + " service rejected the request"}
	case status == http.StatusNotFound:
		return nil, &apperrors.ErrNotFound{Resource: c.service, ID: resp.Request.URL}
	case status < 200 || status >= 300:
		c.logger.Warn("Unexpected status", zap.String("method", method), zap.String("path", path), zap.Int("status", status))
		return nil, &apperrors.ErrUpstream{Service: c.service, Status: status, Body: string(resp.Body())}
	}

	if result != nil {
		if err := json.Unmarshal(resp.Body(), result); err != nil {
			return nil, &apperrors.ErrUpstream{Service: c.service, Status: status, Err: fmt.Errorf("failed to unmarshal response: %w", err)}
		}
	}
	return resp.Body(), nil
}
