package directory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/dmitrymomot/pushpipe/pkg/logger"
	"github.com/dmitrymomot/pushpipe/pkg/retry"
)

// statusError carries a non-2xx directory response through the retry loop.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("directory responded with status %d", e.code)
}

// Client talks to the user-directory service. Construct once at process
// start and share between delivery workers; it is safe for concurrent use.
type Client struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	policy  retry.Policy
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client, useful for proxies or testing.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.client = c
		}
	}
}

// WithRetryPolicy overrides the deactivation retry budget.
func WithRetryPolicy(p retry.Policy) Option {
	return func(cl *Client) {
		cl.policy = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// NewClient creates a directory client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		policy:  retry.InvalidationPolicy(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "user-directory",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("directory circuit breaker state changed",
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})

	// Retrying against an open breaker within the backoff window is pointless.
	if c.policy.Permanent == nil {
		c.policy.Permanent = func(err error) bool {
			return errors.Is(err, gobreaker.ErrOpenState)
		}
	}

	return c, nil
}

// DeactivateDevice marks one device token as permanently unusable for the
// given user. The call is idempotent on the directory side. A 4xx response
// settles the call without error: the deactivation may already have
// happened, or the token or user no longer exists.
func (c *Client) DeactivateDevice(ctx context.Context, userID, token string) error {
	target := fmt.Sprintf("%s/api/users/%s/devices/%s/deactivate",
		c.baseURL, url.PathEscape(userID), url.PathEscape(token))

	err := c.policy.Do(ctx, func(ctx context.Context) error {
		_, err := c.breaker.Execute(func() (any, error) {
			return nil, c.deactivate(ctx, target, userID)
		})
		return err
	})
	if err != nil {
		return errors.Join(ErrDeactivationFailed, err)
	}

	c.logger.InfoContext(ctx, "device token deactivated",
		logger.UserID(userID),
		logger.Endpoint(token))

	return nil
}

// deactivate performs a single PUT attempt.
func (c *Client) deactivate(ctx context.Context, target, userID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err // network failure, retryable
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode < http.StatusMultipleChoices:
		return nil
	case resp.StatusCode < http.StatusInternalServerError:
		// Client error: the token or user is already gone. Settled, not retried.
		c.logger.WarnContext(ctx, "directory rejected deactivation",
			logger.UserID(userID),
			slog.Int("status", resp.StatusCode))
		return nil
	default:
		return &statusError{code: resp.StatusCode}
	}
}
