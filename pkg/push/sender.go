package push

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/dmitrymomot/pushpipe/pkg/notification"
)

// Sender performs one VAPID-signed push request to the provider endpoint
// named by the subscription. Implementations must be safe for concurrent use.
type Sender interface {
	// Send returns the provider's message reference on acceptance, or an
	// error classifiable by IsPermanent.
	Send(ctx context.Context, sub notification.Subscription, payload []byte) (string, error)
}

// WebPushSender delivers via the Web Push protocol using webpush-go.
type WebPushSender struct {
	publicKey  string
	privateKey string
	subscriber string
	ttl        int
	client     *http.Client
}

// SenderOption configures a WebPushSender.
type SenderOption func(*WebPushSender)

// WithSenderHTTPClient sets a custom HTTP client for provider requests.
func WithSenderHTTPClient(c *http.Client) SenderOption {
	return func(s *WebPushSender) {
		if c != nil {
			s.client = c
		}
	}
}

// NewSender creates a web push sender from VAPID configuration.
func NewSender(cfg Config, opts ...SenderOption) (*WebPushSender, error) {
	if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" || cfg.Subscriber == "" {
		return nil, ErrMissingVAPIDKeys
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ttl := int((24 * time.Hour).Seconds())
	if cfg.MessageTTL > 0 {
		ttl = int(cfg.MessageTTL.Seconds())
	}

	s := &WebPushSender{
		publicKey:  cfg.VAPIDPublicKey,
		privateKey: cfg.VAPIDPrivateKey,
		subscriber: cfg.Subscriber,
		ttl:        ttl,
		client:     &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Send pushes the payload to the subscription's provider endpoint.
func (s *WebPushSender) Send(ctx context.Context, sub notification.Subscription, payload []byte) (string, error) {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			Auth:   sub.Keys.Auth,
			P256dh: sub.Keys.P256dh,
		},
	}, &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      s.subscriber,
		TTL:             s.ttl,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", &StatusError{Code: resp.StatusCode, Endpoint: sub.Endpoint}
	}

	// Providers return the message resource in the Location header; fall
	// back to the status code for those that don't.
	if loc := resp.Header.Get("Location"); loc != "" {
		return loc, nil
	}
	return strconv.Itoa(resp.StatusCode), nil
}
