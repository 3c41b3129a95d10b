package consumer

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dmitrymomot/pushpipe/pkg/logger"
	"github.com/dmitrymomot/pushpipe/pkg/metrics"
)

const (
	heartbeatInterval = 30 * time.Second
	dialTimeout       = 30 * time.Second

	// blockedConnectionTimeout bounds how long the consumer tolerates a
	// broker-side connection block before tearing down and reconnecting.
	// Applies when the transport is encrypted, where managed brokers use
	// flow control aggressively.
	blockedConnectionTimeout = 300 * time.Second

	brokerRetryDelay  = 5 * time.Second
	tlsRetryDelay     = 10 * time.Second
	defaultRetryDelay = 5 * time.Second
)

// Handler processes one raw queue message. A nil return acknowledges the
// message; an error wrapped in ErrMalformedMessage rejects it without
// requeue; any other error nacks it with requeue enabled.
type Handler func(ctx context.Context, body []byte) error

// Consumer owns the broker connection and drives the reconnecting
// consumption loop. The AMQP channel is owned exclusively by the loop; acks
// and nacks travel through the per-delivery acknowledger back to it.
type Consumer struct {
	url      string
	queue    string
	prefetch int
	handler  Handler
	logger   *slog.Logger
}

// Option configures a Consumer.
type Option func(*Consumer)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Consumer) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a consumer for the configured durable queue.
func New(cfg Config, handler Handler, opts ...Option) (*Consumer, error) {
	if handler == nil {
		return nil, ErrHandlerNil
	}

	prefetch := cfg.Prefetch
	if prefetch <= 0 {
		prefetch = 10
	}

	c := &Consumer{
		url:      cfg.URL,
		queue:    cfg.Queue,
		prefetch: prefetch,
		handler:  handler,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Run consumes until ctx is cancelled, reconnecting forever on broker or
// network failure. The backoff before reconnecting depends on the error
// class: broker/protocol errors and unexpected failures wait 5s, transport
// security errors wait 10s. Run returns nil on clean shutdown.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		err := c.consume(ctx)
		if ctx.Err() != nil {
			c.logger.Info("consumer stopped", slog.String("queue", c.queue))
			return nil
		}

		delay := reconnectDelay(err)
		c.logger.Warn("broker connection lost, reconnecting",
			slog.String("queue", c.queue),
			slog.Duration("retry_in", delay),
			logger.Error(err))
		metrics.ReconnectsTotal.Inc()

		select {
		case <-ctx.Done():
			c.logger.Info("consumer stopped", slog.String("queue", c.queue))
			return nil
		case <-time.After(delay):
		}
	}
}

// consume runs one Connecting → Consuming cycle: dial, declare the durable
// queue, bound the prefetch window, then dispatch deliveries to the worker
// pool until the connection breaks or ctx is cancelled. In-flight handlers
// are drained before the connection closes.
func (c *Consumer) consume(ctx context.Context) error {
	useTLS := strings.HasPrefix(c.url, "amqps://")

	amqpCfg := amqp.Config{
		Heartbeat: heartbeatInterval,
		Dial:      amqp.DefaultDial(dialTimeout),
	}
	if useTLS {
		amqpCfg.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	conn, err := amqp.DialConfig(c.url, amqpCfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return err
	}

	tag := "pushd-" + uuid.NewString()
	deliveries, err := ch.ConsumeWithContext(ctx, c.queue, tag, false, false, false, false, nil)
	if err != nil {
		return err
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	var blocked chan amqp.Blocking
	if useTLS {
		blocked = conn.NotifyBlocked(make(chan amqp.Blocking, 1))
	}

	c.logger.Info("consuming",
		slog.String("queue", c.queue),
		slog.Int("prefetch", c.prefetch))

	// Worker pool sized to the prefetch window: the broker may have up to
	// c.prefetch unacknowledged messages in flight, each owned by one worker.
	sem := make(chan struct{}, c.prefetch)
	var wg sync.WaitGroup
	defer wg.Wait()

	var blockedDeadline <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case amqpErr, ok := <-closed:
			if !ok || amqpErr == nil {
				return errChannelClosed
			}
			return amqpErr

		case b := <-blocked:
			if b.Active {
				c.logger.Warn("broker blocked the connection", slog.String("reason", b.Reason))
				blockedDeadline = time.After(blockedConnectionTimeout)
			} else {
				blockedDeadline = nil
			}

		case <-blockedDeadline:
			return fmt.Errorf("connection blocked by broker for over %s", blockedConnectionTimeout)

		case d, ok := <-deliveries:
			if !ok {
				return errChannelClosed
			}
			metrics.MessagesConsumedTotal.Inc()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				// Shutdown before a worker slot freed up; hand the message
				// back to the broker.
				_ = d.Nack(false, true)
				return ctx.Err()
			}

			wg.Add(1)
			go func(d amqp.Delivery) {
				defer wg.Done()
				defer func() { <-sem }()
				c.dispatch(ctx, d)
			}(d)
		}
	}
}

// dispatch runs the handler for one delivery and settles it with the broker
// exactly once.
func (c *Consumer) dispatch(ctx context.Context, d amqp.Delivery) {
	err := c.handle(ctx, d.Body)
	switch {
	case err == nil:
		if err := d.Ack(false); err != nil {
			c.logger.Error("failed to ack message", logger.Error(err))
			return
		}
		metrics.MessagesAckedTotal.Inc()

	case errors.Is(err, ErrMalformedMessage):
		// Requeueing an undecodable body would loop forever; reject it so
		// the broker dead-letters or drops it.
		c.logger.Error("rejecting malformed message", logger.Error(err))
		if err := d.Nack(false, false); err != nil {
			c.logger.Error("failed to reject message", logger.Error(err))
			return
		}
		metrics.MessagesNackedTotal.WithLabelValues("false").Inc()

	default:
		c.logger.Error("message processing failed, requeueing", logger.Error(err))
		if err := d.Nack(false, true); err != nil {
			c.logger.Error("failed to nack message", logger.Error(err))
			return
		}
		metrics.MessagesNackedTotal.WithLabelValues("true").Inc()
	}
}

// handle invokes the handler with panic recovery so one poisonous message
// cannot take down the consumption loop.
func (c *Consumer) handle(ctx context.Context, body []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in message handler: %v", r)
		}
	}()
	return c.handler(ctx, body)
}

// reconnectDelay classifies a connection-loss error into its backoff class.
func reconnectDelay(err error) time.Duration {
	if err == nil {
		return defaultRetryDelay
	}

	if isTLSError(err) {
		return tlsRetryDelay
	}

	var amqpErr *amqp.Error
	if errors.As(err, &amqpErr) {
		return brokerRetryDelay
	}

	return defaultRetryDelay
}

func isTLSError(err error) bool {
	var (
		recordErr   tls.RecordHeaderError
		verifyErr   *tls.CertificateVerificationError
		unknownAuth x509.UnknownAuthorityError
		hostname    x509.HostnameError
		certInvalid x509.CertificateInvalidError
	)
	return errors.As(err, &recordErr) ||
		errors.As(err, &verifyErr) ||
		errors.As(err, &unknownAuth) ||
		errors.As(err, &hostname) ||
		errors.As(err, &certInvalid)
}
