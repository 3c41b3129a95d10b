package processor

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/pushpipe/pkg/consumer"
	"github.com/dmitrymomot/pushpipe/pkg/logger"
	"github.com/dmitrymomot/pushpipe/pkg/metrics"
	"github.com/dmitrymomot/pushpipe/pkg/notification"
)

// Store persists status records keyed by notification id.
type Store interface {
	Set(ctx context.Context, id string, rec notification.StatusRecord) error
}

// Deliverer attempts delivery of one notification to one subscription and
// returns its terminal outcome.
type Deliverer interface {
	Deliver(ctx context.Context, msg notification.Message, sub notification.Subscription) notification.Outcome
}

// Processor decodes queue messages and drives the per-subscription fan-out.
// Safe for concurrent use by multiple consumer workers.
type Processor struct {
	store       Store
	deliverer   Deliverer
	fanOutLimit int
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures a Processor.
type Option func(*Processor)

// WithFanOutLimit bounds how many subscriptions of one message are delivered
// concurrently.
func WithFanOutLimit(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.fanOutLimit = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock overrides the time source for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a message processor.
func New(store Store, deliverer Deliverer, opts ...Option) (*Processor, error) {
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}
	if deliverer == nil {
		return nil, errors.New("deliverer cannot be nil")
	}

	p := &Processor{
		store:       store,
		deliverer:   deliverer,
		fanOutLimit: 10,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Process handles one raw queue message end to end. It satisfies
// consumer.Handler: a decode or schema failure is wrapped in
// consumer.ErrMalformedMessage so the message is rejected without requeue;
// everything past validation returns nil because all subscriptions have
// been attempted by then.
func (p *Processor) Process(ctx context.Context, body []byte) error {
	start := p.now()

	var msg notification.Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return errors.Join(consumer.ErrMalformedMessage, err)
	}
	if err := msg.Validate(); err != nil {
		return errors.Join(consumer.ErrMalformedMessage, err)
	}

	// Establish visibility for status pollers before any delivery attempt
	// completes. A store hiccup here only delays visibility.
	if err := p.store.Set(ctx, msg.ID, notification.Processing(start)); err != nil {
		p.logger.WarnContext(ctx, "failed to write processing status",
			logger.NotificationID(msg.ID),
			logger.Error(err))
	}

	rec := p.fanOut(ctx, msg)

	if err := p.store.Set(ctx, msg.ID, rec); err != nil {
		// Deliveries already went out; requeueing now would re-send to
		// confirmed endpoints. Log and acknowledge.
		p.logger.ErrorContext(ctx, "failed to persist final status",
			logger.NotificationID(msg.ID),
			logger.Error(err))
	}

	metrics.ProcessingDuration.Observe(p.now().Sub(start).Seconds())
	p.logger.InfoContext(ctx, "notification processed",
		logger.NotificationID(msg.ID),
		logger.UserID(msg.UserID),
		slog.String("status", string(rec.Status)),
		slog.Int("success", rec.SuccessCount),
		slog.Int("failed", rec.FailedCount),
		slog.Int("invalid", rec.InvalidCount))

	return nil
}

// fanOut runs one delivery worker per subscription and aggregates their
// outcomes. Subscriptions are independent; one outcome never affects
// another's execution.
func (p *Processor) fanOut(ctx context.Context, msg notification.Message) notification.StatusRecord {
	report := &notification.Report{}

	sem := make(chan struct{}, p.fanOutLimit)
	var wg sync.WaitGroup
	for _, sub := range msg.Subscriptions {
		sem <- struct{}{}
		wg.Add(1)
		go func(sub notification.Subscription) {
			defer wg.Done()
			defer func() { <-sem }()

			outcome := p.deliverer.Deliver(ctx, msg, sub)
			metrics.DeliveryOutcomesTotal.WithLabelValues(string(outcome.Kind)).Inc()
			report.Add(outcome)
		}(sub)
	}
	wg.Wait()

	return report.Record(p.now())
}
