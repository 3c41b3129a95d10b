package push

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/pushpipe/pkg/logger"
	"github.com/dmitrymomot/pushpipe/pkg/notification"
	"github.com/dmitrymomot/pushpipe/pkg/retry"
)

// Invalidator reports a permanently dead subscription to the owning
// user directory.
type Invalidator interface {
	DeactivateDevice(ctx context.Context, userID, token string) error
}

// Worker attempts delivery of one notification to one subscription, with
// bounded retry and error classification. Safe for concurrent use.
type Worker struct {
	sender      Sender
	invalidator Invalidator
	policy      retry.Policy
	logger      *slog.Logger
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithRetryPolicy overrides the per-subscription retry budget.
func WithRetryPolicy(p retry.Policy) WorkerOption {
	return func(w *Worker) {
		w.policy = p
	}
}

// WithWorkerLogger sets the logger.
func WithWorkerLogger(l *slog.Logger) WorkerOption {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWorker creates a delivery worker. The invalidator may be nil, in which
// case permanently dead subscriptions are only reported in the outcome.
func NewWorker(sender Sender, invalidator Invalidator, opts ...WorkerOption) (*Worker, error) {
	if sender == nil {
		return nil, errors.New("sender cannot be nil")
	}

	w := &Worker{
		sender:      sender,
		invalidator: invalidator,
		policy:      retry.DeliveryPolicy(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.policy.Permanent == nil {
		w.policy.Permanent = IsPermanent
	}

	return w, nil
}

// Deliver runs the full attempt sequence for one subscription and returns
// its terminal outcome. Permanent failures short-circuit the retry loop and
// trigger exactly one invalidation call; that call's own failure never
// alters the Invalid outcome already decided.
func (w *Worker) Deliver(ctx context.Context, msg notification.Message, sub notification.Subscription) notification.Outcome {
	if err := sub.Validate(); err != nil {
		w.logger.WarnContext(ctx, "skipping malformed subscription",
			logger.NotificationID(msg.ID),
			logger.Endpoint(sub.Endpoint),
			logger.Error(err))
		w.invalidate(ctx, msg.UserID, sub.Endpoint)
		return notification.Invalidated(sub.Endpoint)
	}

	payload, err := msg.PushPayload()
	if err != nil {
		return notification.Undeliverable(sub.Endpoint, err)
	}

	var messageID string
	err = w.policy.Do(ctx, func(ctx context.Context) error {
		id, err := w.sender.Send(ctx, sub, payload)
		if err != nil {
			return err
		}
		messageID = id
		return nil
	})

	switch {
	case err == nil:
		w.logger.DebugContext(ctx, "push delivered",
			logger.NotificationID(msg.ID),
			logger.Endpoint(sub.Endpoint))
		return notification.Delivered(sub.Endpoint, messageID)

	case errors.Is(err, retry.ErrPermanent):
		w.logger.InfoContext(ctx, "subscription is gone, invalidating",
			logger.NotificationID(msg.ID),
			logger.Endpoint(sub.Endpoint),
			logger.Error(err))
		w.invalidate(ctx, msg.UserID, sub.Endpoint)
		return notification.Invalidated(sub.Endpoint)

	default:
		w.logger.ErrorContext(ctx, "push delivery failed",
			logger.NotificationID(msg.ID),
			logger.Endpoint(sub.Endpoint),
			logger.Error(err))
		return notification.Undeliverable(sub.Endpoint, err)
	}
}

// invalidate makes the single best-effort deactivation call.
func (w *Worker) invalidate(ctx context.Context, userID, endpoint string) {
	if w.invalidator == nil || endpoint == "" {
		return
	}
	if err := w.invalidator.DeactivateDevice(ctx, userID, endpoint); err != nil {
		w.logger.ErrorContext(ctx, "failed to report dead subscription",
			logger.UserID(userID),
			logger.Endpoint(endpoint),
			logger.Error(err))
	}
}
