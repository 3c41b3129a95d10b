package retry

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrAttemptsExhausted wraps the last error once the attempt budget runs out.
	ErrAttemptsExhausted = errors.New("retry attempts exhausted")

	// ErrPermanent wraps errors classified as permanent by the policy.
	ErrPermanent = errors.New("permanent failure, not retried")
)

// Policy bounds a retried operation: how many attempts, how long to wait
// between them, and which errors are not worth retrying at all.
// The zero value retries once with no delay; use the constructors for the
// pipeline's standard budgets.
type Policy struct {
	// MaxAttempts is the total attempt budget, first attempt included.
	MaxAttempts int

	// Backoff computes the delay after each failed attempt.
	Backoff BackoffStrategy

	// Permanent reports whether an error should short-circuit the loop.
	// A nil classifier treats every error as transient.
	Permanent func(error) bool
}

// DeliveryPolicy is the per-subscription push budget: 5 attempts with
// exponential backoff 1s, 2s, 4s, 8s, 16s, capped at 30s.
func DeliveryPolicy() Policy {
	return Policy{
		MaxAttempts: 5,
		Backoff:     Exponential{Initial: time.Second, Max: 30 * time.Second, Multiplier: 2},
	}
}

// InvalidationPolicy is the user-directory deactivation budget: 3 attempts
// with exponential backoff capped at 10s.
func InvalidationPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		Backoff:     Exponential{Initial: time.Second, Max: 10 * time.Second, Multiplier: 2},
	}
}

// Do runs fn until it succeeds, a permanent error occurs, the attempt budget
// is exhausted, or ctx is done. Backoff sleeps respect context cancellation.
//
// On a permanent error the return value wraps ErrPermanent; on exhaustion it
// wraps ErrAttemptsExhausted together with the last attempt's error.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			delay := time.Duration(0)
			if p.Backoff != nil {
				delay = p.Backoff.NextInterval(attempt - 1)
			}
			select {
			case <-ctx.Done():
				return errors.Join(ErrAttemptsExhausted, ctx.Err(), lastErr)
			case <-time.After(delay):
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if p.Permanent != nil && p.Permanent(err) {
			return errors.Join(ErrPermanent, err)
		}
	}

	return errors.Join(ErrAttemptsExhausted, lastErr)
}
