package retry_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pushpipe/pkg/retry"
)

// recordingBackoff captures which attempt numbers were asked for a delay.
type recordingBackoff struct {
	mu       sync.Mutex
	attempts []int
}

func (r *recordingBackoff) NextInterval(attempt int) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, attempt)
	return 0
}

var errBoom = errors.New("boom")

func TestPolicy_Do(t *testing.T) {
	t.Parallel()

	t.Run("succeeds on first attempt", func(t *testing.T) {
		t.Parallel()

		calls := 0
		p := retry.Policy{MaxAttempts: 5, Backoff: retry.Fixed{}}

		err := p.Do(context.Background(), func(ctx context.Context) error {
			calls++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient errors until success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		p := retry.Policy{MaxAttempts: 5, Backoff: retry.Fixed{}}

		err := p.Do(context.Background(), func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return errBoom
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausts the full attempt budget with backoff between attempts", func(t *testing.T) {
		t.Parallel()

		backoff := &recordingBackoff{}
		calls := 0
		p := retry.Policy{MaxAttempts: 5, Backoff: backoff}

		err := p.Do(context.Background(), func(ctx context.Context) error {
			calls++
			return errBoom
		})

		assert.ErrorIs(t, err, retry.ErrAttemptsExhausted)
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, 5, calls)
		// Four sleeps between five attempts, one per completed failure.
		assert.Equal(t, []int{1, 2, 3, 4}, backoff.attempts)
	})

	t.Run("permanent error short-circuits immediately", func(t *testing.T) {
		t.Parallel()

		calls := 0
		p := retry.Policy{
			MaxAttempts: 5,
			Backoff:     retry.Fixed{},
			Permanent:   func(err error) bool { return errors.Is(err, errBoom) },
		}

		err := p.Do(context.Background(), func(ctx context.Context) error {
			calls++
			return errBoom
		})

		assert.ErrorIs(t, err, retry.ErrPermanent)
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context stops the loop", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		p := retry.Policy{MaxAttempts: 5, Backoff: retry.Fixed{Interval: time.Hour}}

		err := p.Do(ctx, func(ctx context.Context) error {
			calls++
			cancel()
			return errBoom
		})

		assert.ErrorIs(t, err, retry.ErrAttemptsExhausted)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("zero value runs exactly once", func(t *testing.T) {
		t.Parallel()

		calls := 0
		var p retry.Policy

		err := p.Do(context.Background(), func(ctx context.Context) error {
			calls++
			return errBoom
		})

		assert.ErrorIs(t, err, retry.ErrAttemptsExhausted)
		assert.Equal(t, 1, calls)
	})
}

func TestDeliveryPolicy(t *testing.T) {
	t.Parallel()

	p := retry.DeliveryPolicy()

	assert.Equal(t, 5, p.MaxAttempts)
	assert.Equal(t, time.Second, p.Backoff.NextInterval(1))
	assert.Equal(t, 16*time.Second, p.Backoff.NextInterval(5))
	assert.Equal(t, 30*time.Second, p.Backoff.NextInterval(8))
}
