package notification_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pushpipe/pkg/notification"
)

func TestReport_Record(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	t.Run("counts always add up to the number of outcomes", func(t *testing.T) {
		t.Parallel()

		report := &notification.Report{}
		report.Add(notification.Delivered("https://a", "201"))
		report.Add(notification.Undeliverable("https://b", errors.New("timeout")))
		report.Add(notification.Invalidated("https://c"))
		report.Add(notification.Delivered("https://d", "201"))

		rec := report.Record(now)

		assert.Equal(t, 4, rec.SuccessCount+rec.FailedCount+rec.InvalidCount)
		assert.Equal(t, 2, rec.SuccessCount)
		assert.Equal(t, 1, rec.FailedCount)
		assert.Equal(t, 1, rec.InvalidCount)
		assert.Equal(t, now, rec.UpdatedAt)
	})

	t.Run("sent iff at least one success", func(t *testing.T) {
		t.Parallel()

		report := &notification.Report{}
		report.Add(notification.Undeliverable("https://a", errors.New("503")))
		report.Add(notification.Delivered("https://b", "201"))

		assert.Equal(t, notification.StatusSent, report.Record(now).Status)
	})

	t.Run("failed when nothing succeeded", func(t *testing.T) {
		t.Parallel()

		report := &notification.Report{}
		report.Add(notification.Undeliverable("https://a", errors.New("503")))
		report.Add(notification.Invalidated("https://b"))

		assert.Equal(t, notification.StatusFailed, report.Record(now).Status)
	})

	t.Run("zero subscriptions yields failed", func(t *testing.T) {
		t.Parallel()

		report := &notification.Report{}
		rec := report.Record(now)

		assert.Equal(t, notification.StatusFailed, rec.Status)
		assert.Zero(t, rec.SuccessCount)
		assert.Zero(t, rec.FailedCount)
		assert.Zero(t, rec.InvalidCount)
		assert.NotNil(t, rec.Results.Success)
		assert.NotNil(t, rec.Results.Failed)
		assert.NotNil(t, rec.Results.Invalid)
	})

	t.Run("result buckets carry delivery detail", func(t *testing.T) {
		t.Parallel()

		report := &notification.Report{}
		report.Add(notification.Delivered("https://a", "msg-1"))
		report.Add(notification.Undeliverable("https://b", errors.New("timeout")))
		report.Add(notification.Invalidated("https://c"))

		rec := report.Record(now)

		require.Len(t, rec.Results.Success, 1)
		assert.Equal(t, "https://a", rec.Results.Success[0].Endpoint)
		assert.Equal(t, "msg-1", rec.Results.Success[0].MessageID)

		require.Len(t, rec.Results.Failed, 1)
		assert.Equal(t, "https://b", rec.Results.Failed[0].Endpoint)
		assert.Equal(t, "timeout", rec.Results.Failed[0].Error)

		require.Len(t, rec.Results.Invalid, 1)
		assert.Equal(t, "https://c", rec.Results.Invalid[0])
	})

	t.Run("concurrent adds are safe", func(t *testing.T) {
		t.Parallel()

		report := &notification.Report{}
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				report.Add(notification.Delivered("https://a", "201"))
			}()
		}
		wg.Wait()

		assert.Equal(t, 50, report.Len())
		assert.Equal(t, 50, report.Record(now).SuccessCount)
	})
}

func TestProcessing(t *testing.T) {
	t.Parallel()

	now := time.Now()
	rec := notification.Processing(now)

	assert.Equal(t, notification.StatusProcessing, rec.Status)
	assert.Equal(t, now, rec.UpdatedAt)
}
