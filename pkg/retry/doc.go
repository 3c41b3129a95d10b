// Package retry provides an explicit retry policy used by the delivery
// worker and the invalidation notifier: a bounded attempt budget, a
// pluggable backoff strategy, and an error classifier that short-circuits
// the loop on permanent failures.
//
// Keeping classification and backoff in a standalone policy object makes
// both testable in isolation and keeps the callers free of retry plumbing:
//
//	policy := retry.DeliveryPolicy()
//	err := policy.Do(ctx, func(ctx context.Context) error {
//	    return transport.Send(ctx, sub, payload)
//	})
package retry
