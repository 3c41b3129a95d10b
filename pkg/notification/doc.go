// Package notification defines the domain model shared across the delivery
// pipeline: the queue message, web push subscriptions, per-subscription
// delivery outcomes, and the aggregated status record persisted for pollers.
//
// A Message is immutable once dequeued. Each subscription produces exactly
// one Outcome per processing attempt; a Report collects those outcomes and
// folds them into a StatusRecord. The aggregation rules are:
//
//   - success_count + failed_count + invalid_count == len(devices)
//   - status is "sent" iff at least one delivery succeeded, otherwise
//     "failed" (a message with no devices is reported as "failed")
package notification
