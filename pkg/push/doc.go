// Package push delivers notifications to web push providers and drives the
// per-subscription retry engine.
//
// The Sender wraps a VAPID-signed provider request. The Worker runs one
// subscription through the bounded retry policy (5 attempts, exponential
// backoff capped at 30s), classifies failures, and reports exactly one
// Outcome per subscription:
//
//   - the provider accepted the push: Success with the provider reference
//   - a permanent error (endpoint gone, subscription invalid): Invalid,
//     with exactly one best-effort invalidation call to the user directory
//   - transient errors until the budget runs out: Failed with the last error
//
// Subscriptions are independent; a worker's outcome never affects another's
// execution.
package push
