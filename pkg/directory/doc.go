// Package directory reports permanently dead push subscriptions to the
// user-directory service so they stop receiving fan-out.
//
// Deactivation is an idempotent PUT retried up to three times with
// exponential backoff. Client errors (4xx) are treated as terminal but
// harmless: the device may already be deactivated or the user gone, so the
// call is logged and considered settled. Server errors and network failures
// are retried; exhausting the budget surfaces a reportable, non-fatal error
// that must never alter the delivery outcome already recorded.
//
// A circuit breaker guards the directory endpoint so a hard outage does not
// stall delivery workers on doomed calls.
package directory
