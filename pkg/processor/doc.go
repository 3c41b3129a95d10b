// Package processor turns one queue message into a fan-out of delivery
// attempts and an aggregated status record.
//
// On dequeue it immediately writes a "processing" record so status pollers
// see the notification before any delivery completes, then runs one
// delivery worker per subscription (concurrently, bounded by the fan-out
// limit), collects the outcomes, and persists the final record.
//
// Delivery-level failures never fail the message: the broker message is
// acknowledged once every subscription has been attempted, regardless of
// how many succeeded and regardless of status-store health. A failed final
// store write is logged and swallowed, because deliveries already went out
// and a requeue would duplicate sends.
package processor
