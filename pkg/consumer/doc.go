// Package consumer maintains a durable AMQP connection to the broker and
// feeds queue messages to a handler with an acknowledge/negative-acknowledge
// contract.
//
// The consumption loop is a state machine: Disconnected → Connecting →
// Consuming → (error) → Disconnected. On every entry to Connecting it
// declares the durable target queue and sets a bounded prefetch window so
// the broker never floods the consumer faster than it can process. The loop
// never terminates the process on broker failure; it backs off per error
// class and reconnects forever. Only context cancellation stops it, after
// letting in-flight handlers drain.
//
// Each message is dispatched to a bounded worker pool sized to the prefetch
// window. Delivery semantics are at-least-once: an unhandled processing
// failure nacks with requeue, so duplicates are possible on redelivery.
// Malformed messages (wrapped in ErrMalformedMessage) are rejected without
// requeue to avoid an infinite redelivery loop.
package consumer
