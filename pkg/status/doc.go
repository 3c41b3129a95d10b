// Package status persists aggregated delivery status records in Redis.
//
// Records live under "notification:<id>" and expire 24 hours after the most
// recent write; every write refreshes the TTL to the full window. Writes are
// idempotent single-key SETs, so concurrent message handlers never contend
// as long as notification ids are unique (a producer responsibility).
package status
