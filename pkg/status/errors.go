package status

import "errors"

var (
	// ErrClientNil is returned when a nil Redis client is provided.
	ErrClientNil = errors.New("redis client cannot be nil")

	// ErrStoreUnavailable wraps Redis failures. Callers must log it and move
	// on: deliveries may already have gone out, so a requeue would duplicate
	// sends.
	ErrStoreUnavailable = errors.New("status store unavailable")

	// ErrNotFound is returned when no record exists for the id, including
	// records already expired by TTL.
	ErrNotFound = errors.New("status record not found")

	// ErrFailedToParseConnString is returned when the Redis URL is invalid.
	ErrFailedToParseConnString = errors.New("failed to parse redis connection string")

	// ErrRedisNotReady is returned when the server did not become reachable
	// within the configured connect budget.
	ErrRedisNotReady = errors.New("redis did not become ready within the given time period")
)
