package status

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/pushpipe/pkg/notification"
)

const keyPrefix = "notification:"

// Commander is the slice of the Redis API the store needs.
// *redis.Client and redis.UniversalClient both satisfy it.
type Commander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Store maps notification ids to status records with write-through TTL
// refresh. Each record is written independently and atomically as a single
// value; there are no cross-key semantics.
type Store struct {
	client       Commander
	ttl          time.Duration
	writeTimeout time.Duration
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithTTL overrides the record retention window.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithWriteTimeout bounds each write so Set never blocks indefinitely.
func WithWriteTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.writeTimeout = d
		}
	}
}

// NewStore creates a status store on top of an established Redis client.
func NewStore(client Commander, opts ...StoreOption) (*Store, error) {
	if client == nil {
		return nil, ErrClientNil
	}

	s := &Store{
		client:       client,
		ttl:          24 * time.Hour,
		writeTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Key returns the Redis key for a notification id.
func Key(id string) string {
	return keyPrefix + id
}

// Set writes the record for the given notification id, refreshing the TTL to
// the full retention window. Writing the same record twice yields the same
// readable state.
func (s *Store) Set(ctx context.Context, id string, rec notification.StatusRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	if err := s.client.Set(ctx, Key(id), payload, s.ttl).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}

	return nil
}

// Get returns the latest record for the id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (notification.StatusRecord, error) {
	var rec notification.StatusRecord

	payload, err := s.client.Get(ctx, Key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return rec, ErrNotFound
		}
		return rec, errors.Join(ErrStoreUnavailable, err)
	}

	if err := json.Unmarshal(payload, &rec); err != nil {
		return rec, errors.Join(ErrStoreUnavailable, err)
	}

	return rec, nil
}
