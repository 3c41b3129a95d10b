package notification

import "errors"

var (
	// ErrMissingID is returned when a message carries no notification id.
	ErrMissingID = errors.New("notification id is required")

	// ErrMissingDevices is returned when the devices list is absent from the
	// message body. An empty list is valid and yields a "failed" record.
	ErrMissingDevices = errors.New("devices list is required")

	// ErrInvalidSubscription is returned when a subscription is missing its
	// endpoint or encryption keys.
	ErrInvalidSubscription = errors.New("subscription is missing endpoint or keys")
)
