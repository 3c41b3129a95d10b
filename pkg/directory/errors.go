package directory

import "errors"

var (
	// ErrEmptyBaseURL is returned when the client is constructed without a
	// directory service URL.
	ErrEmptyBaseURL = errors.New("directory base URL cannot be empty")

	// ErrDeactivationFailed wraps errors after the retry budget is exhausted.
	// It is reportable but non-fatal to the caller.
	ErrDeactivationFailed = errors.New("device deactivation failed")
)
