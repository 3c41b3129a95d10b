package consumer

import "errors"

var (
	// ErrHandlerNil is returned when the consumer is constructed without a
	// handler.
	ErrHandlerNil = errors.New("message handler cannot be nil")

	// ErrMalformedMessage marks an undecodable or schema-invalid message
	// body. Handlers wrap decode failures with it so the consumer rejects
	// the message without requeue instead of redelivering it forever.
	ErrMalformedMessage = errors.New("malformed queue message")

	// errChannelClosed signals that the broker closed the delivery stream
	// without an accompanying connection error.
	errChannelClosed = errors.New("broker delivery channel closed")
)
