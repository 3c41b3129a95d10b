package notification

// OutcomeKind classifies the result of one delivery attempt sequence.
type OutcomeKind string

const (
	// OutcomeSuccess means the provider accepted the push.
	OutcomeSuccess OutcomeKind = "success"
	// OutcomeFailed means every attempt failed with a transient error.
	OutcomeFailed OutcomeKind = "failed"
	// OutcomeInvalid means the subscription is permanently unusable.
	OutcomeInvalid OutcomeKind = "invalid"
)

// Outcome is the terminal result of delivering one notification to one
// subscription. Exactly one Outcome is produced per subscription per
// processing attempt.
type Outcome struct {
	Kind      OutcomeKind
	Endpoint  string
	MessageID string // provider message reference, set on success
	Err       error  // last delivery error, set on failure
}

// Delivered builds a success outcome carrying the provider's message reference.
func Delivered(endpoint, messageID string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Endpoint: endpoint, MessageID: messageID}
}

// Undeliverable builds a failed outcome carrying the last transient error.
func Undeliverable(endpoint string, err error) Outcome {
	return Outcome{Kind: OutcomeFailed, Endpoint: endpoint, Err: err}
}

// Invalidated builds an outcome for a permanently dead subscription.
func Invalidated(endpoint string) Outcome {
	return Outcome{Kind: OutcomeInvalid, Endpoint: endpoint}
}
