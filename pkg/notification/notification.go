package notification

import "encoding/json"

// Keys holds the client-side encryption material of a web push subscription.
type Keys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// Subscription identifies one registered device: a provider-issued endpoint
// URL plus the encryption keys the browser generated for it. The pipeline
// treats it as opaque beyond presence validation.
type Subscription struct {
	Endpoint string `json:"endpoint"`
	Keys     Keys   `json:"keys"`
}

// Validate reports whether the subscription carries everything a provider
// needs to accept a push.
func (s Subscription) Validate() error {
	if s.Endpoint == "" || s.Keys.P256dh == "" || s.Keys.Auth == "" {
		return ErrInvalidSubscription
	}
	return nil
}

// Message is one notification request as it arrives from the queue.
// The JSON layout matches the wire schema produced by the gateway.
type Message struct {
	ID            string         `json:"notification_id"`
	UserID        string         `json:"user_id"`
	Subscriptions []Subscription `json:"devices"`
	Title         string         `json:"title"`
	Body          string         `json:"body"`
	ActionURL     string         `json:"action_url,omitempty"`
}

// Validate checks the message-level schema. Per-subscription validation is
// deferred to delivery time so one malformed device cannot poison the whole
// message.
func (m Message) Validate() error {
	if m.ID == "" {
		return ErrMissingID
	}
	if m.Subscriptions == nil {
		return ErrMissingDevices
	}
	return nil
}

// payloadData is the custom data block shipped inside the push payload.
type payloadData struct {
	NotificationID string `json:"notification_id"`
	ActionURL      string `json:"action_url"`
}

type payload struct {
	Title string      `json:"title"`
	Body  string      `json:"body"`
	Data  payloadData `json:"data"`
}

// PushPayload renders the JSON payload handed to the push provider.
func (m Message) PushPayload() ([]byte, error) {
	return json.Marshal(payload{
		Title: m.Title,
		Body:  m.Body,
		Data: payloadData{
			NotificationID: m.ID,
			ActionURL:      m.ActionURL,
		},
	})
}
