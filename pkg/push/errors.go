package push

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrMissingVAPIDKeys is returned when the sender is constructed without a
// complete VAPID key pair and subscriber.
var ErrMissingVAPIDKeys = errors.New("missing VAPID configuration: public key, private key and subscriber are required")

// StatusError is a non-2xx provider response.
type StatusError struct {
	Code     int
	Endpoint string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("push provider responded with status %d", e.Code)
}

// IsPermanent reports whether a delivery error indicates the subscription is
// gone or invalid and therefore not worth retrying. Providers signal dead
// endpoints with 404/410; some transports only surface the condition in the
// error text.
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusGone || se.Code == http.StatusNotFound
	}

	return strings.Contains(strings.ToLower(err.Error()), "invalid")
}
