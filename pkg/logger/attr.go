package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under the key "user_id".
func UserID(id string) slog.Attr {
	return slog.String("user_id", id)
}

// NotificationID records the notification identifier under the key
// "notification_id".
func NotificationID(id string) slog.Attr {
	return slog.String("notification_id", id)
}

// Endpoint records a subscription endpoint under the key "endpoint",
// truncated so provider URLs don't flood the logs.
func Endpoint(endpoint string) slog.Attr {
	const max = 48
	if len(endpoint) > max {
		endpoint = endpoint[:max] + "..."
	}
	return slog.String("endpoint", endpoint)
}
