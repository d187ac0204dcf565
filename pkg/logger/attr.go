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
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// NotificationID records the notification identifier under the key "notification_id".
// If id is nil, it returns an empty Attr.
func NotificationID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("notification_id", id)
}

// Channel records the delivery channel under the key "channel".
func Channel(channel string) slog.Attr {
	return slog.String("channel", channel)
}

// Recipient records the delivery address under the key "recipient".
func Recipient(addr string) slog.Attr {
	return slog.String("recipient", addr)
}

// EventID records the inbound event identifier under the key "event_id".
// If id is nil, it returns an empty Attr.
func EventID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("event_id", id)
}

// EventType records the event type under the key "event_type".
func EventType(eventType string) slog.Attr {
	return slog.String("event_type", eventType)
}

// Attempts records the delivery attempt counter under the key "attempts".
func Attempts(n int) slog.Attr {
	return slog.Int("attempts", n)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Template records the template name under the key "template".
func Template(name string) slog.Attr {
	return slog.String("template", name)
}
