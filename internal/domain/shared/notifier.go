package shared

import "context"

// Notification is a message pushed to a user outside the request cycle.
type Notification struct {
	Recipient string
	Title     string
	Body      string
	Metadata  map[string]string
}

// NotificationDispatcher delivers notifications fire-and-forget.
// Callers must never block on, or fail because of, a dispatch error;
// implementations log failures and move on.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, n Notification)
}
