package notification

import (
	"context"

	"github.com/gites/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LogDispatcher delivers notifications by writing them to the
// structured log. It stands in for a real push or email channel and
// honors the fire-and-forget contract: Dispatch never returns an error.
type LogDispatcher struct {
	logger *zap.Logger
}

// NewLogDispatcher creates a new LogDispatcher
func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

// Dispatch logs the notification
func (d *LogDispatcher) Dispatch(_ context.Context, n shared.Notification) {
	fields := []zap.Field{
		zap.String("recipient", n.Recipient),
		zap.String("title", n.Title),
		zap.String("body", n.Body),
	}
	for k, v := range n.Metadata {
		fields = append(fields, zap.String(k, v))
	}
	d.logger.Info("notification dispatched", fields...)
}

// Ensure LogDispatcher implements NotificationDispatcher
var _ shared.NotificationDispatcher = (*LogDispatcher)(nil)
