package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/consumer-platform/internal/observability"
)

// RegisterAuditLog subscribes a handler that writes an audit log line and
// bumps the auth event counter for every published auth event.
func RegisterAuditLog(d Dispatcher, logger *zap.Logger, metrics *observability.Metrics) {
	handler := func(_ context.Context, e Event) error {
		logger.Info("auth event",
			zap.String("event_id", e.ID),
			zap.String("type", string(e.Type)),
			zap.String("user_id", e.UserID),
		)
		metrics.RecordAuthEvent(string(e.Type))
		return nil
	}

	for _, eventType := range []EventType{EventUserRegistered, EventUserLoggedIn, EventUserLoggedOut} {
		d.Subscribe(eventType, handler)
	}
}
