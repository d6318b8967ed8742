package notify

import (
	"context"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/pkg/logger"
)

// LogSink writes events to the structured log. It is the sink when no
// broker is configured.
type LogSink struct{}

func (LogSink) Deliver(ctx context.Context, event domain.Event) error {
	logger.WithContext(ctx).Info().
		Str("event", event.Type).
		Str("record", event.Ref.String()).
		Str("status", event.Status).
		Str("actor", event.Actor).
		Time("occurred_at", event.OccurredAt).
		Msg("Notification")
	return nil
}
