package listeners

import (
	"context"

	"github.com/RobasAhmedShah/hmr-backend/internal/events"
	"github.com/RobasAhmedShah/hmr-backend/internal/logger"
	"go.uber.org/zap"
)

// auditLog writes one structured trace line per event.
func auditLog(_ context.Context, e events.Envelope) error {
	logger.Log.Info("event",
		zap.String("name", e.Name),
		zap.String("event_id", e.EventID),
		zap.Time("occurred_at", e.OccurredAt),
		zap.ByteString("payload", e.Payload))
	return nil
}
