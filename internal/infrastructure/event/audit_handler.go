package event

import (
	"context"

	"github.com/charlykso/smart-s-sub004/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditLogHandler writes every ledger event to the structured log. The
// log line is the audit trail for fee and payment state changes; it
// subscribes as a wildcard handler so new event types are covered
// without registration changes.
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates a new AuditLogHandler
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogHandler{logger: logger.Named("audit")}
}

// Handle logs the event
func (h *AuditLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("ledger event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("group_school_id", event.GroupSchoolID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns an empty slice: the handler receives all events
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*AuditLogHandler)(nil)
