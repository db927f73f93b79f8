package audit

import (
	"context"
	"log/slog"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/platform/logging"
)

// LogSink writes audit events as structured log records.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink. A nil logger means the job logger found in the
// context of each Emit call.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

var _ portssvc.AuditSink = (*LogSink)(nil)

// Emit logs the event at info level.
func (s *LogSink) Emit(ctx context.Context, event domain.AuditEvent) error {
	logger := s.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	attrs := []any{
		slog.String("event_id", event.EventID),
		slog.String("tenant_id", event.TenantID),
		slog.String("kind", string(event.Kind)),
		slog.String("entity_type", event.EntityType),
		slog.String("entity_id", event.EntityID),
		slog.String("old_status", event.OldStatus),
		slog.String("new_status", event.NewStatus),
		slog.String("actor", event.Actor),
		slog.Time("occurred_at", event.OccurredAt),
	}
	if len(event.Details) > 0 {
		details := make([]any, 0, len(event.Details))
		for k, v := range event.Details {
			details = append(details, slog.String(k, v))
		}
		attrs = append(attrs, slog.Group("details", details...))
	}
	logger.InfoContext(ctx, "Audit event", attrs...)
	return nil
}
