package services

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// AuditSink receives one event per state transition after it committed.
// Errors are logged by the caller and never fail the transition.
type AuditSink interface {
	Emit(ctx context.Context, event domain.AuditEvent) error
}
