package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/platform/logging"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// BaseService provides common functionality for all services
type BaseService struct {
	auditSink portssvc.AuditSink
	clock     func() time.Time
}

// ServiceOption is a functional option shared by every service
type ServiceOption func(*BaseService)

// WithAuditSink sets the sink receiving state transition events.
func WithAuditSink(sink portssvc.AuditSink) ServiceOption {
	return func(s *BaseService) {
		s.auditSink = sink
	}
}

// WithClock overrides the wall clock, mostly for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.clock = clock
	}
}

func newBaseService(options ...ServiceOption) BaseService {
	base := BaseService{clock: time.Now}
	for _, option := range options {
		option(&base)
	}
	return base
}

// GetLogger gets the job-scoped logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Now returns the current instant in UTC.
func (s *BaseService) Now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

// EmitAfterCommit schedules an audit event for when tx commits. Sink failures are
// logged and swallowed.
func (s *BaseService) EmitAfterCommit(tx portsrepo.LedgerTx, event domain.AuditEvent) {
	if s.auditSink == nil {
		return
	}
	event.EventID = uuid.NewString()
	event.OccurredAt = s.Now()
	tx.AfterCommit(func(ctx context.Context) {
		if err := s.auditSink.Emit(ctx, event); err != nil {
			s.LogWarn(ctx, "Failed to emit audit event",
				slog.String("error", err.Error()),
				slog.String("kind", string(event.Kind)),
				slog.String("entity_id", event.EntityID))
		}
	})
}

// validateRequest runs struct tag validation and maps failures to ErrValidation.
func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: field '%s' failed on '%s'", apperrors.ErrValidation, verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}
