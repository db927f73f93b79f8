package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
)

const entityPeriod = "accounting_period"

// periodService manages fiscal years and the period state machine.
type periodService struct {
	BaseService
	txm portsrepo.TransactionManager
}

// NewPeriodService creates a new PeriodService.
func NewPeriodService(txm portsrepo.TransactionManager, options ...ServiceOption) portssvc.PeriodSvcFacade {
	return &periodService{
		BaseService: newBaseService(options...),
		txm:         txm,
	}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

func periodTransitionError(op string, period domain.AccountingPeriod, to domain.PeriodStatus, detail string) *apperrors.LedgerError {
	e := apperrors.IllegalTransition(op, "", string(period.Status), string(to))
	e.PeriodID = period.PeriodID
	if detail != "" {
		e.Detail = e.Detail + ": " + detail
	}
	return e
}

// CreateFiscalYear creates a fiscal year and its monthly periods, all in future state.
func (s *periodService) CreateFiscalYear(ctx context.Context, tx portsrepo.LedgerTx, req dto.CreateFiscalYearRequest) (*domain.FiscalYear, []domain.AccountingPeriod, error) {
	if err := validateRequest(req); err != nil {
		return nil, nil, err
	}

	now := s.Now()
	audit := domain.NewAuditFields(req.CreatedBy, now)
	fiscalYearID := uuid.NewString()

	periods := domain.MonthlyPeriods(req.TenantID, fiscalYearID, req.StartDate, req.Months)
	for i := range periods {
		periods[i].PeriodID = uuid.NewString()
		periods[i].AuditFields = audit
	}
	fiscalYear := domain.FiscalYear{
		FiscalYearID: fiscalYearID,
		TenantID:     req.TenantID,
		Name:         req.Name,
		StartDate:    periods[0].StartDate,
		EndDate:      periods[len(periods)-1].EndDate,
		AuditFields:  audit,
	}

	existing, err := tx.ListPeriods(ctx, req.TenantID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list periods: %w", err)
	}
	for _, p := range existing {
		if !p.StartDate.After(fiscalYear.EndDate) && !p.EndDate.Before(fiscalYear.StartDate) {
			return nil, nil, fmt.Errorf("%w: fiscal year %s overlaps period %s", apperrors.ErrDuplicate, req.Name, p.Name)
		}
	}

	if err := tx.SaveFiscalYear(ctx, fiscalYear, periods); err != nil {
		s.LogError(ctx, err, "Failed to save fiscal year", slog.String("name", req.Name))
		return nil, nil, fmt.Errorf("failed to create fiscal year: %w", err)
	}

	s.LogInfo(ctx, "Fiscal year created",
		slog.String("fiscal_year_id", fiscalYearID),
		slog.String("start", fiscalYear.StartDate.Format(domain.DateLayout)),
		slog.String("end", fiscalYear.EndDate.Format(domain.DateLayout)),
		slog.Int("periods", len(periods)))
	return &fiscalYear, periods, nil
}

// OpenPeriod moves a future period to open. Every earlier period of the same fiscal
// year must already be closed, so at most one period per year is ever active.
func (s *periodService) OpenPeriod(ctx context.Context, tx portsrepo.LedgerTx, tenantID, periodID, actor string) (*domain.AccountingPeriod, error) {
	const op = "Period.Open"
	period, err := tx.LockPeriod(ctx, tenantID, periodID, domain.LockExclusive)
	if err != nil {
		return nil, fmt.Errorf("failed to lock period %s: %w", periodID, err)
	}
	if !period.Status.CanTransitionTo(domain.PeriodOpen) {
		return nil, periodTransitionError(op, *period, domain.PeriodOpen, "")
	}

	siblings, err := tx.ListPeriods(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	for _, p := range siblings {
		if p.FiscalYearID != period.FiscalYearID || p.PeriodID == period.PeriodID {
			continue
		}
		if p.Status.IsActive() {
			return nil, periodTransitionError(op, *period, domain.PeriodOpen, fmt.Sprintf("period %s is still %s", p.Name, p.Status))
		}
		if p.Sequence < period.Sequence && p.Status != domain.PeriodClosed {
			return nil, periodTransitionError(op, *period, domain.PeriodOpen, fmt.Sprintf("earlier period %s is not closed", p.Name))
		}
	}

	return s.transition(ctx, tx, *period, domain.PeriodOpen, actor, domain.EventPeriodOpened)
}

// BeginClosing locks the period exclusively and moves it open -> closing. Postings
// hold a shared lock, so none can race the close.
func (s *periodService) BeginClosing(ctx context.Context, tx portsrepo.LedgerTx, tenantID, periodID, actor string) (*domain.AccountingPeriod, error) {
	const op = "Period.BeginClosing"
	period, err := tx.LockPeriod(ctx, tenantID, periodID, domain.LockExclusive)
	if err != nil {
		return nil, fmt.Errorf("failed to lock period %s: %w", periodID, err)
	}
	if !period.Status.CanTransitionTo(domain.PeriodClosing) {
		return nil, periodTransitionError(op, *period, domain.PeriodClosing, "")
	}
	return s.transition(ctx, tx, *period, domain.PeriodClosing, actor, domain.EventPeriodClosing)
}

// CompleteClosing moves a closing period to closed.
func (s *periodService) CompleteClosing(ctx context.Context, tx portsrepo.LedgerTx, period domain.AccountingPeriod, actor string) (*domain.AccountingPeriod, error) {
	const op = "Period.CompleteClosing"
	if !period.Status.CanTransitionTo(domain.PeriodClosed) {
		return nil, periodTransitionError(op, period, domain.PeriodClosed, "")
	}
	closedAt := s.Now()
	period.ClosedBy = actor
	period.ClosedAt = &closedAt
	return s.transition(ctx, tx, period, domain.PeriodClosed, actor, domain.EventPeriodClosed)
}

func (s *periodService) transition(ctx context.Context, tx portsrepo.LedgerTx, period domain.AccountingPeriod, to domain.PeriodStatus, actor string, kind domain.AuditEventKind) (*domain.AccountingPeriod, error) {
	from := period.Status
	period.Status = to
	period.Touch(actor, s.Now())

	if err := tx.UpdatePeriodStatus(ctx, period, from); err != nil {
		s.LogError(ctx, err, "Failed to update period status",
			slog.String("period_id", period.PeriodID),
			slog.String("from", string(from)),
			slog.String("to", string(to)))
		return nil, fmt.Errorf("failed to move period %s to %s: %w", period.Name, to, err)
	}

	s.EmitAfterCommit(tx, domain.AuditEvent{
		TenantID:   period.TenantID,
		Kind:       kind,
		EntityType: entityPeriod,
		EntityID:   period.PeriodID,
		OldStatus:  string(from),
		NewStatus:  string(to),
		Actor:      actor,
		Details:    map[string]string{"name": period.Name},
	})
	s.LogInfo(ctx, "Period status changed",
		slog.String("period_id", period.PeriodID),
		slog.String("name", period.Name),
		slog.String("from", string(from)),
		slog.String("to", string(to)))
	return &period, nil
}

// ListPeriods retrieves all periods of a tenant ordered by start date.
func (s *periodService) ListPeriods(ctx context.Context, tenantID string) ([]domain.AccountingPeriod, error) {
	periods, err := s.txm.Queries().ListPeriods(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	return periods, nil
}

// ValidateTransactionDate returns the period owning date and whether origin may post there.
func (s *periodService) ValidateTransactionDate(ctx context.Context, q portsrepo.PeriodReader, tenantID string, date time.Time, origin domain.EntryOrigin) (*domain.PostingWindow, error) {
	const op = "Period.ValidateTransactionDate"
	date = domain.DateOf(date)
	period, err := q.FindPeriodByDate(ctx, tenantID, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			reason := "no accounting period covers " + date.Format(domain.DateLayout)
			return &domain.PostingWindow{Reason: reason}, apperrors.PeriodNotOpen(op, "", "", reason)
		}
		return nil, fmt.Errorf("failed to find period for %s: %w", date.Format(domain.DateLayout), err)
	}
	return checkWindow(op, "", *period, origin)
}

func checkWindow(op, headerID string, period domain.AccountingPeriod, origin domain.EntryOrigin) (*domain.PostingWindow, error) {
	window := &domain.PostingWindow{Period: &period, Permitted: period.Status.Accepts(origin)}
	if window.Permitted {
		return window, nil
	}
	window.Reason = fmt.Sprintf("period %s is %s and does not accept %s entries", period.Name, period.Status, origin)
	return window, apperrors.PeriodNotOpen(op, headerID, period.PeriodID, window.Reason)
}

// RequirePostable finds the period owning date, holds a shared lock on it for the
// rest of tx and checks that it accepts origin.
func (s *periodService) RequirePostable(ctx context.Context, tx portsrepo.LedgerTx, tenantID string, date time.Time, origin domain.EntryOrigin, headerID string) (*domain.AccountingPeriod, error) {
	const op = "Period.RequirePostable"
	date = domain.DateOf(date)
	found, err := tx.FindPeriodByDate(ctx, tenantID, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.PeriodNotOpen(op, headerID, "", "no accounting period covers "+date.Format(domain.DateLayout))
		}
		return nil, fmt.Errorf("failed to find period for %s: %w", date.Format(domain.DateLayout), err)
	}
	locked, err := tx.LockPeriod(ctx, tenantID, found.PeriodID, domain.LockShare)
	if err != nil {
		return nil, fmt.Errorf("failed to lock period %s: %w", found.PeriodID, err)
	}
	if _, err := checkWindow(op, headerID, *locked, origin); err != nil {
		return nil, err
	}
	return locked, nil
}

// CurrentOpenPeriod prefers the open period containing today, then the most recent one.
func (s *periodService) CurrentOpenPeriod(ctx context.Context, q portsrepo.PeriodReader, tenantID string) (*domain.AccountingPeriod, error) {
	const op = "Period.CurrentOpenPeriod"
	periods, err := q.ListPeriods(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	today := domain.DateOf(s.Now())
	var latest *domain.AccountingPeriod
	for i := range periods {
		p := periods[i]
		if p.Status != domain.PeriodOpen {
			continue
		}
		if p.Contains(today) {
			return &p, nil
		}
		if latest == nil || p.StartDate.After(latest.StartDate) {
			latest = &p
		}
	}
	if latest == nil {
		return nil, apperrors.PeriodNotOpen(op, "", "", "tenant has no open period")
	}
	return latest, nil
}

// NextPeriod returns the period starting the day after period ends.
func (s *periodService) NextPeriod(ctx context.Context, q portsrepo.PeriodReader, period domain.AccountingPeriod) (*domain.AccountingPeriod, error) {
	next, err := q.FindPeriodByDate(ctx, period.TenantID, period.EndDate.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to find period following %s: %w", period.Name, err)
	}
	return next, nil
}
