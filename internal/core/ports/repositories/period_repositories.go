package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// PeriodReader defines read operations for fiscal years and accounting periods.
type PeriodReader interface {
	// FindPeriodByID retrieves a specific period.
	FindPeriodByID(ctx context.Context, tenantID, periodID string) (*domain.AccountingPeriod, error)

	// FindPeriodByDate retrieves the period whose range contains date.
	FindPeriodByDate(ctx context.Context, tenantID string, date time.Time) (*domain.AccountingPeriod, error)

	// ListPeriods retrieves all periods of a tenant ordered by start date.
	ListPeriods(ctx context.Context, tenantID string) ([]domain.AccountingPeriod, error)

	// FindFiscalYearByID retrieves a specific fiscal year.
	FindFiscalYearByID(ctx context.Context, tenantID, fiscalYearID string) (*domain.FiscalYear, error)
}

// PeriodWriter defines write operations for fiscal years and accounting periods.
type PeriodWriter interface {
	// SaveFiscalYear persists a fiscal year and its periods.
	SaveFiscalYear(ctx context.Context, fiscalYear domain.FiscalYear, periods []domain.AccountingPeriod) error

	// LockPeriod reads a period and holds a row lock on it until the transaction ends.
	LockPeriod(ctx context.Context, tenantID, periodID string, mode domain.LockMode) (*domain.AccountingPeriod, error)

	// UpdatePeriodStatus persists the period's status and closing fields, but only if
	// the stored status is still `from`. A mismatch yields apperrors.ErrIllegalTransition.
	UpdatePeriodStatus(ctx context.Context, period domain.AccountingPeriod, from domain.PeriodStatus) error
}
