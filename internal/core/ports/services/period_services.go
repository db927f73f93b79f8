package services

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/dto"
)

// PeriodReaderSvc defines read operations for accounting periods
type PeriodReaderSvc interface {
	// ListPeriods retrieves all periods of a tenant ordered by start date.
	ListPeriods(ctx context.Context, tenantID string) ([]domain.AccountingPeriod, error)

	// ValidateTransactionDate returns the period owning date and whether a header of
	// origin may be posted there. A refusal also yields a PeriodNotOpen error.
	ValidateTransactionDate(ctx context.Context, q portsrepo.PeriodReader, tenantID string, date time.Time, origin domain.EntryOrigin) (*domain.PostingWindow, error)

	// CurrentOpenPeriod returns the open period containing today, or the latest open
	// period when today falls elsewhere.
	CurrentOpenPeriod(ctx context.Context, q portsrepo.PeriodReader, tenantID string) (*domain.AccountingPeriod, error)

	// NextPeriod returns the period starting the day after period ends.
	NextPeriod(ctx context.Context, q portsrepo.PeriodReader, period domain.AccountingPeriod) (*domain.AccountingPeriod, error)
}

// PeriodWriterSvc defines the period lifecycle
type PeriodWriterSvc interface {
	// CreateFiscalYear creates a fiscal year split into monthly future periods.
	CreateFiscalYear(ctx context.Context, tx portsrepo.LedgerTx, req dto.CreateFiscalYearRequest) (*domain.FiscalYear, []domain.AccountingPeriod, error)

	// OpenPeriod moves a future period to open.
	OpenPeriod(ctx context.Context, tx portsrepo.LedgerTx, tenantID, periodID, actor string) (*domain.AccountingPeriod, error)

	// RequirePostable takes a shared lock on the period owning date and fails with
	// PeriodNotOpen unless it accepts headers of origin.
	RequirePostable(ctx context.Context, tx portsrepo.LedgerTx, tenantID string, date time.Time, origin domain.EntryOrigin, headerID string) (*domain.AccountingPeriod, error)

	// BeginClosing takes an exclusive lock on the period and moves it open -> closing.
	BeginClosing(ctx context.Context, tx portsrepo.LedgerTx, tenantID, periodID, actor string) (*domain.AccountingPeriod, error)

	// CompleteClosing moves a closing period to closed.
	CompleteClosing(ctx context.Context, tx portsrepo.LedgerTx, period domain.AccountingPeriod, actor string) (*domain.AccountingPeriod, error)
}

// PeriodSvcFacade combines all period-related service interfaces
type PeriodSvcFacade interface {
	PeriodReaderSvc
	PeriodWriterSvc
}
