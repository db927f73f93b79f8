package services

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
)

// ClosingSvc runs the month-end close of one period. All of its effects belong to tx:
// when the close fails the caller rolls tx back and the period stays open.
type ClosingSvc interface {
	ClosePeriod(ctx context.Context, tx portsrepo.LedgerTx, tenantID, periodID, actor string) (*domain.CloseResult, error)
}

// AccrualPolicy proposes period-end accruals. Implementations must be deterministic
// for a given input.
type AccrualPolicy interface {
	ProposeAccruals(ctx context.Context, q portsrepo.ActivityReader, input domain.AccrualInput) ([]domain.AccrualProposal, error)
}
