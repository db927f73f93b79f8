package services

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// ReportingService defines read-only reports over balance-affecting lines
type ReportingService interface {
	// TrialBalance returns one row per account with nonzero activity up to asOf.
	TrialBalance(ctx context.Context, tenantID string, asOf time.Time) (*domain.TrialBalance, error)

	// AccountBalance returns the balance of an account as of a date, signed by its
	// normal side.
	AccountBalance(ctx context.Context, tenantID, accountID string, asOf time.Time) (decimal.Decimal, error)

	// PeriodActivity returns per-account activity with posting dates in [from, to].
	PeriodActivity(ctx context.Context, tenantID string, from, to time.Time) ([]domain.AccountActivity, error)

	// AccountLedger lists the balance-affecting lines of an account, newest first.
	AccountLedger(ctx context.Context, tenantID, accountID string, params dto.ListAccountEntriesParams) (*dto.ListAccountEntriesResponse, error)
}

// BalanceCacheInvalidator drops cached balances of accounts touched by a commit.
type BalanceCacheInvalidator interface {
	InvalidateAccounts(tenantID string, accountIDs []string)
}
