package repositories

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// ActivityReader aggregates balance-affecting lines (headers POSTED or REVERSED).
type ActivityReader interface {
	// SumActivity returns functional debit and credit totals per account, only for
	// accounts with at least one matching line.
	SumActivity(ctx context.Context, tenantID string, filter domain.ActivityFilter) ([]domain.AccountActivity, error)

	// ListAccountEntries retrieves balance-affecting lines of one account, newest first,
	// using token-based pagination.
	ListAccountEntries(ctx context.Context, tenantID, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}
