package services

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts
type AccountReaderSvc interface {
	// GetAccount retrieves a specific account by its ID.
	GetAccount(ctx context.Context, tenantID, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its tenant-unique code.
	GetAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error)

	// ListAccounts retrieves all accounts of a tenant.
	ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for the chart of accounts
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, tx portsrepo.LedgerTx, req dto.CreateAccountRequest) (*domain.Account, error)

	// DeactivateAccount soft-deletes an account. Accounts are never hard-deleted.
	DeactivateAccount(ctx context.Context, tx portsrepo.LedgerTx, tenantID, accountID, actor string) error

	// SeedAccounts creates every account whose code does not exist yet and returns
	// how many were created. Parents must precede their children.
	SeedAccounts(ctx context.Context, tx portsrepo.LedgerTx, tenantID, actor string, reqs []dto.CreateAccountRequest) (int, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
