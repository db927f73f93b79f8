package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
)

// accountService manages the chart of accounts.
type accountService struct {
	BaseService
	txm portsrepo.TransactionManager
}

// NewAccountService creates a new AccountService.
func NewAccountService(txm portsrepo.TransactionManager, options ...ServiceOption) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: newBaseService(options...),
		txm:         txm,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount persists a new account. The parent, if any, must belong to the same tenant.
func (s *accountService) CreateAccount(ctx context.Context, tx portsrepo.LedgerTx, req dto.CreateAccountRequest) (*domain.Account, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	accountType, err := domain.ParseAccountType(req.AccountType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	parentID := ""
	if req.ParentCode != "" {
		if req.ParentCode == req.Code {
			return nil, fmt.Errorf("%w: account %s cannot be its own parent", apperrors.ErrValidation, req.Code)
		}
		parent, err := tx.FindAccountByCode(ctx, req.TenantID, req.ParentCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account '%s' not found", apperrors.ErrValidation, req.ParentCode)
			}
			return nil, fmt.Errorf("failed to look up parent account: %w", err)
		}
		parentID = parent.AccountID
	}

	account := domain.Account{
		AccountID:       uuid.NewString(),
		TenantID:        req.TenantID,
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     accountType,
		ParentAccountID: parentID,
		Description:     req.Description,
		IsActive:        true,
		AuditFields:     domain.NewAuditFields(req.CreatedBy, s.Now()),
	}

	if err := tx.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("code", account.Code))
		return nil, fmt.Errorf("failed to create account %s: %w", account.Code, err)
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code),
		slog.String("type", string(account.AccountType)))
	return &account, nil
}

// DeactivateAccount marks an account as inactive. Inactive accounts keep their history
// but cannot receive new lines.
func (s *accountService) DeactivateAccount(ctx context.Context, tx portsrepo.LedgerTx, tenantID, accountID, actor string) error {
	account, err := tx.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if !account.IsActive {
		return nil
	}
	account.IsActive = false
	account.Touch(actor, s.Now())
	if err := tx.UpdateAccount(ctx, *account); err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}
	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID), slog.String("code", account.Code))
	return nil
}

// SeedAccounts creates the accounts whose codes are missing. Existing codes are left
// untouched, so seeding the same chart twice is a no-op.
func (s *accountService) SeedAccounts(ctx context.Context, tx portsrepo.LedgerTx, tenantID, actor string, reqs []dto.CreateAccountRequest) (int, error) {
	created := 0
	for _, req := range reqs {
		req.TenantID = tenantID
		req.CreatedBy = actor

		_, err := tx.FindAccountByCode(ctx, tenantID, req.Code)
		if err == nil {
			s.LogDebug(ctx, "Account already exists, skipping", slog.String("code", req.Code))
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return created, fmt.Errorf("failed to look up account %s: %w", req.Code, err)
		}
		if _, err := s.CreateAccount(ctx, tx, req); err != nil {
			return created, err
		}
		created++
	}
	s.LogInfo(ctx, "Chart of accounts seeded", slog.Int("created", created), slog.Int("requested", len(reqs)))
	return created, nil
}

// GetAccount retrieves a specific account by its ID.
func (s *accountService) GetAccount(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	account, err := s.txm.Queries().FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}
	return account, nil
}

// GetAccountByCode retrieves an account by its tenant-unique code.
func (s *accountService) GetAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	account, err := s.txm.Queries().FindAccountByCode(ctx, tenantID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", code, err)
	}
	return account, nil
}

// ListAccounts retrieves all accounts of a tenant.
func (s *accountService) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	accounts, err := s.txm.Queries().ListAccounts(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}
