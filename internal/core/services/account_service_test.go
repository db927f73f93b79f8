package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/dto"
)

type AccountServiceTestSuite struct {
	ledgerSuite
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (s *AccountServiceTestSuite) create(req dto.CreateAccountRequest) (*domain.Account, error) {
	var account *domain.Account
	err := s.inTx(func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		account, err = s.svc.Account.CreateAccount(ctx, tx, req)
		return err
	})
	return account, err
}

func (s *AccountServiceTestSuite) TestCreateAccount_WithParent() {
	account, err := s.create(dto.CreateAccountRequest{
		TenantID: tenant, Code: "1010", Name: "Petty cash", AccountType: "ASSET", ParentCode: cashCode, CreatedBy: actor,
	})
	s.Require().NoError(err)
	s.Equal(s.accounts[cashCode], account.ParentAccountID)
	s.True(account.IsActive)
	s.Equal(domain.Debit, account.NormalSide())

	stored, err := s.svc.Account.GetAccountByCode(s.ctx, tenant, "1010")
	s.Require().NoError(err)
	s.Equal(account.AccountID, stored.AccountID)
}

func (s *AccountServiceTestSuite) TestCreateAccount_Rejections() {
	tests := []struct {
		name string
		req  dto.CreateAccountRequest
		want error
	}{
		{"duplicate code", dto.CreateAccountRequest{Code: cashCode, Name: "Cash again", AccountType: "ASSET"}, apperrors.ErrDuplicate},
		{"missing parent", dto.CreateAccountRequest{Code: "1020", Name: "Bank", AccountType: "ASSET", ParentCode: "1999"}, apperrors.ErrValidation},
		{"own parent", dto.CreateAccountRequest{Code: "1030", Name: "Loop", AccountType: "ASSET", ParentCode: "1030"}, apperrors.ErrValidation},
		{"unknown type", dto.CreateAccountRequest{Code: "1040", Name: "Odd", AccountType: "INCOME"}, apperrors.ErrValidation},
		{"missing name", dto.CreateAccountRequest{Code: "1050", AccountType: "ASSET"}, apperrors.ErrValidation},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			tt.req.TenantID = tenant
			tt.req.CreatedBy = actor
			_, err := s.create(tt.req)
			s.ErrorIs(err, tt.want)
		})
	}
}

func (s *AccountServiceTestSuite) TestCreateAccount_CodesAreScopedByTenant() {
	account, err := s.create(dto.CreateAccountRequest{
		TenantID: "tenant-2", Code: cashCode, Name: "Cash", AccountType: "ASSET", CreatedBy: actor,
	})
	s.Require().NoError(err)
	s.NotEqual(s.accounts[cashCode], account.AccountID)

	_, err = s.svc.Account.GetAccount(s.ctx, tenant, account.AccountID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *AccountServiceTestSuite) TestSeedAccounts_Idempotent() {
	chart := []dto.CreateAccountRequest{
		{Code: cashCode, Name: "Cash", AccountType: "ASSET"},
		{Code: "5000", Name: "Cost of sales", AccountType: "EXPENSE"},
	}
	var created int
	s.Require().NoError(s.inTx(func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		created, err = s.svc.Account.SeedAccounts(ctx, tx, tenant, actor, chart)
		return err
	}))
	s.Equal(1, created)

	s.Require().NoError(s.inTx(func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		created, err = s.svc.Account.SeedAccounts(ctx, tx, tenant, actor, chart)
		return err
	}))
	s.Equal(0, created)

	accounts, err := s.svc.Account.ListAccounts(s.ctx, tenant)
	s.Require().NoError(err)
	s.Len(accounts, 8)
}

func (s *AccountServiceTestSuite) TestDeactivateAccount() {
	s.Require().NoError(s.inTx(func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return s.svc.Account.DeactivateAccount(ctx, tx, tenant, s.accounts[rentCode], actor)
	}))
	account, err := s.svc.Account.GetAccount(s.ctx, tenant, s.accounts[rentCode])
	s.Require().NoError(err)
	s.False(account.IsActive)
	s.Equal(actor, account.LastUpdatedBy)

	// Deactivating twice is a no-op.
	s.NoError(s.inTx(func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return s.svc.Account.DeactivateAccount(ctx, tx, tenant, s.accounts[rentCode], actor)
	}))
}
