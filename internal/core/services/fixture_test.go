package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/general_ledger/internal/adapters/database/memory"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/core/services"
	"github.com/SscSPs/general_ledger/internal/dto"
)

const (
	tenant    = "tenant-1"
	actor     = "user-1"
	cashCode  = "1000"
	arCode    = "1100"
	accrCode  = "2100"
	reCode    = "3900"
	salesCode = "4000"
	rentCode  = "6100"
	utilCode  = "6200"
)

var fixedNow = time.Date(2024, time.February, 15, 10, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 0, 0, 0, 0, time.UTC) }

// --- Mock AuditSink ---
type MockAuditSink struct {
	mock.Mock
}

var _ portssvc.AuditSink = (*MockAuditSink)(nil)

func (m *MockAuditSink) Emit(ctx context.Context, event domain.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// --- Mock AccrualPolicy ---
type MockAccrualPolicy struct {
	mock.Mock
}

var _ portssvc.AccrualPolicy = (*MockAccrualPolicy)(nil)

func (m *MockAccrualPolicy) ProposeAccruals(ctx context.Context, q portsrepo.ActivityReader, input domain.AccrualInput) ([]domain.AccrualProposal, error) {
	args := m.Called(ctx, q, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccrualProposal), args.Error(1)
}

func eventOfKind(kind domain.AuditEventKind) any {
	return mock.MatchedBy(func(e domain.AuditEvent) bool { return e.Kind == kind })
}

// ledgerSuite runs the services against the in-memory store with a 2024 fiscal year
// whose January is open and a small chart of accounts.
type ledgerSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memory.Store
	sink     *MockAuditSink
	policy   *MockAccrualPolicy
	svc      *portssvc.ServiceContainer
	accounts map[string]string // code -> id
	periods  map[string]domain.AccountingPeriod
}

func (s *ledgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.sink = new(MockAuditSink)
	s.sink.On("Emit", mock.Anything, mock.Anything).Return(nil).Maybe()
	s.policy = new(MockAccrualPolicy)
	s.svc = s.newContainer(reCode, s.sink)
	s.accounts = make(map[string]string)
	s.periods = make(map[string]domain.AccountingPeriod)

	chart := []dto.CreateAccountRequest{
		{Code: cashCode, Name: "Cash", AccountType: "ASSET"},
		{Code: arCode, Name: "Receivables", AccountType: "ASSET"},
		{Code: accrCode, Name: "Accrued liabilities", AccountType: "LIABILITY"},
		{Code: reCode, Name: "Retained earnings", AccountType: "EQUITY"},
		{Code: salesCode, Name: "Sales", AccountType: "REVENUE"},
		{Code: rentCode, Name: "Rent", AccountType: "EXPENSE"},
		{Code: utilCode, Name: "Utilities", AccountType: "EXPENSE"},
	}
	s.Require().NoError(s.inTx(func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := s.svc.Account.SeedAccounts(ctx, tx, tenant, actor, chart); err != nil {
			return err
		}
		_, periods, err := s.svc.Period.CreateFiscalYear(ctx, tx, dto.CreateFiscalYearRequest{
			TenantID: tenant, Name: "FY2024", StartDate: date(2024, time.January, 1), Months: 12, CreatedBy: actor,
		})
		if err != nil {
			return err
		}
		for _, p := range periods {
			s.periods[p.Name] = p
		}
		_, err = s.svc.Period.OpenPeriod(ctx, tx, tenant, s.periods["2024-01"].PeriodID, actor)
		return err
	}))

	accounts, err := s.svc.Account.ListAccounts(s.ctx, tenant)
	s.Require().NoError(err)
	for _, a := range accounts {
		s.accounts[a.Code] = a.AccountID
	}
}

func (s *ledgerSuite) newContainer(retainedEarnings string, sink portssvc.AuditSink) *portssvc.ServiceContainer {
	return services.NewContainer(s.store, services.ContainerConfig{
		Closing: services.ClosingConfig{
			FunctionalCurrency:            "USD",
			RetainedEarningsAccountCode:   retainedEarnings,
			AccruedLiabilitiesAccountCode: accrCode,
		},
		AccrualPolicy: s.policy,
		AuditSink:     sink,
	}, services.WithClock(func() time.Time { return fixedNow }))
}

func (s *ledgerSuite) inTx(fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	return s.store.WithTx(s.ctx, portsrepo.TxOptions{Isolation: portsrepo.Serializable}, fn)
}

func (s *ledgerSuite) debit(code, amount string) dto.LineRequest {
	return dto.DebitLine(s.accounts[code], d(amount), "")
}

func (s *ledgerSuite) credit(code, amount string) dto.LineRequest {
	return dto.CreditLine(s.accounts[code], d(amount), "")
}

func (s *ledgerSuite) draftRequest(on time.Time, currency string, lines ...dto.LineRequest) dto.CreateDraftRequest {
	return dto.CreateDraftRequest{
		TenantID:     tenant,
		DocumentDate: on,
		CurrencyCode: currency,
		Description:  "test entry",
		CreatedBy:    actor,
		Lines:        lines,
	}
}

// createDraft commits a draft and returns it.
func (s *ledgerSuite) createDraft(on time.Time, currency string, lines ...dto.LineRequest) *domain.JournalHeader {
	var draft *domain.JournalHeader
	s.Require().NoError(s.inTx(func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		draft, err = s.svc.Journal.CreateDraft(ctx, tx, s.draftRequest(on, currency, lines...))
		return err
	}))
	return draft
}

// post drives a header through draft, approve and post in one transaction.
func (s *ledgerSuite) post(on time.Time, currency string, lines ...dto.LineRequest) *domain.JournalHeader {
	var posted *domain.JournalHeader
	s.Require().NoError(s.inTx(func(ctx context.Context, tx portsrepo.LedgerTx) error {
		draft, err := s.svc.Journal.CreateDraft(ctx, tx, s.draftRequest(on, currency, lines...))
		if err != nil {
			return err
		}
		if _, err := s.svc.Journal.Approve(ctx, tx, tenant, draft.HeaderID, "approver"); err != nil {
			return err
		}
		posted, err = s.svc.Journal.Post(ctx, tx, tenant, draft.HeaderID, "poster")
		return err
	}))
	return posted
}

func (s *ledgerSuite) balance(code string, asOf time.Time) string {
	b, err := s.svc.Reporting.AccountBalance(s.ctx, tenant, s.accounts[code], asOf)
	s.Require().NoError(err)
	return b.StringFixed(2)
}

func (s *ledgerSuite) recordRate(from, to, rate string, effective time.Time) {
	s.Require().NoError(s.inTx(func(ctx context.Context, tx portsrepo.LedgerTx) error {
		_, err := s.svc.ExchangeRate.RecordRate(ctx, tx, dto.RecordExchangeRateRequest{
			TenantID: tenant, FromCurrencyCode: from, ToCurrencyCode: to, Rate: d(rate), EffectiveDate: effective, CreatedBy: actor,
		})
		return err
	}))
}

func (s *ledgerSuite) periodStatus(name string) domain.PeriodStatus {
	periods, err := s.svc.Period.ListPeriods(s.ctx, tenant)
	s.Require().NoError(err)
	for _, p := range periods {
		if p.Name == name {
			return p.Status
		}
	}
	s.FailNow("period not found", name)
	return ""
}

func (s *ledgerSuite) closePeriod(name string) (*domain.CloseResult, error) {
	var result *domain.CloseResult
	err := s.inTx(func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		result, err = s.svc.Closing.ClosePeriod(ctx, tx, tenant, s.periods[name].PeriodID, actor)
		return err
	})
	return result, err
}
