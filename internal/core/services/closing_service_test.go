package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
)

type ClosingServiceTestSuite struct {
	ledgerSuite
}

func TestClosingService(t *testing.T) {
	suite.Run(t, new(ClosingServiceTestSuite))
}

func (s *ClosingServiceTestSuite) noAccruals() {
	s.policy.On("ProposeAccruals", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
}

func (s *ClosingServiceTestSuite) TestClosePeriod_ZeroesTemporaryAccounts() {
	s.noAccruals()
	s.post(date(2024, time.January, 10), "USD", s.debit(cashCode, "1000.00"), s.credit(salesCode, "1000.00"))
	s.post(date(2024, time.January, 12), "USD", s.debit(rentCode, "400.00"), s.credit(cashCode, "400.00"))

	result, err := s.closePeriod("2024-01")
	s.Require().NoError(err)

	s.Equal("600.00", result.NetIncome.StringFixed(2))
	s.Equal(domain.PeriodClosed, result.Period.Status)
	s.Equal(actor, result.Period.ClosedBy)
	s.Require().NotEmpty(result.ClosingHeaderID)
	s.Empty(result.AccrualHeaderIDs)

	jan31 := date(2024, time.January, 31)
	s.Equal("0.00", s.balance(salesCode, jan31))
	s.Equal("0.00", s.balance(rentCode, jan31))
	s.Equal("600.00", s.balance(reCode, jan31))
	s.Equal("600.00", s.balance(cashCode, jan31))
	s.Equal(domain.PeriodClosed, s.periodStatus("2024-01"))

	closing, err := s.svc.Journal.GetHeader(s.ctx, tenant, result.ClosingHeaderID)
	s.Require().NoError(err)
	s.Equal(domain.OriginClosing, closing.Origin)
	s.Equal(jan31, closing.PostingDate)
	s.Require().Len(closing.Lines, 3)
	s.Equal(s.accounts[salesCode], closing.Lines[0].AccountID)
	s.Equal("1000.00", closing.Lines[0].FunctionalDebit.StringFixed(2))
	s.Equal(s.accounts[rentCode], closing.Lines[1].AccountID)
	s.Equal("400.00", closing.Lines[1].FunctionalCredit.StringFixed(2))
	s.Equal(s.accounts[reCode], closing.Lines[2].AccountID)
	s.Equal("600.00", closing.Lines[2].FunctionalCredit.StringFixed(2))

	tb, err := s.svc.Reporting.TrialBalance(s.ctx, tenant, jan31)
	s.Require().NoError(err)
	s.True(tb.Balanced())

	s.sink.AssertCalled(s.T(), "Emit", mock.Anything, eventOfKind(domain.EventPeriodClosing))
	s.sink.AssertCalled(s.T(), "Emit", mock.Anything, eventOfKind(domain.EventPeriodClosed))
}

func (s *ClosingServiceTestSuite) TestClosePeriod_NetLossDebitsRetainedEarnings() {
	s.noAccruals()
	s.post(date(2024, time.January, 10), "USD", s.debit(cashCode, "100.00"), s.credit(salesCode, "100.00"))
	s.post(date(2024, time.January, 12), "USD", s.debit(rentCode, "250.00"), s.credit(cashCode, "250.00"))

	result, err := s.closePeriod("2024-01")
	s.Require().NoError(err)
	s.Equal("-150.00", result.NetIncome.StringFixed(2))
	s.Equal("-150.00", s.balance(reCode, date(2024, time.January, 31)))
}

func (s *ClosingServiceTestSuite) TestClosePeriod_NoActivitySkipsClosingEntry() {
	s.noAccruals()
	s.post(date(2024, time.January, 10), "USD", s.debit(cashCode, "100.00"), s.credit(arCode, "100.00"))

	result, err := s.closePeriod("2024-01")
	s.Require().NoError(err)
	s.Empty(result.ClosingHeaderID)
	s.True(result.NetIncome.IsZero())
	s.Equal(domain.PeriodClosed, s.periodStatus("2024-01"))
}

func (s *ClosingServiceTestSuite) TestClosePeriod_ClosesInactiveRevenueAccount() {
	s.noAccruals()
	s.post(date(2024, time.January, 10), "USD", s.debit(cashCode, "80.00"), s.credit(salesCode, "80.00"))
	s.Require().NoError(s.inTx(func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return s.svc.Account.DeactivateAccount(ctx, tx, tenant, s.accounts[salesCode], actor)
	}))

	result, err := s.closePeriod("2024-01")
	s.Require().NoError(err)
	s.Equal("80.00", result.NetIncome.StringFixed(2))
	s.Equal("0.00", s.balance(salesCode, date(2024, time.January, 31)))
}

func (s *ClosingServiceTestSuite) TestClosePeriod_BlockedByPendingHeaders() {
	s.post(date(2024, time.January, 10), "USD", s.debit(cashCode, "100.00"), s.credit(salesCode, "100.00"))
	s.createDraft(date(2024, time.January, 20), "USD", s.debit(rentCode, "10.00"), s.credit(cashCode, "10.00"))

	_, err := s.closePeriod("2024-01")
	s.Require().ErrorIs(err, apperrors.ErrIncompleteClose)
	var lerr *apperrors.LedgerError
	s.Require().ErrorAs(err, &lerr)
	s.Equal(1, lerr.Count)
	s.Equal(s.periods["2024-01"].PeriodID, lerr.PeriodID)

	s.Equal(domain.PeriodOpen, s.periodStatus("2024-01"), "failed close leaves the period open")
	s.Equal("100.00", s.balance(salesCode, date(2024, time.January, 31)))
	s.policy.AssertNotCalled(s.T(), "ProposeAccruals", mock.Anything, mock.Anything, mock.Anything)
	s.sink.AssertNotCalled(s.T(), "Emit", mock.Anything, eventOfKind(domain.EventPeriodClosing))
}

func (s *ClosingServiceTestSuite) TestClosePeriod_PostsAccrualsAndReversals() {
	s.post(date(2024, time.January, 10), "USD", s.debit(cashCode, "1000.00"), s.credit(salesCode, "1000.00"))
	s.post(date(2024, time.January, 29), "USD", s.debit(utilCode, "100.00"), s.credit(cashCode, "100.00"))

	utilID := s.accounts[utilCode]
	s.policy.On("ProposeAccruals", mock.Anything, mock.Anything, mock.MatchedBy(func(in domain.AccrualInput) bool {
		return in.Period.Name == "2024-01" && in.PeriodActivity[utilID].DebitTotal.Equal(d("100"))
	})).Return([]domain.AccrualProposal{{ExpenseAccountID: utilID, Amount: d("50.004")}}, nil).Once()

	result, err := s.closePeriod("2024-01")
	s.Require().NoError(err)
	s.policy.AssertExpectations(s.T())
	s.Require().Len(result.AccrualHeaderIDs, 1)
	s.Require().Len(result.AccrualReversalHeaderIDs, 1)

	accrual, err := s.svc.Journal.GetHeader(s.ctx, tenant, result.AccrualHeaderIDs[0])
	s.Require().NoError(err)
	s.Equal(domain.OriginAccrual, accrual.Origin)
	s.Equal(domain.Reversed, accrual.Status)
	s.Equal(date(2024, time.January, 31), accrual.PostingDate)
	s.Equal("50.00", accrual.Lines[0].FunctionalDebit.StringFixed(2))

	reversal, err := s.svc.Journal.GetHeader(s.ctx, tenant, result.AccrualReversalHeaderIDs[0])
	s.Require().NoError(err)
	s.Equal(domain.OriginAccrualReversal, reversal.Origin)
	s.Equal(accrual.HeaderID, reversal.ReversalOfID)
	s.Equal(date(2024, time.February, 1), reversal.PostingDate)
	s.Equal(s.periods["2024-02"].PeriodID, reversal.PeriodID)

	// The accrued expense is part of January's result and is closed with it.
	s.Equal("850.00", result.NetIncome.StringFixed(2))
	jan31, feb29 := date(2024, time.January, 31), date(2024, time.February, 29)
	s.Equal("50.00", s.balance(accrCode, jan31))
	s.Equal("0.00", s.balance(utilCode, jan31))
	s.Equal("0.00", s.balance(accrCode, feb29))
	s.Equal("-50.00", s.balance(utilCode, feb29))
	s.Equal(domain.PeriodFuture, s.periodStatus("2024-02"), "the reversal does not open the next period")
}

func (s *ClosingServiceTestSuite) TestClosePeriod_RollsBackOnFailure() {
	s.svc = s.newContainer("9999", s.sink)
	s.post(date(2024, time.January, 10), "USD", s.debit(cashCode, "1000.00"), s.credit(salesCode, "1000.00"))
	s.post(date(2024, time.January, 29), "USD", s.debit(utilCode, "100.00"), s.credit(cashCode, "100.00"))
	s.policy.On("ProposeAccruals", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.AccrualProposal{{ExpenseAccountID: s.accounts[utilCode], Amount: d("50")}}, nil)

	_, err := s.closePeriod("2024-01")
	s.Require().ErrorIs(err, apperrors.ErrNotFound)

	jan31 := date(2024, time.January, 31)
	s.Equal(domain.PeriodOpen, s.periodStatus("2024-01"))
	s.Equal("0.00", s.balance(accrCode, jan31), "accrual is rolled back")
	s.Equal("100.00", s.balance(utilCode, jan31))
	s.Equal("1000.00", s.balance(salesCode, jan31))
	s.sink.AssertNotCalled(s.T(), "Emit", mock.Anything, eventOfKind(domain.EventPeriodClosing))
	s.sink.AssertNotCalled(s.T(), "Emit", mock.Anything, eventOfKind(domain.EventReversed))
}

func (s *ClosingServiceTestSuite) TestClosePeriod_RetainedEarningsMustBeEquity() {
	s.noAccruals()
	s.svc = s.newContainer(accrCode, s.sink)
	s.post(date(2024, time.January, 10), "USD", s.debit(cashCode, "10.00"), s.credit(salesCode, "10.00"))

	_, err := s.closePeriod("2024-01")
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Equal(domain.PeriodOpen, s.periodStatus("2024-01"))
}

func (s *ClosingServiceTestSuite) TestClosePeriod_Twice() {
	s.noAccruals()
	_, err := s.closePeriod("2024-01")
	s.Require().NoError(err)

	_, err = s.closePeriod("2024-01")
	s.ErrorIs(err, apperrors.ErrIllegalTransition)
}

func (s *ClosingServiceTestSuite) TestClosePeriod_FuturePeriod() {
	_, err := s.closePeriod("2024-03")
	s.Require().ErrorIs(err, apperrors.ErrIllegalTransition)
	var lerr *apperrors.LedgerError
	s.Require().ErrorAs(err, &lerr)
	s.Equal(s.periods["2024-03"].PeriodID, lerr.PeriodID)
}
