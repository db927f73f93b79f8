package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
)

// ClosingConfig names the accounts the close writes to.
type ClosingConfig struct {
	FunctionalCurrency            string
	RetainedEarningsAccountCode   string
	AccruedLiabilitiesAccountCode string
}

// closingService runs the month-end close.
type closingService struct {
	BaseService
	cfg     ClosingConfig
	journal portssvc.JournalSvcFacade
	periods portssvc.PeriodSvcFacade
	policy  portssvc.AccrualPolicy
}

// NewClosingService creates a new ClosingSvc. A nil policy disables accruals.
func NewClosingService(cfg ClosingConfig, journal portssvc.JournalSvcFacade, periods portssvc.PeriodSvcFacade, policy portssvc.AccrualPolicy, options ...ServiceOption) portssvc.ClosingSvc {
	cfg.FunctionalCurrency = strings.ToUpper(cfg.FunctionalCurrency)
	return &closingService{
		BaseService: newBaseService(options...),
		cfg:         cfg,
		journal:     journal,
		periods:     periods,
		policy:      policy,
	}
}

var _ portssvc.ClosingSvc = (*closingService)(nil)

// ClosePeriod moves the period to closing, posts accruals with their reversals in the
// next period, zeroes revenue and expense into retained earnings and marks the period
// closed. Every write goes through tx.
func (s *closingService) ClosePeriod(ctx context.Context, tx portsrepo.LedgerTx, tenantID, periodID, actor string) (*domain.CloseResult, error) {
	const op = "Closing.ClosePeriod"
	logger := s.GetLogger(ctx).With(slog.String("period_id", periodID))

	period, err := s.periods.BeginClosing(ctx, tx, tenantID, periodID, actor)
	if err != nil {
		return nil, err
	}

	pending, err := tx.CountHeadersByStatus(ctx, tenantID, period.StartDate, period.EndDate, []domain.JournalStatus{domain.Draft, domain.Approved})
	if err != nil {
		return nil, fmt.Errorf("failed to count pending headers: %w", err)
	}
	if pending > 0 {
		logger.Warn("Close blocked by pending headers", slog.Int("count", pending))
		return nil, apperrors.IncompleteClose(op, periodID, pending)
	}

	accounts, err := tx.ListAccounts(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	result := &domain.CloseResult{}
	if err := s.postAccruals(ctx, tx, *period, accounts, actor, result); err != nil {
		return nil, err
	}

	if err := s.closeTemporaryAccounts(ctx, tx, *period, accounts, actor, result); err != nil {
		return nil, err
	}

	closed, err := s.periods.CompleteClosing(ctx, tx, *period, actor)
	if err != nil {
		return nil, err
	}
	result.Period = *closed

	logger.Info("Period closed",
		slog.Int("accruals", len(result.AccrualHeaderIDs)),
		slog.String("closing_header_id", result.ClosingHeaderID),
		slog.String("net_income", result.NetIncome.String()))
	return result, nil
}

func (s *closingService) postAccruals(ctx context.Context, tx portsrepo.LedgerTx, period domain.AccountingPeriod, accounts []domain.Account, actor string, result *domain.CloseResult) error {
	const op = "Closing.Accruals"
	if s.policy == nil {
		return nil
	}

	expenses := make([]domain.Account, 0)
	expenseIDs := make([]string, 0)
	byID := make(map[string]domain.Account)
	for _, a := range accounts {
		if a.AccountType == domain.Expense && a.IsActive {
			expenses = append(expenses, a)
			expenseIDs = append(expenseIDs, a.AccountID)
			byID[a.AccountID] = a
		}
	}
	if len(expenses) == 0 {
		return nil
	}

	from := period.StartDate
	activity, err := tx.SumActivity(ctx, period.TenantID, domain.ActivityFilter{From: &from, To: period.EndDate, AccountIDs: expenseIDs})
	if err != nil {
		return fmt.Errorf("failed to sum expense activity: %w", err)
	}
	input := domain.AccrualInput{
		TenantID:           period.TenantID,
		Period:             period,
		FunctionalCurrency: s.cfg.FunctionalCurrency,
		ExpenseAccounts:    expenses,
		PeriodActivity:     make(map[string]domain.AccountActivity, len(activity)),
	}
	for _, a := range activity {
		input.PeriodActivity[a.AccountID] = a
	}

	proposals, err := s.policy.ProposeAccruals(ctx, tx, input)
	if err != nil {
		return fmt.Errorf("accrual policy failed: %w", err)
	}
	if len(proposals) == 0 {
		return nil
	}

	liability, err := s.accountByCode(ctx, tx, period.TenantID, s.cfg.AccruedLiabilitiesAccountCode, domain.Liability)
	if err != nil {
		return err
	}
	next, err := s.periods.NextPeriod(ctx, tx, period)
	if err != nil {
		return apperrors.PeriodNotOpen(op, "", period.PeriodID, "no following period can receive accrual reversals: "+err.Error())
	}

	for _, p := range proposals {
		expense, ok := byID[p.ExpenseAccountID]
		if !ok {
			return fmt.Errorf("%w: accrual proposed for non-expense account %s", apperrors.ErrValidation, p.ExpenseAccountID)
		}
		amount, err := domain.RoundToCurrency(p.Amount, s.cfg.FunctionalCurrency)
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if !amount.IsPositive() {
			continue
		}
		description := p.Description
		if description == "" {
			description = fmt.Sprintf("Accrual %s %s", expense.Code, period.Name)
		}

		accrual, err := s.journal.PostSystemEntry(ctx, tx, dto.SystemEntryRequest{
			TenantID:    period.TenantID,
			PostingDate: period.EndDate,
			Description: description,
			Reference:   period.Name,
			Origin:      domain.OriginAccrual,
			Actor:       actor,
			Lines: []dto.LineRequest{
				dto.DebitLine(expense.AccountID, amount, description),
				dto.CreditLine(liability.AccountID, amount, description),
			},
		})
		if err != nil {
			return err
		}
		reversal, err := s.journal.PostSystemEntry(ctx, tx, dto.SystemEntryRequest{
			TenantID:     period.TenantID,
			PostingDate:  next.StartDate,
			Description:  "Reversal of " + description,
			Reference:    period.Name,
			Origin:       domain.OriginAccrualReversal,
			ReversalOfID: accrual.HeaderID,
			Actor:        actor,
			Lines: []dto.LineRequest{
				dto.DebitLine(liability.AccountID, amount, description),
				dto.CreditLine(expense.AccountID, amount, description),
			},
		})
		if err != nil {
			return err
		}
		result.AccrualHeaderIDs = append(result.AccrualHeaderIDs, accrual.HeaderID)
		result.AccrualReversalHeaderIDs = append(result.AccrualReversalHeaderIDs, reversal.HeaderID)
	}
	return nil
}

// closeTemporaryAccounts posts one header that brings every revenue and expense
// account's activity in the period to zero, with net income going to retained earnings.
func (s *closingService) closeTemporaryAccounts(ctx context.Context, tx portsrepo.LedgerTx, period domain.AccountingPeriod, accounts []domain.Account, actor string, result *domain.CloseResult) error {
	temporary := make([]string, 0)
	byID := make(map[string]domain.Account)
	for _, a := range accounts {
		if a.AccountType.IsTemporary() {
			temporary = append(temporary, a.AccountID)
			byID[a.AccountID] = a
		}
	}
	if len(temporary) == 0 {
		return nil
	}

	from := period.StartDate
	activity, err := tx.SumActivity(ctx, period.TenantID, domain.ActivityFilter{From: &from, To: period.EndDate, AccountIDs: temporary})
	if err != nil {
		return fmt.Errorf("failed to sum revenue and expense activity: %w", err)
	}
	sort.Slice(activity, func(i, j int) bool {
		return byID[activity[i].AccountID].Code < byID[activity[j].AccountID].Code
	})

	var lines []dto.LineRequest
	netIncome := decimal.Zero
	memo := "Close " + period.Name
	for _, a := range activity {
		net := a.Net()
		switch {
		case net.IsPositive():
			lines = append(lines, dto.CreditLine(a.AccountID, net, memo))
		case net.IsNegative():
			lines = append(lines, dto.DebitLine(a.AccountID, net.Neg(), memo))
		default:
			continue
		}
		// Revenue carries a credit (negative net) balance, expense a debit one.
		netIncome = netIncome.Sub(net)
	}
	result.NetIncome = netIncome
	if len(lines) == 0 {
		s.LogInfo(ctx, "No revenue or expense activity to close", slog.String("period_id", period.PeriodID))
		return nil
	}

	retained, err := s.accountByCode(ctx, tx, period.TenantID, s.cfg.RetainedEarningsAccountCode, domain.Equity)
	if err != nil {
		return err
	}
	switch {
	case netIncome.IsPositive():
		lines = append(lines, dto.CreditLine(retained.AccountID, netIncome, memo))
	case netIncome.IsNegative():
		lines = append(lines, dto.DebitLine(retained.AccountID, netIncome.Neg(), memo))
	}

	closing, err := s.journal.PostSystemEntry(ctx, tx, dto.SystemEntryRequest{
		TenantID:    period.TenantID,
		PostingDate: period.EndDate,
		Description: "Closing entry " + period.Name,
		Reference:   period.Name,
		Origin:      domain.OriginClosing,
		Actor:       actor,
		Lines:       lines,
	})
	if err != nil {
		return err
	}
	result.ClosingHeaderID = closing.HeaderID
	return nil
}

func (s *closingService) accountByCode(ctx context.Context, q portsrepo.AccountReader, tenantID, code string, want domain.AccountType) (*domain.Account, error) {
	account, err := q.FindAccountByCode(ctx, tenantID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", code, err)
	}
	if account.AccountType != want {
		return nil, fmt.Errorf("%w: account %s must be %s, is %s", apperrors.ErrValidation, code, want, account.AccountType)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, code)
	}
	return account, nil
}
