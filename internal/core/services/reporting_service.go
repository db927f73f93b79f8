package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/utils/accounting"
)

const defaultLedgerPageSize = 50

type accountKey struct {
	tenantID  string
	accountID string
}

type balanceKey struct {
	accountKey
	asOf time.Time
}

// ReportingService implements portssvc.ReportingService and keeps a cache of account
// balances that the journal service invalidates on commit.
type ReportingService struct {
	BaseService
	txm                portsrepo.TransactionManager
	functionalCurrency string

	mu          sync.RWMutex
	balances    map[balanceKey]decimal.Decimal
	generations map[accountKey]uint64
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(txm portsrepo.TransactionManager, functionalCurrency string, options ...ServiceOption) *ReportingService {
	return &ReportingService{
		BaseService:        newBaseService(options...),
		txm:                txm,
		functionalCurrency: strings.ToUpper(functionalCurrency),
		balances:           make(map[balanceKey]decimal.Decimal),
		generations:        make(map[accountKey]uint64),
	}
}

var (
	_ portssvc.ReportingService        = (*ReportingService)(nil)
	_ portssvc.BalanceCacheInvalidator = (*ReportingService)(nil)
)

// TrialBalance lists every account with activity up to asOf. Debit and credit totals
// always agree because every posted header balances in the functional currency.
func (s *ReportingService) TrialBalance(ctx context.Context, tenantID string, asOf time.Time) (*domain.TrialBalance, error) {
	const op = "Reporting.TrialBalance"
	asOf = domain.DateOf(asOf)
	q := s.txm.Queries()

	activity, err := q.SumActivity(ctx, tenantID, domain.ActivityFilter{To: asOf})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data", slog.String("as_of", asOf.Format(domain.DateLayout)))
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}
	accounts, err := q.ListAccounts(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	byID := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.AccountID] = a
	}

	tb := &domain.TrialBalance{TenantID: tenantID, AsOf: asOf, Currency: s.functionalCurrency, Rows: []domain.TrialBalanceRow{}}
	for _, act := range activity {
		if act.IsZero() {
			continue
		}
		account := byID[act.AccountID]
		tb.Rows = append(tb.Rows, domain.TrialBalanceRow{
			AccountID:   act.AccountID,
			AccountCode: account.Code,
			AccountName: account.Name,
			AccountType: account.AccountType,
			DebitTotal:  act.DebitTotal,
			CreditTotal: act.CreditTotal,
		})
		tb.TotalDebit = tb.TotalDebit.Add(act.DebitTotal)
		tb.TotalCredit = tb.TotalCredit.Add(act.CreditTotal)
	}
	sort.Slice(tb.Rows, func(i, j int) bool { return tb.Rows[i].AccountCode < tb.Rows[j].AccountCode })

	if !tb.Balanced() {
		err := apperrors.Unbalanced(op, "", tb.TotalDebit, tb.TotalCredit)
		s.LogError(ctx, err, "Trial balance does not balance", slog.String("as_of", asOf.Format(domain.DateLayout)))
		return nil, err
	}

	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("as_of", asOf.Format(domain.DateLayout)),
		slog.Int("row_count", len(tb.Rows)))
	return tb, nil
}

// AccountBalance returns the balance of an account as of a date, signed by its
// normal side. Results are cached until a commit touches the account.
func (s *ReportingService) AccountBalance(ctx context.Context, tenantID, accountID string, asOf time.Time) (decimal.Decimal, error) {
	asOf = domain.DateOf(asOf)
	key := balanceKey{accountKey: accountKey{tenantID: tenantID, accountID: accountID}, asOf: asOf}

	s.mu.RLock()
	cached, ok := s.balances[key]
	generation := s.generations[key.accountKey]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	q := s.txm.Queries()
	account, err := q.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}
	activity, err := q.SumActivity(ctx, tenantID, domain.ActivityFilter{To: asOf, AccountIDs: []string{accountID}})
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum activity of %s: %w", accountID, err)
	}
	total := domain.AccountActivity{AccountID: accountID}
	for _, a := range activity {
		total.DebitTotal = total.DebitTotal.Add(a.DebitTotal)
		total.CreditTotal = total.CreditTotal.Add(a.CreditTotal)
	}
	balance, err := accounting.NaturalBalance(total, account.AccountType)
	if err != nil {
		return decimal.Zero, err
	}

	s.mu.Lock()
	// A commit that landed while we were reading bumped the generation; caching
	// our result would resurrect a stale balance.
	if s.generations[key.accountKey] == generation {
		s.balances[key] = balance
	}
	s.mu.Unlock()
	return balance, nil
}

// InvalidateAccounts drops every cached balance of the given accounts.
func (s *ReportingService) InvalidateAccounts(tenantID string, accountIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	touched := make(map[accountKey]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		k := accountKey{tenantID: tenantID, accountID: id}
		touched[k] = struct{}{}
		s.generations[k]++
	}
	for key := range s.balances {
		if _, ok := touched[key.accountKey]; ok {
			delete(s.balances, key)
		}
	}
}

// PeriodActivity returns per-account activity with posting dates in [from, to].
func (s *ReportingService) PeriodActivity(ctx context.Context, tenantID string, from, to time.Time) ([]domain.AccountActivity, error) {
	from, to = domain.DateOf(from), domain.DateOf(to)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: period end %s is before start %s", apperrors.ErrValidation, to.Format(domain.DateLayout), from.Format(domain.DateLayout))
	}
	activity, err := s.txm.Queries().SumActivity(ctx, tenantID, domain.ActivityFilter{From: &from, To: to})
	if err != nil {
		return nil, fmt.Errorf("failed to sum period activity: %w", err)
	}
	return activity, nil
}

// AccountLedger lists the balance-affecting lines of an account, newest first.
func (s *ReportingService) AccountLedger(ctx context.Context, tenantID, accountID string, params dto.ListAccountEntriesParams) (*dto.ListAccountEntriesResponse, error) {
	if err := validateRequest(params); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit == 0 {
		limit = defaultLedgerPageSize
	}

	q := s.txm.Queries()
	if _, err := q.FindAccountByID(ctx, tenantID, accountID); err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}
	entries, nextToken, err := q.ListAccountEntries(ctx, tenantID, accountID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries of %s: %w", accountID, err)
	}
	return &dto.ListAccountEntriesResponse{Entries: entries, NextToken: nextToken}, nil
}
